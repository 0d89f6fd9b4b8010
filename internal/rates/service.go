package rates

import (
	"context"
	"sync"
	"time"

	"obralink/internal/logger"
)

// Service holds the latest known rate snapshot. A refresh runs the two
// sub-fetches concurrently; failure of one never fails the other, and a
// failed fetch leaves an explicit Unavailable reading rather than a stale
// value. The snapshot is read-only to its consumers.
type Service struct {
	provider Provider
	timeout  time.Duration

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewService creates a rate service. Until the first refresh completes the
// snapshot reports both readings as Loading.
func NewService(provider Provider, timeout time.Duration) *Service {
	return &Service{
		provider: provider,
		timeout:  timeout,
		snapshot: Snapshot{
			Foreign: Reading{State: StateLoading},
			Index:   Reading{State: StateLoading},
		},
	}
}

// Latest returns the most recent snapshot.
func (s *Service) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh fetches both rates concurrently and returns the updated snapshot.
func (s *Service) Refresh(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		wg      sync.WaitGroup
		foreign Reading
		index   Reading
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rate, err := s.provider.LatestForeignRate(ctx)
		if err != nil {
			logger.Get().Warnw("fx rate fetch failed", "error", err)
			foreign = Unavailable()
			return
		}
		foreign = Ready(rate, time.Now())
	}()
	go func() {
		defer wg.Done()
		rate, err := s.provider.LatestIndexRate(ctx)
		if err != nil {
			logger.Get().Warnw("index rate fetch failed", "error", err)
			index = Unavailable()
			return
		}
		index = Ready(rate, time.Now())
	}()
	wg.Wait()

	s.mu.Lock()
	s.snapshot = Snapshot{Foreign: foreign, Index: index}
	snap := s.snapshot
	s.mu.Unlock()

	return snap
}
