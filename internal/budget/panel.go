package budget

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/rates"
	"obralink/internal/uuid"
)

// DeleteState models the two-step delete confirmation explicitly. The first
// delete request only arms the confirmation; a second, explicit request
// performs the destructive call. Any other action disarms it.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteArmed
	DeleteInProgress
)

// String returns the state's wire label.
func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeleteArmed:
		return "armed"
	case DeleteInProgress:
		return "deleting"
	default:
		return "unknown"
	}
}

// Panel is one open editing panel. Each panel owns its own state: a busy
// flag allowing exactly one lifecycle operation in flight at a time, and
// the delete confirmation state. Panels are in-memory only, so an armed
// confirmation can never survive a restart.
type Panel struct {
	ID       string
	BudgetID string

	mu          sync.Mutex
	busy        bool
	deleteState DeleteState
}

// Busy reports whether a lifecycle operation is in flight.
func (p *Panel) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// State returns the current delete confirmation state.
func (p *Panel) State() DeleteState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deleteState
}

// begin marks the panel busy for a non-delete lifecycle operation. Any such
// action disarms a pending delete confirmation.
func (p *Panel) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return apperrors.ErrOperationInFlight
	}
	p.busy = true
	p.deleteState = DeleteIdle
	return nil
}

func (p *Panel) end() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

// disarm resets an armed delete confirmation.
func (p *Panel) disarm() {
	p.mu.Lock()
	if p.deleteState == DeleteArmed {
		p.deleteState = DeleteIdle
	}
	p.mu.Unlock()
}

// Manager owns the open panels and routes lifecycle operations through
// their per-panel guards. Opening a panel triggers one rate refresh; the
// two sub-fetches run concurrently and tolerate independent failure, so
// rendering is never blocked on rates.
type Manager struct {
	lifecycle *Service
	rates     *rates.Service

	mu     sync.RWMutex
	panels map[string]*Panel
}

// NewManager creates a panel manager.
func NewManager(lifecycle *Service, rateService *rates.Service) *Manager {
	return &Manager{
		lifecycle: lifecycle,
		rates:     rateService,
		panels:    make(map[string]*Panel),
	}
}

// Open creates a panel session. budgetID is empty for a creation panel.
// Opening a panel counts as navigating away from every other panel, so any
// armed delete confirmation elsewhere is reset. The rate refresh runs in
// the background; an operation dispatched before it finishes simply sees
// loading readings in its preview.
func (m *Manager) Open(budgetID string) *Panel {
	panel := &Panel{ID: uuid.New(), BudgetID: budgetID}

	m.mu.Lock()
	for _, p := range m.panels {
		p.disarm()
	}
	m.panels[panel.ID] = panel
	m.mu.Unlock()

	if m.rates != nil {
		go m.rates.Refresh(context.Background())
	}

	return panel
}

// Get returns an open panel.
func (m *Manager) Get(panelID string) (*Panel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	panel, ok := m.panels[panelID]
	if !ok {
		return nil, apperrors.ErrPanelNotFound
	}
	return panel, nil
}

// Close discards a panel session. Closing stops listening for results but
// does not retract an in-flight write.
func (m *Manager) Close(panelID string) {
	m.mu.Lock()
	delete(m.panels, panelID)
	m.mu.Unlock()
}

// Preview derives the indexation preview for a pending amount using the
// latest rate snapshot.
func (m *Manager) Preview(amount decimal.Decimal, mode models.IndexationMode) Preview {
	return CalculatePreview(amount, mode, m.rates.Latest())
}

// Create runs a creation through the panel's guards.
func (m *Manager) Create(ctx context.Context, panelID, orgID string, draft CreateDraft, fullForm bool) (*models.Budget, error) {
	panel, err := m.Get(panelID)
	if err != nil {
		return nil, err
	}
	if err := panel.begin(); err != nil {
		return nil, err
	}
	defer panel.end()

	return m.lifecycle.Create(ctx, orgID, draft, fullForm)
}

// Revalue runs a revaluation through the panel's guards.
func (m *Manager) Revalue(ctx context.Context, panelID, orgID, budgetID string, draft RevalueDraft, author string) (*models.Budget, error) {
	panel, err := m.Get(panelID)
	if err != nil {
		return nil, err
	}
	if err := panel.begin(); err != nil {
		return nil, err
	}
	defer panel.end()

	return m.lifecycle.Revalue(ctx, orgID, budgetID, draft, author)
}

// AddSupplement runs a supplement through the panel's guards.
func (m *Manager) AddSupplement(ctx context.Context, panelID, orgID, budgetID string, draft SupplementDraft, author string) (*models.Budget, error) {
	panel, err := m.Get(panelID)
	if err != nil {
		return nil, err
	}
	if err := panel.begin(); err != nil {
		return nil, err
	}
	defer panel.end()

	return m.lifecycle.AddSupplement(ctx, orgID, budgetID, draft, author)
}

// Delete advances the two-step confirmation. The first call arms it and
// performs no deletion; the second call executes the destructive operation
// and closes the panel. Returns whether the budget was actually deleted.
func (m *Manager) Delete(ctx context.Context, panelID, orgID, budgetID string) (bool, error) {
	panel, err := m.Get(panelID)
	if err != nil {
		return false, err
	}

	panel.mu.Lock()
	if panel.busy {
		panel.mu.Unlock()
		return false, apperrors.ErrOperationInFlight
	}
	switch panel.deleteState {
	case DeleteIdle:
		panel.deleteState = DeleteArmed
		panel.mu.Unlock()
		return false, nil
	case DeleteArmed:
		panel.deleteState = DeleteInProgress
		panel.busy = true
		panel.mu.Unlock()
	default:
		panel.mu.Unlock()
		return false, apperrors.ErrOperationInFlight
	}

	err = m.lifecycle.Delete(ctx, orgID, budgetID)

	panel.mu.Lock()
	panel.busy = false
	if err != nil {
		panel.deleteState = DeleteIdle
		panel.mu.Unlock()
		return false, err
	}
	panel.mu.Unlock()

	m.Close(panelID)
	return true, nil
}
