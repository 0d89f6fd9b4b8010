package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// HTTPProvider fetches rates from public JSON endpoints: a bluelytics-style
// FX quote and a CAC index series. Both endpoints are read-only and take no
// parameters beyond an optional result-count hint on the index series.
type HTTPProvider struct {
	httpClient *http.Client
	fxURL      string
	indexURL   string
}

// NewHTTPProvider creates a provider for the given endpoint URLs.
func NewHTTPProvider(httpClient *http.Client, fxURL, indexURL string) *HTTPProvider {
	return &HTTPProvider{httpClient: httpClient, fxURL: fxURL, indexURL: indexURL}
}

type blueQuoteResponse struct {
	Blue struct {
		ValueSell float64 `json:"value_sell"`
		ValueBuy  float64 `json:"value_buy"`
	} `json:"blue"`
}

type indexValueResponse struct {
	Period  string  `json:"periodo"`
	General float64 `json:"general"`
}

// LatestForeignRate fetches the current blue sell rate.
func (p *HTTPProvider) LatestForeignRate(ctx context.Context) (decimal.Decimal, error) {
	var quote blueQuoteResponse
	if err := p.getJSON(ctx, p.fxURL, &quote); err != nil {
		return decimal.Zero, err
	}
	if quote.Blue.ValueSell <= 0 {
		return decimal.Zero, fmt.Errorf("invalid fx rate: %f", quote.Blue.ValueSell)
	}
	return decimal.NewFromFloat(quote.Blue.ValueSell), nil
}

// LatestIndexRate fetches the most recent construction index value. The
// endpoint returns the series newest-first; a limit hint keeps the payload
// to the single value we need.
func (p *HTTPProvider) LatestIndexRate(ctx context.Context) (decimal.Decimal, error) {
	var values []indexValueResponse
	if err := p.getJSON(ctx, p.indexURL+"?limit=1", &values); err != nil {
		return decimal.Zero, err
	}
	if len(values) == 0 {
		return decimal.Zero, fmt.Errorf("empty index series")
	}
	if values[0].General <= 0 {
		return decimal.Zero, fmt.Errorf("invalid index value for %s: %f", values[0].Period, values[0].General)
	}
	return decimal.NewFromFloat(values[0].General), nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building rate request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rate request: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding rate response: %w", err)
	}
	return nil
}
