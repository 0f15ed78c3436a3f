package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"PriceSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Points []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(_ context.Context, _, _, _ string) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.PricePoint, len(m.Points))
	copy(out, m.Points)
	return out, nil
}

// Collector turns provider snapshots into incremental batches.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
	Range    string
	// HoldLast keeps the newest bar of each snapshot back until a later bar
	// exists, since its close is still forming.
	HoldLast bool
}

// NewCollector creates a new Collector that holds back the forming bar.
func NewCollector(fetcher Fetcher, symbol, interval, rng string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Interval: interval, Range: rng, HoldLast: true}
}

// Collect fetches the provider's current window and returns everything from
// the first point strictly newer than after, in provider order. Points are
// never reordered; out-of-order data is left for the store to reject. A zero
// after keeps everything.
func (c *Collector) Collect(ctx context.Context, after time.Time) (*model.Batch, error) {
	points, err := c.Fetcher.FetchIntraday(ctx, c.Symbol, c.Interval, c.Range)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", c.Symbol, c.Fetcher.Name(), err)
	}
	if c.HoldLast && len(points) > 0 {
		points = points[:len(points)-1]
	}

	start := len(points)
	for i, p := range points {
		if after.IsZero() || p.Time.After(after) {
			start = i
			break
		}
	}

	return &model.Batch{
		Symbol:    c.Symbol,
		Source:    c.Fetcher.Name(),
		Points:    points[start:],
		After:     after,
		FetchedAt: time.Now(),
	}, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
