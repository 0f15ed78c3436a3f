package collector

import (
	"context"

	"PriceSentinel/internal/model"
)

// Fetcher retrieves intraday prices from a market-data provider, oldest first.
type Fetcher interface {
	FetchIntraday(ctx context.Context, symbol, interval, rng string) ([]model.PricePoint, error)
	Name() string
}
