package model

import "time"

// PricePoint is a single (timestamp, price) sample of the monitored instrument.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// Batch is one poll's worth of freshly retrieved points in provider order.
// After is the timestamp the batch was collected against; a batch only
// extends a series whose last point is at After.
type Batch struct {
	Symbol    string
	Source    string
	Points    []PricePoint
	After     time.Time
	FetchedAt time.Time
}
