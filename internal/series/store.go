package series

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"PriceSentinel/internal/model"
)

// ErrInvalidSample is returned when an appended batch holds a non-finite or
// negative price, or a timestamp earlier than the one before it.
var ErrInvalidSample = errors.New("invalid sample")

// MinRetention is the smallest retention that still covers every indicator window.
const MinRetention = 20

// Store holds the ordered price history of one instrument.
type Store struct {
	mu        sync.RWMutex
	points    []model.PricePoint
	retention int // 0 keeps everything
}

// Option configures a Store.
type Option func(*Store)

// WithRetention keeps only the most recent n points. Values below MinRetention are raised to it.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n <= 0 {
			s.retention = 0
			return
		}
		if n < MinRetention {
			n = MinRetention
		}
		s.retention = n
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append validates the whole batch first and then appends it. A rejected batch
// leaves the series untouched.
func (s *Store) Append(points []model.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *model.PricePoint
	if n := len(s.points); n > 0 {
		prev = &s.points[n-1]
	}
	for i := range points {
		p := &points[i]
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("%w: point %d has non-finite price %v", ErrInvalidSample, i, p.Price)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: point %d has negative price %v", ErrInvalidSample, i, p.Price)
		}
		if prev != nil && p.Time.Before(prev.Time) {
			return fmt.Errorf("%w: point %d at %s is earlier than %s",
				ErrInvalidSample, i, p.Time.Format("2006-01-02 15:04:05"), prev.Time.Format("2006-01-02 15:04:05"))
		}
		prev = p
	}

	s.points = append(s.points, points...)
	if s.retention > 0 && len(s.points) > s.retention {
		// Copy into a fresh slice so the dropped prefix can be collected.
		kept := make([]model.PricePoint, s.retention, s.retention*2)
		copy(kept, s.points[len(s.points)-s.retention:])
		s.points = kept
	}
	return nil
}

// Snapshot returns a copy of the retained history, oldest first.
func (s *Store) Snapshot() []model.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.PricePoint, len(s.points))
	copy(out, s.points)
	return out
}

// Prices returns a copy of the retained prices, oldest first.
func (s *Store) Prices() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Price
	}
	return out
}

// Length returns the number of retained points.
func (s *Store) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Last returns the newest point.
func (s *Store) Last() (model.PricePoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.points) == 0 {
		return model.PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// Retention returns the configured cap, 0 when unbounded.
func (s *Store) Retention() int { return s.retention }
