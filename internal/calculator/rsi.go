package calculator

import (
	"errors"
	"fmt"
)

// CalculateRSI computes a plain (unsmoothed) RSI from the summed gains and
// losses of the price deltas inside the trailing window. It needs at least
// `period` prices; with exactly `period` prices only period-1 deltas exist and
// all of them are used.
//
// When there are no losses the denominator is 1 instead of 0, so a flat or
// rising window yields 100 - 100/(1+gains) rather than 100.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 1 {
		return 0, errors.New("period must be greater than 1")
	}
	n := len(prices)
	if n < period {
		return 0, fmt.Errorf("%w for RSI(%d): have %d", ErrInsufficientData, period, n)
	}

	start := n - period
	if start < 1 {
		start = 1
	}
	var gains, losses float64
	for i := start; i < n; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	denom := losses
	if denom == 0 {
		denom = 1
	}
	rs := gains / denom
	return 100.0 - 100.0/(1.0+rs), nil
}
