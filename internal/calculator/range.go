package calculator

import (
	"errors"
	"fmt"
	"math"
)

// TrailingHigh returns the highest price of the trailing `window` prices,
// excluding the last one (prices[n-window .. n-2]).
func TrailingHigh(prices []float64, window int) (float64, error) {
	if window <= 1 {
		return 0, errors.New("window must be greater than 1")
	}
	n := len(prices)
	if n < window {
		return 0, fmt.Errorf("%w for trailing high(%d): have %d", ErrInsufficientData, window, n)
	}
	high := math.Inf(-1)
	for i := n - window; i < n-1; i++ {
		if prices[i] > high {
			high = prices[i]
		}
	}
	return high, nil
}

// CalculateBreakout reports whether the last price is strictly above the
// trailing high of the preceding window-1 prices.
func CalculateBreakout(prices []float64, window int) (level float64, breakout bool, err error) {
	level, err = TrailingHigh(prices, window)
	if err != nil {
		return 0, false, err
	}
	return level, prices[len(prices)-1] > level, nil
}
