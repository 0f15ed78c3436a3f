package calculator

import (
	"errors"
	"fmt"
)

// CalculateMomentum returns the signed change between the last price and the
// price `lookback` positions from the end (prices[n-lookback]).
func CalculateMomentum(prices []float64, lookback int) (float64, error) {
	if lookback <= 1 {
		return 0, errors.New("lookback must be greater than 1")
	}
	n := len(prices)
	if n < lookback {
		return 0, fmt.Errorf("%w for momentum(%d): have %d", ErrInsufficientData, lookback, n)
	}
	return prices[n-1] - prices[n-lookback], nil
}
