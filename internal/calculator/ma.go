package calculator

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when the series is shorter than the requested window.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the trailing `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w for SMA(%d): have %d", ErrInsufficientData, period, len(prices))
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
