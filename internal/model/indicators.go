package model

// IndicatorSet holds the statistics derived from a series at evaluation time.
// The *OK flags report whether the trailing window for that statistic was satisfiable.
type IndicatorSet struct {
	LastPrice float64

	SMA5    float64
	SMA5OK  bool
	SMA10   float64
	SMA10OK bool
	SMA20   float64
	SMA20OK bool

	RSI   float64
	RSIOK bool

	Momentum   float64
	MomentumOK bool

	BreakoutLevel float64 // max of the trailing window, excluding the last price
	Breakout      bool
	BreakoutOK    bool
}
