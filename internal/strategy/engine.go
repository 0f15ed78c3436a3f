package strategy

import (
	"errors"
	"fmt"
	"math"

	"PriceSentinel/internal/calculator"
	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
)

// Window sizes and thresholds of the decision rule.
const (
	ShortSMAPeriod   = 5
	MidSMAPeriod     = 10
	LongSMAPeriod    = 20
	RSIPeriod        = 14
	MomentumLookback = 4
	BreakoutWindow   = 10

	// MinHistory is the length below which nothing is computed.
	MinHistory = RSIPeriod
	// FullHistory is the length at which every window is satisfiable.
	FullHistory = LongSMAPeriod

	BuyThreshold = 3
)

// ErrNonFiniteIndicator means an indicator came out NaN or infinite. Validated
// input cannot produce it, so it indicates a defect upstream.
var ErrNonFiniteIndicator = errors.New("non-finite indicator")

// Evaluate returns the signal for the given prices, oldest first. A
// non-finite indicator is logged at error level and yields NoSignal; callers
// that need the error itself use Analyze.
func Evaluate(prices []float64) model.Signal {
	ev, err := Analyze(prices)
	if err != nil {
		logger.Error("evaluate %d prices: %v", len(prices), err)
		return model.NoSignal
	}
	return ev.Signal
}

// Analyze computes the indicator set, the criteria and the resulting signal.
// Series shorter than MinHistory yield an empty NoSignal evaluation. Between
// MinHistory and FullHistory the available criteria are reported but the
// signal stays NoSignal.
func Analyze(prices []float64) (*model.Evaluation, error) {
	ev := &model.Evaluation{Signal: model.NoSignal, Length: len(prices)}
	if len(prices) < MinHistory {
		return ev, nil
	}

	ind := computeIndicators(prices)
	if err := checkFinite(&ind); err != nil {
		return ev, err
	}

	ev.Indicators = ind
	ev.Criteria = buildCriteria(&ind)
	ev.Tally = tally(ev.Criteria)
	ev.Complete = len(prices) >= FullHistory
	for _, c := range ev.Criteria {
		if !c.Available {
			ev.Complete = false
		}
	}
	if ev.Complete && ev.Tally >= BuyThreshold {
		ev.Signal = model.Buy
	}
	return ev, nil
}

func computeIndicators(prices []float64) model.IndicatorSet {
	ind := model.IndicatorSet{LastPrice: prices[len(prices)-1]}

	if v, err := calculator.CalculateSMA(prices, ShortSMAPeriod); err == nil {
		ind.SMA5, ind.SMA5OK = v, true
	}
	if v, err := calculator.CalculateSMA(prices, MidSMAPeriod); err == nil {
		ind.SMA10, ind.SMA10OK = v, true
	}
	if v, err := calculator.CalculateSMA(prices, LongSMAPeriod); err == nil {
		ind.SMA20, ind.SMA20OK = v, true
	}
	if v, err := calculator.CalculateRSI(prices, RSIPeriod); err == nil {
		ind.RSI, ind.RSIOK = v, true
	}
	if v, err := calculator.CalculateMomentum(prices, MomentumLookback); err == nil {
		ind.Momentum, ind.MomentumOK = v, true
	}
	if level, up, err := calculator.CalculateBreakout(prices, BreakoutWindow); err == nil {
		ind.BreakoutLevel, ind.Breakout, ind.BreakoutOK = level, up, true
	}
	return ind
}

func checkFinite(ind *model.IndicatorSet) error {
	values := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"last price", ind.LastPrice, true},
		{"SMA5", ind.SMA5, ind.SMA5OK},
		{"SMA10", ind.SMA10, ind.SMA10OK},
		{"SMA20", ind.SMA20, ind.SMA20OK},
		{"RSI", ind.RSI, ind.RSIOK},
		{"momentum", ind.Momentum, ind.MomentumOK},
		{"breakout level", ind.BreakoutLevel, ind.BreakoutOK},
	}
	for _, x := range values {
		if x.ok && (math.IsNaN(x.v) || math.IsInf(x.v, 0)) {
			return fmt.Errorf("%w: %s=%v", ErrNonFiniteIndicator, x.name, x.v)
		}
	}
	return nil
}
