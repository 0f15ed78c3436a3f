package strategy

import "PriceSentinel/internal/model"

// Criterion names, in tally order.
const (
	CriterionAboveSMA10   = "price>SMA10"
	CriterionSMACrossover = "SMA5>SMA20"
	CriterionOversold     = "RSI<30"
	CriterionMomentum     = "momentum>0"
	CriterionBreakout     = "breakout"
)

const oversoldRSI = 30.0

// buildCriteria evaluates each predicate independently. A predicate whose
// inputs are unavailable is reported as unmet.
func buildCriteria(ind *model.IndicatorSet) []model.Criterion {
	return []model.Criterion{
		{
			Name:      CriterionAboveSMA10,
			Available: ind.SMA10OK,
			Met:       ind.SMA10OK && ind.LastPrice > ind.SMA10,
		},
		{
			Name:      CriterionSMACrossover,
			Available: ind.SMA5OK && ind.SMA20OK,
			Met:       ind.SMA5OK && ind.SMA20OK && ind.SMA5 > ind.SMA20,
		},
		{
			Name:      CriterionOversold,
			Available: ind.RSIOK,
			Met:       ind.RSIOK && ind.RSI < oversoldRSI,
		},
		{
			Name:      CriterionMomentum,
			Available: ind.MomentumOK,
			Met:       ind.MomentumOK && ind.Momentum > 0,
		},
		{
			Name:      CriterionBreakout,
			Available: ind.BreakoutOK,
			Met:       ind.BreakoutOK && ind.Breakout,
		},
	}
}

func tally(criteria []model.Criterion) int {
	n := 0
	for _, c := range criteria {
		if c.Met {
			n++
		}
	}
	return n
}
