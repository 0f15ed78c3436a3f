package model

import "time"

// Signal is the discrete result of one evaluation.
type Signal string

const (
	NoSignal Signal = ""
	Buy      Signal = "BUY"
)

func (s Signal) String() string {
	if s == Buy {
		return "Buy"
	}
	return "NoSignal"
}

// Criterion is one boolean predicate of the decision rule.
type Criterion struct {
	Name      string
	Met       bool
	Available bool
}

// Evaluation wraps a Signal with the data it was derived from.
type Evaluation struct {
	Signal     Signal
	Indicators IndicatorSet
	Criteria   []Criterion
	Tally      int
	Complete   bool // every window was satisfiable
	Length     int
	LastTime   time.Time
}
