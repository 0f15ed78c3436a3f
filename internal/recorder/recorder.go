package recorder

import "PriceSentinel/internal/model"

// Rejection describes a batch the series store refused.
type Rejection struct {
	Symbol string
	Source string
	Points int
	Reason string
}

// Recorder journals what the monitor saw and decided. It is write-only;
// nothing is read back when the process starts.
type Recorder interface {
	RecordBatch(batch *model.Batch) error
	RecordEvaluation(symbol string, ev *model.Evaluation) error
	RecordRejection(rej *Rejection) error
	Close() error
}
