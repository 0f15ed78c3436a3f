package recorder

import "PriceSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBatch(_ *model.Batch) error                     { return nil }
func (n *NoopRecorder) RecordEvaluation(_ string, _ *model.Evaluation) error { return nil }
func (n *NoopRecorder) RecordRejection(_ *Rejection) error                   { return nil }
func (n *NoopRecorder) Close() error                                         { return nil }
