package notifier

import (
	"context"

	"go.uber.org/zap"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
)

// LogPresenter writes every evaluation to the structured log.
type LogPresenter struct{}

func NewLogPresenter() *LogPresenter { return &LogPresenter{} }

func (LogPresenter) Present(_ context.Context, symbol string, ev *model.Evaluation) error {
	ind := ev.Indicators
	fields := []zap.Field{
		zap.String("symbol", symbol),
		zap.String("signal", ev.Signal.String()),
		zap.Int("length", ev.Length),
		zap.Int("tally", ev.Tally),
		zap.Bool("complete", ev.Complete),
	}
	if len(ev.Criteria) > 0 {
		fields = append(fields,
			zap.Float64("last_price", ind.LastPrice),
			zap.Float64("rsi", ind.RSI),
			zap.Float64("momentum", ind.Momentum),
			zap.Bool("breakout", ind.Breakout),
		)
	}
	logger.L().Info("evaluation", fields...)
	return nil
}

func (LogPresenter) Reject(_ context.Context, symbol string, cause error) error {
	logger.L().Warn("batch rejected", zap.String("symbol", symbol), zap.Error(cause))
	return nil
}
