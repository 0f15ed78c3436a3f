package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PriceSentinel/internal/model"
)

// Metrics holds all Prometheus metrics for the monitor.
type Metrics struct {
	PollsTotal         prometheus.Counter
	FetchErrorsTotal   prometheus.Counter
	PointsAppended     prometheus.Counter
	BatchesRejected    prometheus.Counter
	BatchesDiscarded   prometheus.Counter
	EvaluationsTotal   *prometheus.CounterVec // labels: signal
	EvaluationErrors   prometheus.Counter
	EvaluationDuration prometheus.Histogram
	SeriesLength       prometheus.Gauge
	CriteriaTally      prometheus.Gauge
	RSI                prometheus.Gauge
	LastPrice          prometheus.Gauge
	BuyActive          prometheus.Gauge // 1 while the current signal is Buy

	gatherer prometheus.Gatherer
}

// NewMetrics registers all metrics on reg. A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		PollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_polls_total",
			Help: "Total poll cycles started",
		}),
		FetchErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_fetch_errors_total",
			Help: "Poll cycles that failed to retrieve prices",
		}),
		PointsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_points_appended_total",
			Help: "Price points appended to the series",
		}),
		BatchesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_batches_rejected_total",
			Help: "Batches refused by the series store",
		}),
		BatchesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_batches_discarded_total",
			Help: "Queued batches dropped because an earlier batch was rejected",
		}),
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_evaluations_total",
			Help: "Signal evaluations by resulting signal",
		}, []string{"signal"}),
		EvaluationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_evaluation_errors_total",
			Help: "Evaluations that produced a non-finite indicator",
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_evaluation_duration_seconds",
			Help:    "Time spent computing indicators and the signal",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.01},
		}),
		SeriesLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_series_length",
			Help: "Points currently retained in the series",
		}),
		CriteriaTally: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_criteria_tally",
			Help: "Number of criteria met at the last evaluation",
		}),
		RSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_rsi",
			Help: "RSI(14) at the last evaluation",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_price",
			Help: "Newest price in the series",
		}),
		BuyActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_buy_signal_active",
			Help: "1 while the current signal is Buy",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.PollsTotal,
		m.FetchErrorsTotal,
		m.PointsAppended,
		m.BatchesRejected,
		m.BatchesDiscarded,
		m.EvaluationsTotal,
		m.EvaluationErrors,
		m.EvaluationDuration,
		m.SeriesLength,
		m.CriteriaTally,
		m.RSI,
		m.LastPrice,
		m.BuyActive,
	)
	return m
}

// ObserveEvaluation updates the gauges and counters for one evaluation.
func (m *Metrics) ObserveEvaluation(ev *model.Evaluation, seconds float64) {
	m.EvaluationsTotal.WithLabelValues(ev.Signal.String()).Inc()
	m.EvaluationDuration.Observe(seconds)
	m.SeriesLength.Set(float64(ev.Length))
	m.CriteriaTally.Set(float64(ev.Tally))
	if ev.Indicators.RSIOK {
		m.RSI.Set(ev.Indicators.RSI)
	}
	if len(ev.Criteria) > 0 {
		m.LastPrice.Set(ev.Indicators.LastPrice)
	}
	if ev.Signal == model.Buy {
		m.BuyActive.Set(1)
	} else {
		m.BuyActive.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
