package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"PriceSentinel/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func count(t *testing.T, r *SQLiteRecorder, table string) int {
	t.Helper()
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestSQLiteRecorder_RecordBatch(t *testing.T) {
	r := openTestRecorder(t)
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	batch := &model.Batch{Symbol: "AAPL", Source: "mock", Points: []model.PricePoint{
		{Time: base, Price: 1},
		{Time: base.Add(time.Minute), Price: 2},
	}}
	if err := r.RecordBatch(batch); err != nil {
		t.Fatalf("record batch: %v", err)
	}
	if err := r.RecordBatch(&model.Batch{Symbol: "AAPL"}); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if n := count(t, r, "price_points"); n != 2 {
		t.Errorf("expected 2 points, got %d", n)
	}
}

func TestSQLiteRecorder_RecordEvaluation(t *testing.T) {
	r := openTestRecorder(t)
	ev := &model.Evaluation{
		Signal: model.Buy,
		Indicators: model.IndicatorSet{
			LastPrice: 20, SMA5: 18, SMA5OK: true, SMA10: 15.5, SMA10OK: true,
			RSI: 93.3, RSIOK: true,
		},
		Tally:    4,
		Complete: true,
		Length:   20,
		LastTime: time.Now(),
	}
	if err := r.RecordEvaluation("AAPL", ev); err != nil {
		t.Fatalf("record evaluation: %v", err)
	}

	var signal string
	var sma20 *float64
	var tally int
	if err := r.db.QueryRow("SELECT signal, sma20, tally FROM evaluations").Scan(&signal, &sma20, &tally); err != nil {
		t.Fatalf("query: %v", err)
	}
	if signal != "Buy" || tally != 4 {
		t.Errorf("unexpected row: signal=%q tally=%d", signal, tally)
	}
	if sma20 != nil {
		t.Errorf("unavailable SMA20 should be NULL, got %v", *sma20)
	}
}

func TestSQLiteRecorder_RecordRejection(t *testing.T) {
	r := openTestRecorder(t)
	if err := r.RecordRejection(&Rejection{Symbol: "AAPL", Source: "mock", Points: 3, Reason: "invalid sample"}); err != nil {
		t.Fatalf("record rejection: %v", err)
	}
	if n := count(t, r, "rejections"); n != 1 {
		t.Errorf("expected 1 rejection, got %d", n)
	}
}
