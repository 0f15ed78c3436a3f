package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PriceSentinel/internal/model"
)

const yahooBody = `{"chart":{"result":[{
  "timestamp":[1700000000,1700000060,1700000120,1700000180],
  "indicators":{"quote":[{"close":[101.25,null,103.5,104.0]}]}
}],"error":null}}`

func TestYahooFetcher_ParsesChart(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	points, err := f.FetchIntraday(context.Background(), "AAPL", "1m", "1d")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/v8/finance/chart/AAPL" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "interval=1m") || !strings.Contains(gotQuery, "range=1d") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	// The null close is dropped.
	want := []float64{101.25, 103.5, 104.0}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for i, p := range points {
		if p.Price != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], p.Price)
		}
	}
	if !points[2].Time.Equal(time.Unix(1700000180, 0).UTC()) {
		t.Errorf("unexpected last timestamp %v", points[2].Time)
	}
}

func TestYahooFetcher_KeepsProviderOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1700000060,1700000000],
		  "indicators":{"quote":[{"close":[2,1]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	points, err := f.FetchIntraday(context.Background(), "AAPL", "1m", "1d")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(points) != 2 || points[0].Price != 2 || points[1].Price != 1 {
		t.Errorf("out-of-order payload must not be reordered, got %+v", points)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	if _, err := f.FetchIntraday(context.Background(), "NOPE", "1m", "1d"); err == nil || !strings.Contains(err.Error(), "No data found") {
		t.Errorf("expected api error, got %v", err)
	}
}

func TestYahooFetcher_MapsSymbol(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	if _, err := f.FetchIntraday(context.Background(), "SPX", "1m", "1d"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/v8/finance/chart/^GSPC" {
		t.Errorf("expected mapped ticker, got path %q", gotPath)
	}
}

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/api/v1/bars/intraday" || r.URL.Query().Get("symbol") != "MSFT" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`[{"timestamp":1700000000,"close":10},{"timestamp":1700000060,"close":11}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	points, err := f.FetchIntraday(context.Background(), "MSFT", "1m", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(points) != 2 || points[0].Price != 10 || points[1].Price != 11 {
		t.Errorf("unexpected points %+v", points)
	}

	f.APIKey = ""
	if _, err := f.FetchIntraday(context.Background(), "MSFT", "1m", ""); err == nil {
		t.Error("expected error on 401")
	}
}

func TestRESTFetcher_KeepsProviderOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"timestamp":200,"close":2},{"timestamp":100,"close":1}]`))
	}))
	defer srv.Close()

	points, err := NewRESTFetcher(srv.URL, "", "").FetchIntraday(context.Background(), "MSFT", "1m", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(points) != 2 || points[0].Price != 2 || points[1].Price != 1 {
		t.Errorf("out-of-order payload must not be reordered, got %+v", points)
	}
}

func TestCollector_KeepsOnlyNewerPoints(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock := &MockFetcher{Points: []model.PricePoint{
		{Time: base, Price: 1},
		{Time: base.Add(time.Minute), Price: 2},
		{Time: base.Add(2 * time.Minute), Price: 3},
	}}
	col := NewCollector(mock, "AAPL", "1m", "1d")
	col.HoldLast = false

	batch, err := col.Collect(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(batch.Points) != 3 || batch.Source != "mock" || batch.Symbol != "AAPL" {
		t.Errorf("unexpected first batch %+v", batch)
	}

	batch, err = col.Collect(context.Background(), base.Add(time.Minute))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(batch.Points) != 1 || batch.Points[0].Price != 3 {
		t.Errorf("expected only the newest point, got %+v", batch.Points)
	}
	if !batch.After.Equal(base.Add(time.Minute)) {
		t.Errorf("batch should carry its cursor, got %v", batch.After)
	}
}

func TestCollector_HoldsBackFormingBar(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock := &MockFetcher{Points: []model.PricePoint{
		{Time: base, Price: 10},
		{Time: base.Add(time.Minute), Price: 11},
	}}
	col := NewCollector(mock, "AAPL", "1m", "1d")

	batch, err := col.Collect(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(batch.Points) != 1 || batch.Points[0].Price != 10 {
		t.Fatalf("expected only the finished bar, got %+v", batch.Points)
	}

	// The held bar closes at 15 once a newer bar shows up.
	mock.Points = []model.PricePoint{
		{Time: base, Price: 10},
		{Time: base.Add(time.Minute), Price: 15},
		{Time: base.Add(2 * time.Minute), Price: 16},
	}
	batch, err = col.Collect(context.Background(), base)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(batch.Points) != 1 || batch.Points[0].Price != 15 {
		t.Errorf("expected the final close of the held bar, got %+v", batch.Points)
	}
}

func TestCollector_PassesOutOfOrderTailThrough(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	mock := &MockFetcher{Points: []model.PricePoint{
		{Time: base, Price: 1},
		{Time: base.Add(3 * time.Minute), Price: 4},
		{Time: base.Add(time.Minute), Price: 2},
	}}
	col := NewCollector(mock, "AAPL", "1m", "1d")
	col.HoldLast = false

	batch, err := col.Collect(context.Background(), base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(batch.Points) != 2 || batch.Points[0].Price != 4 || batch.Points[1].Price != 2 {
		t.Errorf("expected the unsorted tail, got %+v", batch.Points)
	}
}

func TestCollector_WrapsFetchError(t *testing.T) {
	boom := errors.New("boom")
	col := NewCollector(&MockFetcher{Err: boom}, "AAPL", "1m", "1d")
	if _, err := col.Collect(context.Background(), time.Time{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}
