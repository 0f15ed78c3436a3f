package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
)

// SQLiteRecorder journals batches and evaluations to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the monitor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_points (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			source      TEXT,
			ts          INTEGER NOT NULL,
			price       REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_symbol_ts ON price_points(symbol, ts)`,

		`CREATE TABLE IF NOT EXISTS evaluations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at    INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			series_length  INTEGER,
			last_ts        INTEGER,
			last_price     REAL,
			sma5           REAL,
			sma10          REAL,
			sma20          REAL,
			rsi            REAL,
			momentum       REAL,
			breakout_level REAL,
			breakout       INTEGER,
			tally          INTEGER,
			complete       INTEGER,
			signal         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_ts ON evaluations(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS rejections (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			symbol      TEXT,
			source      TEXT,
			points      INTEGER,
			reason      TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBatch inserts every point of the batch in one transaction.
func (r *SQLiteRecorder) RecordBatch(batch *model.Batch) error {
	if len(batch.Points) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO price_points (recorded_at, symbol, source, ts, price) VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range batch.Points {
		if _, err := stmt.Exec(now, batch.Symbol, batch.Source, p.Time.Unix(), p.Price); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert point: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordEvaluation(symbol string, ev *model.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := ev.Indicators
	var lastTS int64
	if !ev.LastTime.IsZero() {
		lastTS = ev.LastTime.Unix()
	}
	_, err := r.db.Exec(`INSERT INTO evaluations
		(recorded_at, symbol, series_length, last_ts, last_price,
		 sma5, sma10, sma20, rsi, momentum, breakout_level, breakout,
		 tally, complete, signal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), symbol, ev.Length, lastTS, ind.LastPrice,
		nullable(ind.SMA5, ind.SMA5OK), nullable(ind.SMA10, ind.SMA10OK), nullable(ind.SMA20, ind.SMA20OK),
		nullable(ind.RSI, ind.RSIOK), nullable(ind.Momentum, ind.MomentumOK),
		nullable(ind.BreakoutLevel, ind.BreakoutOK), ind.Breakout,
		ev.Tally, ev.Complete, ev.Signal.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordRejection(rej *Rejection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rejections (recorded_at, symbol, source, points, reason) VALUES (?,?,?,?,?)`,
		time.Now().Unix(), rej.Symbol, rej.Source, rej.Points, rej.Reason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}
