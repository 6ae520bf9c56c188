package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"IPOSentinel/internal/model"
)

// SQLiteRecorder persists summary snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS summary_runs (
			run_id       TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			generated_at INTEGER NOT NULL,
			source       TEXT,
			trigger_type TEXT,
			row_count    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON summary_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS summary_rows (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             TEXT NOT NULL REFERENCES summary_runs(run_id),
			row_index          INTEGER NOT NULL,
			ticker             TEXT NOT NULL,
			pct_overall_change REAL,
			osd                INTEGER,
			osd_max_pct_gain   REAL,
			osd_ongoing        INTEGER,
			bars               INTEGER,
			first_date         INTEGER,
			last_date          INTEGER,
			max_drawdown_pct   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON summary_rows(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_ticker ON summary_rows(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSummary stores the snapshot in one transaction. An empty RunID is
// replaced with a fresh UUID.
func (r *SQLiteRecorder) RecordSummary(snap *SummarySnapshot) error {
	if snap == nil || snap.Table == nil {
		return errors.New("record summary: nil snapshot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO summary_runs
		(run_id, timestamp, generated_at, source, trigger_type, row_count)
		VALUES (?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), snap.Table.GeneratedAt.Unix(),
		snap.Source, snap.Trigger, snap.Table.Len(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, row := range snap.Table.Rows {
		if _, err := tx.Exec(`INSERT INTO summary_rows
			(run_id, row_index, ticker, pct_overall_change, osd, osd_max_pct_gain,
			 osd_ongoing, bars, first_date, last_date, max_drawdown_pct)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			snap.RunID, row.Index, row.Ticker, row.PctOverallChange, row.OSD, row.OSDMaxPctGain,
			row.OSDOngoing, row.Bars, row.FirstDate.Unix(), row.LastDate.Unix(), row.MaxDrawdownPct,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

// LatestSummary loads the most recently recorded snapshot.
func (r *SQLiteRecorder) LatestSummary() (*SummarySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &SummarySnapshot{Table: &model.SummaryTable{}}
	var generatedAt int64
	err := r.db.QueryRow(`SELECT run_id, generated_at, source, trigger_type
		FROM summary_runs ORDER BY timestamp DESC, rowid DESC LIMIT 1`).
		Scan(&snap.RunID, &generatedAt, &snap.Source, &snap.Trigger)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	snap.Table.GeneratedAt = time.Unix(generatedAt, 0)

	rows, err := r.db.Query(`SELECT row_index, ticker, pct_overall_change, osd, osd_max_pct_gain,
		osd_ongoing, bars, first_date, last_date, max_drawdown_pct
		FROM summary_rows WHERE run_id = ? ORDER BY row_index`, snap.RunID)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m           model.TickerMetrics
			first, last int64
		)
		if err := rows.Scan(&m.Index, &m.Ticker, &m.PctOverallChange, &m.OSD, &m.OSDMaxPctGain,
			&m.OSDOngoing, &m.Bars, &first, &last, &m.MaxDrawdownPct); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		m.FirstDate = time.Unix(first, 0)
		m.LastDate = time.Unix(last, 0)
		snap.Table.Rows = append(snap.Table.Rows, m)
	}
	return snap, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
