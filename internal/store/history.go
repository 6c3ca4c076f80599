package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	pair_id       TEXT NOT NULL,
	spread_pct    TEXT NOT NULL,
	low_exchange  TEXT NOT NULL,
	low_price     TEXT NOT NULL,
	high_exchange TEXT NOT NULL,
	high_price    TEXT NOT NULL,
	detected_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_opportunities_pair ON opportunities(pair_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_detected ON opportunities(detected_at);
`

// OpportunityRecord is one persisted divergence detection.
type OpportunityRecord struct {
	ID           int64
	PairID       string
	SpreadPct    decimal.Decimal
	LowExchange  string
	LowPrice     decimal.Decimal
	HighExchange string
	HighPrice    decimal.Decimal
	DetectedAt   time.Time
}

// OpportunityLog is an append-only sqlite record of detected opportunities.
type OpportunityLog struct {
	db *sql.DB
}

// OpenOpportunityLog opens (creating if needed) the history database at dbPath.
func OpenOpportunityLog(dbPath string) (*OpportunityLog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return &OpportunityLog{db: db}, nil
}

// Close closes the underlying database.
func (l *OpportunityLog) Close() error {
	return l.db.Close()
}

// Insert appends one detection.
func (l *OpportunityLog) Insert(rec OpportunityRecord) error {
	_, err := l.db.Exec(
		`INSERT INTO opportunities
		 (pair_id, spread_pct, low_exchange, low_price, high_exchange, high_price, detected_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.PairID,
		rec.SpreadPct.String(),
		rec.LowExchange,
		rec.LowPrice.String(),
		rec.HighExchange,
		rec.HighPrice.String(),
		rec.DetectedAt,
	)
	return err
}

// Recent returns the most recent detections, newest first.
func (l *OpportunityLog) Recent(limit int) ([]OpportunityRecord, error) {
	rows, err := l.db.Query(
		`SELECT id, pair_id, spread_pct, low_exchange, low_price, high_exchange, high_price, detected_at
		 FROM opportunities ORDER BY detected_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OpportunityRecord
	for rows.Next() {
		var rec OpportunityRecord
		var spread, low, high string
		if err := rows.Scan(&rec.ID, &rec.PairID, &spread, &rec.LowExchange,
			&low, &rec.HighExchange, &high, &rec.DetectedAt); err != nil {
			return nil, err
		}

		rec.SpreadPct, err = decimal.NewFromString(spread)
		if err != nil {
			return nil, fmt.Errorf("corrupt spread for record %d: %w", rec.ID, err)
		}
		rec.LowPrice, err = decimal.NewFromString(low)
		if err != nil {
			return nil, fmt.Errorf("corrupt low price for record %d: %w", rec.ID, err)
		}
		rec.HighPrice, err = decimal.NewFromString(high)
		if err != nil {
			return nil, fmt.Errorf("corrupt high price for record %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the total number of persisted detections.
func (l *OpportunityLog) Count() (int64, error) {
	var count int64
	err := l.db.QueryRow("SELECT COUNT(*) FROM opportunities").Scan(&count)
	return count, err
}
