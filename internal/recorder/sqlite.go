package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the order journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite order journal opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			venue           TEXT NOT NULL,
			symbol          TEXT NOT NULL,
			side            TEXT NOT NULL,
			quantity        TEXT NOT NULL,
			order_id        TEXT,
			client_order_id TEXT,
			status          TEXT NOT NULL,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO orders
		(timestamp, venue, symbol, side, quantity, order_id, client_order_id, status, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), evt.Venue, evt.Symbol, evt.Side, evt.Quantity,
		evt.OrderID, evt.ClientOrderID, evt.Status, evt.Error,
	)
	return err
}

// RecentOrders returns the latest limit orders, newest first.
func (r *SQLiteRecorder) RecentOrders(limit int) ([]OrderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, venue, symbol, side, quantity,
		COALESCE(order_id, ''), COALESCE(client_order_id, ''), status, COALESCE(error, '')
		FROM orders ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []OrderEvent
	for rows.Next() {
		var evt OrderEvent
		var ts int64
		if err := rows.Scan(&ts, &evt.Venue, &evt.Symbol, &evt.Side, &evt.Quantity,
			&evt.OrderID, &evt.ClientOrderID, &evt.Status, &evt.Error); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite order journal")
	return r.db.Close()
}
