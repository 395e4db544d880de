// Package sqlite persists alert records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"tradewatch/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// StoreConfig configures the SQLite alert store.
type StoreConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/alerts.db"
}

// Store is the SQLite-backed alert store. A single writer connection
// with WAL mode keeps concurrent reads cheap while the evaluation loop
// and the user-facing service both touch the same table.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// New opens the database, enables WAL mode and creates the schema.
func New(cfg StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS alerts (
			id                  TEXT PRIMARY KEY,
			owner_id            TEXT NOT NULL,
			symbol              TEXT NOT NULL,
			type                TEXT NOT NULL,
			status              TEXT NOT NULL,
			target_price        REAL,
			rsi_threshold       REAL,
			min_signal_strength INTEGER,
			timeframe           TEXT NOT NULL DEFAULT '',
			note                TEXT NOT NULL DEFAULT '',
			repeat_on_trigger   INTEGER NOT NULL DEFAULT 1,
			triggered_at        INTEGER,
			triggered_price     REAL,
			created_at          INTEGER NOT NULL,
			updated_at          INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts (status);
		CREATE INDEX IF NOT EXISTS idx_alerts_owner  ON alerts (owner_id, created_at);
	`)
	return err
}

const alertColumns = `id, owner_id, symbol, type, status,
	target_price, rsi_threshold, min_signal_strength,
	timeframe, note, repeat_on_trigger,
	triggered_at, triggered_price, created_at, updated_at`

// Create inserts a new alert record.
func (s *Store) Create(ctx context.Context, a model.Alert) error {
	var triggeredAt *int64
	if a.TriggeredAt != nil {
		ts := a.TriggeredAt.Unix()
		triggeredAt = &ts
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.OwnerID, a.Symbol, string(a.Type), string(a.Status),
		a.TargetPrice, a.RSIThreshold, a.MinSignalStrength,
		string(a.Timeframe), a.Note, boolToInt(a.RepeatOnTrigger),
		triggeredAt, a.TriggeredPrice, a.CreatedAt.Unix(), a.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite insert alert: %w", err)
	}
	return nil
}

// ListActive returns every ACTIVE alert across all owners, oldest
// first so long-standing alerts are evaluated before fresh ones.
func (s *Store) ListActive(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE status = ?
		ORDER BY created_at ASC
	`, string(model.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("sqlite query active alerts: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// ListByOwner returns all of one owner's alerts, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite query alerts by owner: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// Find returns one alert scoped to its owner.
func (s *Store) Find(ctx context.Context, id, ownerID string) (model.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Alert{}, model.ErrAlertNotFound
		}
		return model.Alert{}, fmt.Errorf("sqlite find alert: %w", err)
	}
	return a, nil
}

// Update applies a partial update to one alert. Nil patch fields are
// left unchanged.
func (s *Store) Update(ctx context.Context, id string, patch model.AlertPatch) error {
	set := "updated_at = ?"
	args := []interface{}{time.Now().UTC().Unix()}

	if patch.Status != nil {
		set += ", status = ?"
		args = append(args, string(*patch.Status))
	}
	if patch.TriggeredAt != nil {
		set += ", triggered_at = ?"
		args = append(args, patch.TriggeredAt.Unix())
	}
	if patch.TriggeredPrice != nil {
		set += ", triggered_price = ?"
		args = append(args, *patch.TriggeredPrice)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("sqlite update alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite update alert: %w", err)
	}
	if n == 0 {
		return model.ErrAlertNotFound
	}
	return nil
}

// Delete removes an alert record outright.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite delete alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite delete alert: %w", err)
	}
	if n == 0 {
		return model.ErrAlertNotFound
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (model.Alert, error) {
	var (
		a              model.Alert
		typ, status    string
		tf             string
		repeat         int
		triggeredAt    sql.NullInt64
		triggeredPrice sql.NullFloat64
		targetPrice    sql.NullFloat64
		rsiThreshold   sql.NullFloat64
		minStrength    sql.NullInt64
		createdAt      int64
		updatedAt      int64
	)

	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Symbol, &typ, &status,
		&targetPrice, &rsiThreshold, &minStrength,
		&tf, &a.Note, &repeat,
		&triggeredAt, &triggeredPrice, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Alert{}, err
	}

	a.Type = model.AlertType(typ)
	a.Status = model.AlertStatus(status)
	a.Timeframe = model.Timeframe(tf)
	a.RepeatOnTrigger = repeat != 0
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if targetPrice.Valid {
		v := targetPrice.Float64
		a.TargetPrice = &v
	}
	if rsiThreshold.Valid {
		v := rsiThreshold.Float64
		a.RSIThreshold = &v
	}
	if minStrength.Valid {
		v := int(minStrength.Int64)
		a.MinSignalStrength = &v
	}
	if triggeredAt.Valid {
		t := time.Unix(triggeredAt.Int64, 0).UTC()
		a.TriggeredAt = &t
	}
	if triggeredPrice.Valid {
		v := triggeredPrice.Float64
		a.TriggeredPrice = &v
	}
	return a, nil
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
