package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
	"github.com/ericfisherdev/modelkeeper/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ModelStore = (*ModelRepo)(nil)

// ModelRepo is the SQLite implementation of the ModelStore port interface.
type ModelRepo struct {
	db     *DB
	logger *slog.Logger
}

// NewModelRepo creates a new ModelRepo backed by the given DB.
func NewModelRepo(db *DB, logger *slog.Logger) *ModelRepo {
	return &ModelRepo{db: db, logger: logger}
}

// Store inserts the record or replaces the value and date of an existing
// record with the same name.
func (r *ModelRepo) Store(ctx context.Context, record model.ModelRecord) error {
	const query = `
		INSERT INTO model_records (name, value, date) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, date = excluded.date
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, record.Name, record.Value, record.Date.String()); err != nil {
		return fmt.Errorf("store model record %q: %w", record.Name, err)
	}

	return nil
}

// Load retrieves a record by name. Returns nil, nil if no record has the name.
func (r *ModelRepo) Load(ctx context.Context, name string) (*model.ModelRecord, error) {
	const query = `SELECT name, value, date FROM model_records WHERE name = ?`

	var (
		record model.ModelRecord
		date   string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, name).Scan(&record.Name, &record.Value, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load model record %q: %w", name, err)
	}

	record.Date, err = model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("load model record %q: %w: %v", name, driven.ErrCorruptRecord, err)
	}

	return &record, nil
}

// ListAll returns all records in insertion order. Rows with an unparseable
// date are skipped.
func (r *ModelRepo) ListAll(ctx context.Context) ([]model.ModelRecord, error) {
	const query = `SELECT name, value, date FROM model_records ORDER BY rowid`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list model records: %w", err)
	}
	defer rows.Close()

	records := []model.ModelRecord{}
	for rows.Next() {
		var (
			record model.ModelRecord
			date   string
		)
		if err := rows.Scan(&record.Name, &record.Value, &date); err != nil {
			return nil, fmt.Errorf("scan model record: %w", err)
		}

		record.Date, err = model.ParseDate(date)
		if err != nil {
			r.logger.Debug("skipping model record with unreadable date", "name", record.Name, "error", err)
			continue
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model records: %w", err)
	}

	return records, nil
}
