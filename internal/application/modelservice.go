// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
	"github.com/ericfisherdev/modelkeeper/internal/domain/port/driven"
)

// Business errors returned by ModelService. Anything else it returns is a
// storage failure.
var (
	// ErrDuplicateRecord indicates a create for a name that is already stored.
	ErrDuplicateRecord = errors.New("this model already exists")

	// ErrRecordNotFound indicates an increment for a name that is not stored.
	ErrRecordNotFound = errors.New("the model name given does not correspond to any model stored")

	// ErrValueOverflow indicates an increment whose result does not fit in an int64.
	ErrValueOverflow = errors.New("the resulting value is out of range")
)

// ModelService enforces the record lifecycle on top of a ModelStore: a name
// can be created once and only existing records can be incremented. It keeps
// no state between calls, so the store is the only source of truth.
//
// Create and increment are load-then-store sequences with no locking.
// Concurrent increments on the same name can lose an update.
type ModelService struct {
	store  driven.ModelStore
	logger *slog.Logger
	now    func() time.Time
}

// NewModelService creates a new ModelService with the required dependencies.
func NewModelService(store driven.ModelStore, logger *slog.Logger) *ModelService {
	return &ModelService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CreateRecord stores a new record stamped with today's UTC date. It returns
// ErrDuplicateRecord, without writing, when the name is already stored.
func (s *ModelService) CreateRecord(ctx context.Context, name string, value int64) (model.ModelRecord, error) {
	if err := model.ValidateName(name); err != nil {
		return model.ModelRecord{}, err
	}

	existing, err := s.store.Load(ctx, name)
	if err != nil {
		return model.ModelRecord{}, fmt.Errorf("check existing model %q: %w", name, err)
	}
	if existing != nil {
		return model.ModelRecord{}, ErrDuplicateRecord
	}

	record := model.ModelRecord{
		Name:  name,
		Value: value,
		Date:  model.Today(s.now()),
	}
	if err := s.store.Store(ctx, record); err != nil {
		return model.ModelRecord{}, fmt.Errorf("create model %q: %w", name, err)
	}

	s.logger.Info("model created", "name", name, "value", value, "date", record.Date.String())
	return record, nil
}

// IncrementValue adds delta, which may be negative, to the stored value and
// returns the updated record. It returns ErrRecordNotFound, without writing,
// when the name is not stored.
func (s *ModelService) IncrementValue(ctx context.Context, name string, delta int64) (model.ModelRecord, error) {
	if err := model.ValidateName(name); err != nil {
		return model.ModelRecord{}, err
	}

	record, err := s.store.Load(ctx, name)
	if err != nil {
		return model.ModelRecord{}, fmt.Errorf("load model %q: %w", name, err)
	}
	if record == nil {
		return model.ModelRecord{}, ErrRecordNotFound
	}

	if addOverflows(record.Value, delta) {
		return model.ModelRecord{}, ErrValueOverflow
	}

	record.Value += delta
	if err := s.store.Store(ctx, *record); err != nil {
		return model.ModelRecord{}, fmt.Errorf("update model %q: %w", name, err)
	}

	s.logger.Debug("model incremented", "name", name, "delta", delta, "value", record.Value)
	return *record, nil
}

// ListAllRecords returns every stored record in store order.
func (s *ModelService) ListAllRecords(ctx context.Context) ([]model.ModelRecord, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if records == nil {
		records = []model.ModelRecord{}
	}
	return records, nil
}

// addOverflows reports whether v + delta falls outside the int64 range.
func addOverflows(v, delta int64) bool {
	if delta > 0 {
		return v > math.MaxInt64-delta
	}
	return v < math.MinInt64-delta
}
