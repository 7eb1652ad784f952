// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
)

// ErrCorruptRecord indicates a stored entry exists but cannot be decoded
// into a ModelRecord.
var ErrCorruptRecord = errors.New("corrupt model record")

// ModelStore defines the driven port for model record persistence.
// Store overwrites any existing record with the same name and performs no
// uniqueness check. Load returns (nil, nil) when no record has the name.
// ListAll skips entries that cannot be decoded.
type ModelStore interface {
	Store(ctx context.Context, record model.ModelRecord) error
	Load(ctx context.Context, name string) (*model.ModelRecord, error)
	ListAll(ctx context.Context) ([]model.ModelRecord, error)
}
