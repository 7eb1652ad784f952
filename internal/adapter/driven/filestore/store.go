// Package filestore implements the ModelStore port with one JSON file per record.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/modelkeeper/internal/domain/model"
	"github.com/ericfisherdev/modelkeeper/internal/domain/port/driven"
)

// recordsDirName is the subdirectory of the base directory holding record files.
const recordsDirName = "model1"

// Compile-time interface satisfaction check.
var _ driven.ModelStore = (*Store)(nil)

// Store keeps each record in <baseDir>/model1/<name> as a JSON document.
// No locking is applied: concurrent writers to the same name race and the
// last rename wins.
type Store struct {
	dir    string
	logger *slog.Logger
}

// recordDocument is the on-disk JSON shape of a record.
type recordDocument struct {
	Name  string `json:"name"`
	Value *int64 `json:"value"`
	Date  string `json:"date"`
}

// New creates a Store rooted at baseDir. Call Initialize before the first write.
func New(baseDir string, logger *slog.Logger) *Store {
	return &Store{
		dir:    filepath.Join(baseDir, recordsDirName),
		logger: logger,
	}
}

// Dir returns the directory holding the record files.
func (s *Store) Dir() string {
	return s.dir
}

// Initialize creates the records directory and any missing parents.
// It is safe to call on every startup.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create records directory %s: %w", s.dir, err)
	}

	return nil
}

// Store writes the record to its file, replacing any previous content. The
// file is written to a temporary sibling and renamed into place so readers
// never observe a partial document.
func (s *Store) Store(ctx context.Context, record model.ModelRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathFor(record.Name)
	if err != nil {
		return err
	}

	value := record.Value
	data, err := json.Marshal(recordDocument{
		Name:  record.Name,
		Value: &value,
		Date:  record.Date.String(),
	})
	if err != nil {
		return fmt.Errorf("encode record %q: %w", record.Name, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write record %q: %w", record.Name, err)
	}

	return nil
}

// Load reads the record stored under name. It returns (nil, nil) when no
// file exists for name.
func (s *Store) Load(ctx context.Context, name string) (*model.ModelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record %q: %w", name, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decode record %q: %w", name, err)
	}

	if record.Name != name {
		return nil, fmt.Errorf("record file %q holds name %q: %w", name, record.Name, driven.ErrCorruptRecord)
	}

	return record, nil
}

// ListAll loads every record file in directory order. Subdirectories and
// files that fail to load are skipped. A missing records directory yields an
// empty result.
func (s *Store) ListAll(ctx context.Context) ([]model.ModelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.ModelRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list records directory %s: %w", s.dir, err)
	}

	records := make([]model.ModelRecord, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir() {
			continue
		}

		record, err := s.Load(ctx, entry.Name())
		if err != nil {
			s.logger.Debug("skipping unreadable record file", "file", entry.Name(), "error", err)
			continue
		}
		if record == nil {
			// Removed between ReadDir and Load.
			continue
		}

		records = append(records, *record)
	}

	return records, nil
}

func (s *Store) pathFor(name string) (string, error) {
	if err := model.ValidateName(name); err != nil {
		return "", fmt.Errorf("record name %q: %w", name, err)
	}
	return filepath.Join(s.dir, name), nil
}

func decodeRecord(data []byte) (*model.ModelRecord, error) {
	var doc recordDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", driven.ErrCorruptRecord, err)
	}

	if doc.Value == nil {
		return nil, fmt.Errorf("%w: missing value", driven.ErrCorruptRecord)
	}

	date, err := model.ParseDate(doc.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driven.ErrCorruptRecord, err)
	}

	return &model.ModelRecord{
		Name:  doc.Name,
		Value: *doc.Value,
		Date:  date,
	}, nil
}
