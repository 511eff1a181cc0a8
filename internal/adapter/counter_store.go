package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// CounterStore persists a single non-negative integer between runs.
// Implementations do not guard against concurrent processes.
type CounterStore interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) error
}

// FileCounterStore keeps the counter as plain text in a file.
type FileCounterStore struct {
	fs   TextFSAdapter
	path m.Path
}

// NewFileCounterStore constructs a FileCounterStore writing to path.
func NewFileCounterStore(fs TextFSAdapter, path m.Path) *FileCounterStore {
	return &FileCounterStore{fs: fs, path: path}
}

// Get returns the stored value, or 0 when the file does not exist.
func (s *FileCounterStore) Get(_ context.Context) (int, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, &FileLoadError{Path: s.path, Err: err}
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("counter file %s: %w", s.path, err)
	}

	return value, nil
}

// Set replaces the stored value.
func (s *FileCounterStore) Set(_ context.Context, value int) error {
	if value < 0 {
		return fmt.Errorf("counter value must be non-negative, got %d", value)
	}

	if err := s.fs.WriteFile(s.path, []byte(strconv.Itoa(value)), 0o600); err != nil {
		return fmt.Errorf("failed to write counter file: %w", err)
	}

	return nil
}

// SQLCounterStore keeps the counter as a named row in the database.
type SQLCounterStore struct {
	db   *gorm.DB
	name string
}

// NewSQLCounterStore constructs a SQLCounterStore for the named counter.
func NewSQLCounterStore(db *gorm.DB, name string) *SQLCounterStore {
	return &SQLCounterStore{db: db, name: name}
}

// Get returns the stored value, or 0 when the row does not exist.
func (s *SQLCounterStore) Get(ctx context.Context) (int, error) {
	var record CounterRecord

	err := s.db.WithContext(ctx).First(&record, "name = ?", s.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("error reading counter %s: %w", s.name, err)
	}

	return record.Value, nil
}

// Set upserts the stored value.
func (s *SQLCounterStore) Set(ctx context.Context, value int) error {
	if value < 0 {
		return fmt.Errorf("counter value must be non-negative, got %d", value)
	}

	dbMutex.Lock()
	defer dbMutex.Unlock()

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&CounterRecord{Name: s.name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("error writing counter %s: %w", s.name, err)
	}

	return nil
}
