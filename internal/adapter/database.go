package adapter

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite only supports one writer at a time, so every write goes through
// this lock.
var dbMutex sync.Mutex

// ChatMessageRecord is one persisted chat turn.
type ChatMessageRecord struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index;not null"`
	Role      string `gorm:"size:16;not null"`
	Content   string
	CreatedAt time.Time
}

// TableName overrides the gorm default.
func (ChatMessageRecord) TableName() string { return "chat_messages" }

// LabelingRunRecord is one persisted labeling invocation.
type LabelingRunRecord struct {
	ID              uint   `gorm:"primaryKey"`
	SessionID       string `gorm:"index"`
	Provider        string `gorm:"size:32"`
	Model           string
	MatchPercentage float64
	HasReference    bool
	InputText       string
	LabeledText     string
	CreatedAt       time.Time
}

// TableName overrides the gorm default.
func (LabelingRunRecord) TableName() string { return "labeling_runs" }

// CounterRecord stores a named integer.
type CounterRecord struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int    `gorm:"not null"`
}

// TableName overrides the gorm default.
func (CounterRecord) TableName() string { return "counters" }

// OpenDatabase opens (or creates) the sqlite database at path and brings the
// schema up to date.
func OpenDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", path, err)
	}

	if err := getMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return db, nil
}

func getMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "0",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&ChatMessageRecord{}, &CounterRecord{})
			},
		},
		{
			ID: "1",
			Migrate: func(txn *gorm.DB) error {
				return txn.AutoMigrate(&LabelingRunRecord{})
			},
			Rollback: func(txn *gorm.DB) error {
				return txn.Migrator().DropTable(&LabelingRunRecord{})
			},
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		slog.Debug("clean database detected, running full schema initialization")

		return txn.AutoMigrate(&ChatMessageRecord{}, &CounterRecord{}, &LabelingRunRecord{})
	})

	return migrator
}
