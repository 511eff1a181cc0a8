package adapter

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	m "github.com/mouse-blink/optilabel/internal/model"
)

// HistoryStore persists chat transcripts and labeling runs.
type HistoryStore interface {
	SaveMessage(ctx context.Context, sessionID string, message m.ChatMessage) error
	Messages(ctx context.Context, sessionID string) ([]m.ChatMessage, error)
	Sessions(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, sessionID string, result m.LabelingResult) error
	Runs(ctx context.Context, limit int) ([]m.LabelingRun, error)
}

// SQLHistoryStore implements HistoryStore on top of gorm.
type SQLHistoryStore struct {
	db *gorm.DB
}

// NewSQLHistoryStore constructs a SQLHistoryStore.
func NewSQLHistoryStore(db *gorm.DB) *SQLHistoryStore {
	return &SQLHistoryStore{db: db}
}

// SaveMessage appends a chat turn to the session transcript.
func (s *SQLHistoryStore) SaveMessage(ctx context.Context, sessionID string, message m.ChatMessage) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	record := ChatMessageRecord{
		SessionID: sessionID,
		Role:      string(message.Role),
		Content:   message.Content,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error saving chat message: %w", err)
	}

	return nil
}

// Messages returns the session transcript in insertion order.
func (s *SQLHistoryStore) Messages(ctx context.Context, sessionID string) ([]m.ChatMessage, error) {
	var records []ChatMessageRecord

	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error loading chat history: %w", err)
	}

	messages := make([]m.ChatMessage, 0, len(records))
	for _, record := range records {
		messages = append(messages, m.ChatMessage{Role: m.Role(record.Role), Content: record.Content})
	}

	return messages, nil
}

// Sessions lists the known session ids, oldest first.
func (s *SQLHistoryStore) Sessions(ctx context.Context) ([]string, error) {
	var sessions []string

	err := s.db.WithContext(ctx).Model(&ChatMessageRecord{}).
		Select("session_id").
		Group("session_id").
		Order("MIN(id) ASC").
		Pluck("session_id", &sessions).Error
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}

	return sessions, nil
}

// SaveRun records a labeling result.
func (s *SQLHistoryStore) SaveRun(ctx context.Context, sessionID string, result m.LabelingResult) error {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	record := LabelingRunRecord{
		SessionID:       sessionID,
		Provider:        result.Provider,
		Model:           result.Model,
		MatchPercentage: result.Accuracy.MatchPercentage,
		HasReference:    result.HasReference,
		InputText:       result.InputText,
		LabeledText:     result.LabeledText,
	}
	if !result.CreatedAt.IsZero() {
		record.CreatedAt = result.CreatedAt
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("error saving labeling run: %w", err)
	}

	return nil
}

// Runs returns the most recent labeling runs, newest first. A non-positive
// limit returns every run.
func (s *SQLHistoryStore) Runs(ctx context.Context, limit int) ([]m.LabelingRun, error) {
	var records []LabelingRunRecord

	query := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error loading labeling runs: %w", err)
	}

	runs := make([]m.LabelingRun, 0, len(records))
	for _, record := range records {
		runs = append(runs, m.LabelingRun{
			ID:              record.ID,
			SessionID:       record.SessionID,
			Provider:        record.Provider,
			Model:           record.Model,
			MatchPercentage: record.MatchPercentage,
			HasReference:    record.HasReference,
			InputText:       record.InputText,
			CreatedAt:       record.CreatedAt,
		})
	}

	return runs, nil
}
