package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/optilabel/internal/model"
)

func TestSQLHistoryStore_Messages(t *testing.T) {
	ctx := context.Background()
	store := NewSQLHistoryStore(openTestDatabase(t))

	require.NoError(t, store.SaveMessage(ctx, "s1", m.ChatMessage{Role: m.RoleUser, Content: "maximize profit"}))
	require.NoError(t, store.SaveMessage(ctx, "s2", m.ChatMessage{Role: m.RoleUser, Content: "other"}))
	require.NoError(t, store.SaveMessage(ctx, "s1", m.ChatMessage{Role: m.RoleAssistant, Content: "x = 4"}))

	messages, err := store.Messages(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []m.ChatMessage{
		{Role: m.RoleUser, Content: "maximize profit"},
		{Role: m.RoleAssistant, Content: "x = 4"},
	}, messages)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, sessions)

	messages, err = store.Messages(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSQLHistoryStore_Runs(t *testing.T) {
	ctx := context.Background()
	store := NewSQLHistoryStore(openTestDatabase(t))

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, pct := range []float64{50, 75, 100} {
		err := store.SaveRun(ctx, "", m.LabelingResult{
			InputText:    "run",
			LabeledText:  "run _ _ O",
			Accuracy:     m.SetComparison{MatchPercentage: pct},
			HasReference: true,
			Provider:     "googleai",
			Model:        "gemini-1.5-flash",
			CreatedAt:    created.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := store.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.InDelta(t, 100.0, runs[0].MatchPercentage, 1e-9)
	assert.InDelta(t, 75.0, runs[1].MatchPercentage, 1e-9)
	assert.Equal(t, "googleai", runs[0].Provider)
	assert.True(t, runs[0].HasReference)

	all, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
