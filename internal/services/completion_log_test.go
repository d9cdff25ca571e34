package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/utils"
)

type memCompletions struct {
	rows []models.CompletionRecord
	err  error
}

func (m *memCompletions) Insert(_ context.Context, rec *models.CompletionRecord) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, *rec)
	return nil
}

func (m *memCompletions) ListByTrip(context.Context, int64, int64) ([]models.CompletionRecord, error) {
	return m.rows, nil
}

func TestCompletionLog_RecordsThroughClient(t *testing.T) {
	repo := &memCompletions{}
	cl := NewCompletionLog(repo, 24*time.Hour, quietLogger())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cl.now = func() time.Time { return fixed }

	p := &scriptedProvider{reply: "ok"}
	client := llm.NewClient(p, llm.WithRecorder(cl))

	ctx := utils.WithTripID(utils.WithRequestID(context.Background(), "req-1"), 9)
	_, err := client.Chat(ctx, []models.ChatMessage{models.NewTextMessage("user", "hi")})
	require.NoError(t, err)

	p.err = errors.New("boom")
	_, err = client.Chat(ctx, []models.ChatMessage{models.NewTextMessage("user", "hi")})
	require.Error(t, err)

	require.Len(t, repo.rows, 2)
	ok, failed := repo.rows[0], repo.rows[1]
	assert.Equal(t, "req-1", ok.RequestID)
	assert.Equal(t, int64(9), ok.TripID)
	assert.Equal(t, "chat", ok.Mode)
	assert.Equal(t, "scripted", ok.Provider)
	assert.Equal(t, "scripted-1", ok.Model)
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, fixed.Add(24*time.Hour), ok.ExpiresAt)
	assert.NotEmpty(t, ok.CallID)

	assert.Equal(t, "failed", failed.Status)
	assert.Contains(t, failed.Error, "boom")
}

func TestCompletionLog_WriteFailureIsSwallowed(t *testing.T) {
	repo := &memCompletions{err: errors.New("mongo down")}
	cl := NewCompletionLog(repo, time.Hour, quietLogger())

	assert.NotPanics(t, func() {
		cl.Record(context.Background(), llm.CallRecord{Mode: llm.ModeChat, Provider: "x"})
	})
}
