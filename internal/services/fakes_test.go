package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/utils"
)

var errDB = errors.New("connection refused")

type memTrips struct {
	mu      sync.Mutex
	rows    []models.Trip
	failGet bool
}

func (m *memTrips) Create(_ context.Context, t *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.TripID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *t)
	return nil
}

func (m *memTrips) GetByID(_ context.Context, id int64) (*models.Trip, error) {
	if m.failGet {
		return nil, errDB
	}
	for i := range m.rows {
		if m.rows[i].TripID == id {
			t := m.rows[i]
			return &t, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memTrips) ListByUser(_ context.Context, userID string) ([]models.Trip, error) {
	var out []models.Trip
	for _, t := range m.rows {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrips) ListAll(context.Context) ([]models.Trip, error) { return m.rows, nil }

func (m *memTrips) ListIncomplete(context.Context) ([]models.IncompleteTrip, error) { return nil, nil }

type memMessages struct {
	mu        sync.Mutex
	rows      []models.Message
	failAfter int // Insert fails once this many rows exist; 0 disables
}

func (m *memMessages) Insert(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.rows) >= m.failAfter {
		return errDB
	}
	msg.MessageID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memMessages) ChatHistory(_ context.Context, tripID int64) ([]models.Message, error) {
	var out []models.Message
	for _, r := range m.rows {
		if r.TripID == tripID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMessages) RecentItinerary(_ context.Context, tripID int64) (*models.Message, error) {
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.TripID == tripID && r.Category == models.CategoryItinerary {
			return &r, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memMessages) byTrip(tripID int64) []models.Message {
	out, _ := m.ChatHistory(context.Background(), tripID)
	return out
}

// scriptedProvider answers chat calls with reply and remembers what it saw.
type scriptedProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  []models.ChatMessage
}

func (p *scriptedProvider) Name() string { return "scripted" }
func (p *scriptedProvider) Close() error { return nil }

func (p *scriptedProvider) Chat(_ context.Context, msgs []models.ChatMessage) (*llm.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = msgs
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Completion{Role: "assistant", Content: p.reply, Model: "scripted-1", FinishReason: "stop"}, nil
}

func (p *scriptedProvider) Embed(context.Context, string) ([]float64, string, error) {
	return []float64{1}, "scripted-embed", nil
}

func (p *scriptedProvider) GenerateImages(_ context.Context, _ string, n int, _ string) ([]llm.Image, error) {
	return make([]llm.Image, n), nil
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}
