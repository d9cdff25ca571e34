package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/providers/llm"
	mongorepo "github.com/tripwise/prompt-svc/internal/repositories/mongo"
	"github.com/tripwise/prompt-svc/internal/utils"
)

const completionLogWriteTimeout = 5 * time.Second

// CompletionLog records every provider call into the audit collection. It
// implements llm.Recorder; write failures are logged and never reach the
// request.
type CompletionLog struct {
	repo mongorepo.CompletionRepository
	ttl  time.Duration
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewCompletionLog(repo mongorepo.CompletionRepository, ttl time.Duration, log logrus.FieldLogger) *CompletionLog {
	return &CompletionLog{repo: repo, ttl: ttl, log: log, now: time.Now}
}

func (l *CompletionLog) Record(ctx context.Context, rec llm.CallRecord) {
	now := l.now().UTC()
	doc := &models.CompletionRecord{
		CallID:           uuid.NewString(),
		RequestID:        utils.RequestID(ctx),
		TripID:           utils.TripID(ctx),
		Mode:             rec.Mode.String(),
		Provider:         rec.Provider,
		Model:            rec.Model,
		Status:           "ok",
		PromptTokens:     rec.Usage.PromptTokens,
		CompletionTokens: rec.Usage.CompletionTokens,
		LatencyMS:        rec.Latency.Milliseconds(),
		Timestamp:        now,
		ExpiresAt:        now.Add(l.ttl),
	}
	if rec.Err != nil {
		doc.Status = "failed"
		doc.Error = rec.Err.Error()
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionLogWriteTimeout)
	defer cancel()
	if err := l.repo.Insert(wctx, doc); err != nil {
		l.log.WithError(err).WithField("call_id", doc.CallID).Warn("completion log write failed")
	}
}
