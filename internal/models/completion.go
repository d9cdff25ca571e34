package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionRecord is one provider call kept in the audit collection.
type CompletionRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CallID    string             `bson:"call_id" json:"call_id"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	TripID    int64              `bson:"trip_id,omitempty" json:"trip_id,omitempty"`

	Mode     string `bson:"mode" json:"mode"`         // chat|embedding|image
	Provider string `bson:"provider" json:"provider"` // openai|vertex
	Model    string `bson:"model,omitempty" json:"model,omitempty"`
	Status   string `bson:"status" json:"status"` // ok|failed
	Error    string `bson:"error,omitempty" json:"error,omitempty"`

	PromptTokens     int64 `bson:"prompt_tokens,omitempty" json:"prompt_tokens,omitempty"`
	CompletionTokens int64 `bson:"completion_tokens,omitempty" json:"completion_tokens,omitempty"`
	LatencyMS        int64 `bson:"latency_ms" json:"latency_ms"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
