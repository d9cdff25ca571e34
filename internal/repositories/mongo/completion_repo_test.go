package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/tripwise/prompt-svc/internal/models"
)

func TestCompletionRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert stamps timestamp", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewCompletionRepo(mt.DB)

		rec := &models.CompletionRecord{CallID: "c-1", Mode: "chat", Provider: "openai", Status: "ok"}
		require.NoError(t, repo.Insert(context.Background(), rec))
		assert.False(t, rec.Timestamp.IsZero())
	})

	mt.Run("list by trip", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + CompletionCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "call_id", Value: "c-2"}, {Key: "trip_id", Value: int64(5)}, {Key: "status", Value: "failed"}},
				bson.D{{Key: "call_id", Value: "c-1"}, {Key: "trip_id", Value: int64(5)}, {Key: "status", Value: "ok"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)
		repo := NewCompletionRepo(mt.DB)

		out, err := repo.ListByTrip(context.Background(), 5, 0)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "c-2", out[0].CallID)
		assert.Equal(t, "failed", out[0].Status)
	})
}
