package postgres

import (
	"context"
	"errors"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/utils"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	ChatHistory(ctx context.Context, tripID int64) ([]models.Message, error)
	RecentItinerary(ctx context.Context, tripID int64) (*models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

// Insert appends one turn. Each call is its own statement; callers writing
// several turns get no rollback of earlier ones.
func (r *messageRepo) Insert(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ChatHistory returns every turn of the trip in insertion order, whatever
// its category.
func (r *messageRepo) ChatHistory(ctx context.Context, tripID int64) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("message_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *messageRepo) RecentItinerary(ctx context.Context, tripID int64) (*models.Message, error) {
	var m models.Message
	err := r.db.WithContext(ctx).
		Where("trip_id = ? AND message_category = ?", tripID, models.CategoryItinerary).
		Order("message_id DESC").
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
