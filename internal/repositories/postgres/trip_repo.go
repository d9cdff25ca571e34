package postgres

import (
	"context"
	"errors"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/utils"
	"gorm.io/gorm"
)

// InitialTurns is the number of messages a complete initial planning request
// leaves on its trip.
const InitialTurns = 3

type TripRepository interface {
	Create(ctx context.Context, t *models.Trip) error
	GetByID(ctx context.Context, tripID int64) (*models.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]models.Trip, error)
	ListAll(ctx context.Context) ([]models.Trip, error)
	ListIncomplete(ctx context.Context) ([]models.IncompleteTrip, error)
}

type tripRepo struct {
	db *gorm.DB
}

func NewTripRepo(db *gorm.DB) TripRepository {
	return &tripRepo{db: db}
}

// Create inserts t and fills t.TripID from the generated key.
func (r *tripRepo) Create(ctx context.Context, t *models.Trip) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tripRepo) GetByID(ctx context.Context, tripID int64) (*models.Trip, error) {
	var t models.Trip
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tripRepo) ListByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	var rows []models.Trip
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("trip_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *tripRepo) ListAll(ctx context.Context) ([]models.Trip, error) {
	var rows []models.Trip
	err := r.db.WithContext(ctx).
		Order("trip_id ASC").
		Find(&rows).Error
	return rows, err
}

// ListIncomplete returns trips holding fewer than InitialTurns messages.
func (r *tripRepo) ListIncomplete(ctx context.Context) ([]models.IncompleteTrip, error) {
	var rows []models.IncompleteTrip
	err := r.db.WithContext(ctx).
		Table("trips").
		Select("trips.trip_id, COUNT(messages.message_id) AS message_count").
		Joins("LEFT JOIN messages ON messages.trip_id = trips.trip_id").
		Group("trips.trip_id").
		Having("COUNT(messages.message_id) < ?", InitialTurns).
		Order("trips.trip_id ASC").
		Scan(&rows).Error
	return rows, err
}
