package postgres

import (
	"context"

	"github.com/tripwise/prompt-svc/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(ctx context.Context, u *models.User) error
	HasProfile(ctx context.Context, userID string) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// Upsert inserts the user or refreshes every column but the id.
func (r *userRepo) Upsert(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"provider", "access_token", "first_name", "last_name", "email", "url"}),
		}).
		Create(u).Error
}

func (r *userRepo) HasProfile(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}
