package services

import (
	"context"
	"errors"

	"github.com/tripwise/prompt-svc/internal/models"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
	"github.com/tripwise/prompt-svc/internal/utils"
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "user id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, dbErr(op, "failed to get profile", err)
	}
	return p, nil
}

// Upsert creates the caller's profile or overwrites every field of it.
func (s *profileService) Upsert(ctx context.Context, p *models.Profile) error {
	const op = "ProfileService.Upsert"

	if p == nil || p.UserID == "" {
		return utils.E(utils.CodeUnauthorized, op, "user id is required", nil)
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return dbErr(op, "failed to upsert profile", err)
	}
	return nil
}
