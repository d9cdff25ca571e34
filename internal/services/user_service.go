package services

import (
	"context"

	"github.com/tripwise/prompt-svc/internal/models"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
	"github.com/tripwise/prompt-svc/internal/utils"
)

type UserService interface {
	Upsert(ctx context.Context, u *models.User) error
	HasProfile(ctx context.Context, userID string) (bool, error)
}

type userService struct {
	users pgrepo.UserRepository
}

func NewUserService(users pgrepo.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Upsert(ctx context.Context, u *models.User) error {
	const op = "UserService.Upsert"

	if u == nil || u.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user id is required", nil)
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return dbErr(op, "failed to upsert user", err)
	}
	return nil
}

func (s *userService) HasProfile(ctx context.Context, userID string) (bool, error) {
	const op = "UserService.HasProfile"

	if userID == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	ok, err := s.users.HasProfile(ctx, userID)
	if err != nil {
		return false, dbErr(op, "failed to check profile existence", err)
	}
	return ok, nil
}
