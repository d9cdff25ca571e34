package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/utils"
)

type memProfiles struct {
	byUser  map[string]models.Profile
	upserts int
	fail    bool
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	if m.fail {
		return nil, errDB
	}
	p, ok := m.byUser[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *models.Profile) error {
	if m.fail {
		return errDB
	}
	m.upserts++
	if old, ok := m.byUser[p.UserID]; ok {
		p.ProfileID = old.ProfileID
	} else {
		p.ProfileID = int64(len(m.byUser) + 1)
	}
	m.byUser[p.UserID] = *p
	return nil
}

func TestProfileService(t *testing.T) {
	repo := &memProfiles{byUser: map[string]models.Profile{}}
	svc := NewProfileService(repo)
	ctx := context.Background()

	_, err := svc.GetMe(ctx, "u-1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	require.NoError(t, svc.Upsert(ctx, &models.Profile{UserID: "u-1", Age: "30"}))
	require.NoError(t, svc.Upsert(ctx, &models.Profile{UserID: "u-1", Age: "31"}))
	assert.Len(t, repo.byUser, 1)

	p, err := svc.GetMe(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "31", p.Age)

	assert.True(t, utils.IsCode(svc.Upsert(ctx, &models.Profile{}), utils.CodeUnauthorized))

	repo.fail = true
	assert.True(t, utils.IsCode(svc.Upsert(ctx, &models.Profile{UserID: "u-1"}), utils.CodeInternal))
	_, err = svc.GetMe(ctx, "u-1")
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
}
