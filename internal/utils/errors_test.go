package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	base := errors.New("conn reset")

	assert.Equal(t, "TripService.Plan: failed to create trip: conn reset",
		E(CodeInternal, "TripService.Plan", "failed to create trip", base).Error())
	assert.Equal(t, "TripService.Get: trip not found", E(CodeNotFound, "TripService.Get", "trip not found", nil).Error())
	assert.Equal(t, "conn reset", E(CodeInternal, "", "", base).Error())
}

func TestCodeOfAndStatus(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", E(CodeUnauthorized, "op", "nope", nil))
	assert.True(t, IsCode(wrapped, CodeUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(wrapped))

	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("repo: %w", ErrNotFound)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, http.StatusOK, HTTPStatus(E(CodeUpstream, "op", "", nil)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(E(CodeInvalidArgument, "op", "", nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("repo: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))

	assert.True(t, errors.Is(E(CodeNotFound, "op", "missing", ErrNotFound), ErrNotFound))
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Zero(t, TripID(ctx))

	ctx = WithTripID(WithRequestID(ctx, "req-1"), 42)
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, int64(42), TripID(ctx))
}
