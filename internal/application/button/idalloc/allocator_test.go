package idalloc

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/id"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// probeRepo implements only the GetByID probe; the allocator never calls
// anything else.
type probeRepo struct {
	button.Repository

	probes  int
	answers func(attempt int) error
}

func (r *probeRepo) GetByID(_ context.Context, _ string) (*button.Button, error) {
	r.probes++
	if err := r.answers(r.probes); err != nil {
		return nil, err
	}
	return &button.Button{}, nil
}

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAllocate_FirstCandidateFree(t *testing.T) {
	repo := &probeRepo{answers: func(int) error {
		return errors.NewNotFoundError("no row")
	}}
	allocator := NewAllocator(repo, testLogger())

	got, err := allocator.Allocate(context.Background())

	require.NoError(t, err)
	assert.True(t, id.IsLinkID(got))
	assert.Equal(t, 1, repo.probes)
}

func TestAllocate_RetriesPastOccupiedCandidates(t *testing.T) {
	repo := &probeRepo{answers: func(attempt int) error {
		if attempt < 4 {
			return nil // occupied
		}
		return errors.NewNotFoundError("no row")
	}}
	allocator := NewAllocator(repo, testLogger())

	got, err := allocator.Allocate(context.Background())

	require.NoError(t, err)
	assert.True(t, id.IsLinkID(got))
	assert.Equal(t, 4, repo.probes)
}

func TestAllocate_ConflictAfterBoundedAttempts(t *testing.T) {
	repo := &probeRepo{answers: func(int) error {
		return nil // every candidate occupied
	}}
	allocator := NewAllocator(repo, testLogger())

	_, err := allocator.Allocate(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, maxAttempts, repo.probes)
}

func TestAllocate_StoreErrorSurfacesImmediately(t *testing.T) {
	storeErr := errors.NewUnavailableError("store down")
	repo := &probeRepo{answers: func(int) error {
		return storeErr
	}}
	allocator := NewAllocator(repo, testLogger())

	_, err := allocator.Allocate(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsUnavailableError(err))
	assert.Equal(t, 1, repo.probes)
}
