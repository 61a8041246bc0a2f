// Package idalloc allocates collision-free short link identifiers.
package idalloc

import (
	"context"
	"fmt"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/id"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// maxAttempts bounds the probe loop. With 62^6 candidates a collision inside
// the bound means the id space is effectively saturated or the store is
// misbehaving; the caller falls back to long-form links.
const maxAttempts = 10

// Allocator produces link ids that are free at probe time. The probe is an
// optimization only: concurrent allocators may race on the same candidate,
// and the insert's unique index remains the authoritative guard.
type Allocator struct {
	repo   button.Repository
	logger logger.Interface
}

func NewAllocator(repo button.Repository, logger logger.Interface) *Allocator {
	return &Allocator{repo: repo, logger: logger}
}

// Allocate returns an id for which no current row exists. It fails with a
// conflict error after exactly maxAttempts occupied candidates, and with the
// store's own error when probing becomes impossible.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate, err := id.NewLinkID()
		if err != nil {
			return "", fmt.Errorf("failed to generate link id: %w", err)
		}

		_, err = a.repo.GetByID(ctx, candidate)
		if errors.IsNotFoundError(err) {
			return candidate, nil
		}
		if err != nil {
			// Store unreachable: probing is pointless, surface it so the
			// caller can degrade to long links.
			return "", err
		}

		a.logger.Debugw("link id candidate occupied, retrying",
			"attempt", attempt,
			"candidate", candidate,
		)
	}

	return "", errors.NewConflictError(
		fmt.Sprintf("failed to allocate link id after %d attempts", maxAttempts))
}
