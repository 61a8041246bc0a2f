package usecases

import (
	"context"
	"strings"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/blobstore"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

type DeleteButtonCommand struct {
	ID           string
	OwnerAddress string
}

// DeleteButtonUseCase permanently removes a button. Hosted item images are
// deleted best-effort before the row: an orphaned blob is cheaper than a
// dangling image reference, and a blob-store failure never blocks the delete.
type DeleteButtonUseCase struct {
	repo   button.Repository
	images blobstore.Store
	// imageBaseURL is the public URL prefix hosted images were served under.
	imageBaseURL string
	logger       logger.Interface
}

func NewDeleteButtonUseCase(
	repo button.Repository,
	images blobstore.Store,
	imageBaseURL string,
	logger logger.Interface,
) *DeleteButtonUseCase {
	return &DeleteButtonUseCase{
		repo:         repo,
		images:       images,
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		logger:       logger,
	}
}

func (uc *DeleteButtonUseCase) Execute(ctx context.Context, cmd DeleteButtonCommand) error {
	b, err := uc.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	uc.deleteHostedImages(ctx, b)

	return uc.repo.HardDelete(ctx, cmd.ID, cmd.OwnerAddress)
}

func (uc *DeleteButtonUseCase) deleteHostedImages(ctx context.Context, b *button.Button) {
	if uc.images == nil {
		return
	}
	for _, img := range b.ItemImages() {
		path, ok := uc.hostedObjectPath(img)
		if !ok {
			continue
		}
		if err := uc.images.Delete(ctx, path); err != nil && !errors.Is(err, blobstore.ErrNotConfigured) {
			uc.logger.Warnw("failed to delete item image, leaving orphan",
				"button_id", b.ID(),
				"path", path,
				"error", err,
			)
		}
	}
}

// hostedObjectPath maps a public image URL back to its object path. Inline
// data URLs and foreign hosts carry no stored object.
func (uc *DeleteButtonUseCase) hostedObjectPath(img string) (string, bool) {
	if uc.imageBaseURL == "" || !strings.HasPrefix(img, uc.imageBaseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(img, uc.imageBaseURL+"/"), true
}
