package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/blobstore"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// MaxImageBytes bounds a single item image upload.
const MaxImageBytes = 2 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type UploadImageCommand struct {
	OwnerAddress string
	ContentType  string
	Data         []byte
}

type UploadImageResult struct {
	// URL is the public URL of the hosted image, ready to be stored on a
	// button.
	URL string
}

// UploadImageUseCase stores an item image and hands back its public URL.
// When no blob store is configured the caller keeps the image inline as a
// data URL instead.
type UploadImageUseCase struct {
	images blobstore.Store
	logger logger.Interface
}

func NewUploadImageUseCase(images blobstore.Store, logger logger.Interface) *UploadImageUseCase {
	return &UploadImageUseCase{images: images, logger: logger}
}

func (uc *UploadImageUseCase) Execute(ctx context.Context, cmd UploadImageCommand) (*UploadImageResult, error) {
	if uc.images == nil {
		return nil, errors.NewUnavailableError("image hosting is not configured")
	}
	if len(cmd.Data) == 0 {
		return nil, errors.NewValidationError("image data is required")
	}
	if len(cmd.Data) > MaxImageBytes {
		return nil, errors.NewValidationError(
			fmt.Sprintf("image exceeds %d bytes", MaxImageBytes))
	}
	ext, ok := imageExtensions[cmd.ContentType]
	if !ok {
		return nil, errors.NewValidationError("unsupported image type", cmd.ContentType)
	}

	path := fmt.Sprintf("%s/%s.%s", strings.ToLower(cmd.OwnerAddress), uuid.NewString(), ext)
	url, err := uc.images.Upload(ctx, path, cmd.Data, cmd.ContentType)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotConfigured) {
			return nil, errors.NewUnavailableError("image hosting is not configured")
		}
		uc.logger.Errorw("image upload failed", "path", path, "error", err)
		return nil, errors.NewUnavailableError("image upload failed", err.Error())
	}

	return &UploadImageResult{URL: url}, nil
}
