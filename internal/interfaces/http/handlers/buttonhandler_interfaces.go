package handlers

import (
	"context"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/usecases"
)

// Use case interfaces consumed by ButtonHandler. Handlers depend on these
// rather than the concrete use cases so tests can swap in mocks.

type createButtonUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateButtonCommand) (*usecases.CreateButtonResult, error)
}

type listButtonsUseCase interface {
	Execute(ctx context.Context, cmd usecases.ListButtonsCommand) (*usecases.ListButtonsResult, error)
}

type updateButtonUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateButtonCommand) (*usecases.UpdateButtonResult, error)
}

type archiveButtonUseCase interface {
	Execute(ctx context.Context, cmd usecases.ArchiveButtonCommand) error
}

type deleteButtonUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteButtonCommand) error
}

type uploadImageUseCase interface {
	Execute(ctx context.Context, cmd usecases.UploadImageCommand) (*usecases.UploadImageResult, error)
}
