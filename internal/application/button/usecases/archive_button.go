package usecases

import (
	"context"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
)

type ArchiveButtonCommand struct {
	ID           string
	OwnerAddress string
}

// ArchiveButtonUseCase soft-deletes a button. The row and its counters stay
// intact; only the active listing stops showing it.
type ArchiveButtonUseCase struct {
	repo button.Repository
}

func NewArchiveButtonUseCase(repo button.Repository) *ArchiveButtonUseCase {
	return &ArchiveButtonUseCase{repo: repo}
}

func (uc *ArchiveButtonUseCase) Execute(ctx context.Context, cmd ArchiveButtonCommand) error {
	return uc.repo.Archive(ctx, cmd.ID, cmd.OwnerAddress)
}

// UnarchiveButtonUseCase restores an archived button. Usage counters were
// preserved through archival, so an exhausted button comes back exhausted.
type UnarchiveButtonUseCase struct {
	repo button.Repository
}

func NewUnarchiveButtonUseCase(repo button.Repository) *UnarchiveButtonUseCase {
	return &UnarchiveButtonUseCase{repo: repo}
}

func (uc *UnarchiveButtonUseCase) Execute(ctx context.Context, cmd ArchiveButtonCommand) error {
	return uc.repo.Unarchive(ctx, cmd.ID, cmd.OwnerAddress)
}
