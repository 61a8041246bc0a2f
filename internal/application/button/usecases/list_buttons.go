package usecases

import (
	"context"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/query"
)

type ListButtonsCommand struct {
	OwnerAddress string
	// Archived selects the soft-deleted partition instead of the active one.
	Archived bool
	Offset   int
	Limit    int
}

type ListButtonsResult struct {
	Buttons []*button.Button
	Total   int64
}

// ListButtonsUseCase returns one archival partition of an owner's buttons.
type ListButtonsUseCase struct {
	repo button.Repository
}

func NewListButtonsUseCase(repo button.Repository) *ListButtonsUseCase {
	return &ListButtonsUseCase{repo: repo}
}

func (uc *ListButtonsUseCase) Execute(ctx context.Context, cmd ListButtonsCommand) (*ListButtonsResult, error) {
	if cmd.OwnerAddress == "" {
		return nil, errors.NewValidationError("owner address is required")
	}

	filter := query.ListFilter{
		PageFilter: query.PageFilter{Offset: cmd.Offset, Limit: cmd.Limit},
		Archived:   cmd.Archived,
	}
	buttons, total, err := uc.repo.ListByOwner(ctx, cmd.OwnerAddress, filter)
	if err != nil {
		return nil, err
	}
	return &ListButtonsResult{Buttons: buttons, Total: total}, nil
}
