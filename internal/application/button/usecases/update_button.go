package usecases

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
)

// UpdateButtonCommand patches a button. Nil pointers leave a field untouched.
// Recipient, token and id are immutable after creation.
type UpdateButtonCommand struct {
	ID           string
	OwnerAddress string

	Amount          *string
	PaymentType     *string
	ItemName        *string
	ItemDescription *string
	ItemImages      *[]string
	ButtonText      *string
	ButtonColor     *string
}

type UpdateButtonResult struct {
	Button *button.Button
}

type UpdateButtonUseCase struct {
	repo      button.Repository
	sanitizer *bluemonday.Policy
}

func NewUpdateButtonUseCase(repo button.Repository) *UpdateButtonUseCase {
	return &UpdateButtonUseCase{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

func (uc *UpdateButtonUseCase) Execute(ctx context.Context, cmd UpdateButtonCommand) (*UpdateButtonResult, error) {
	b, err := uc.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	owner, err := vo.NewAddress(cmd.OwnerAddress)
	if err != nil {
		return nil, errors.NewValidationError("invalid owner address", err.Error())
	}
	if !b.Owner().Equals(owner) {
		return nil, errors.NewForbiddenError("button belongs to another wallet")
	}

	params, err := uc.buildParams(cmd)
	if err != nil {
		return nil, errors.NewValidationError("invalid update", err.Error())
	}
	if err := b.Update(*params); err != nil {
		return nil, errors.NewValidationError("invalid update", err.Error())
	}

	if err := uc.repo.Update(ctx, b, cmd.OwnerAddress); err != nil {
		return nil, err
	}
	return &UpdateButtonResult{Button: b}, nil
}

func (uc *UpdateButtonUseCase) buildParams(cmd UpdateButtonCommand) (*button.UpdateParams, error) {
	params := &button.UpdateParams{}

	if cmd.Amount != nil {
		amount, err := vo.NewAmount(*cmd.Amount)
		if err != nil {
			return nil, err
		}
		params.Amount = &amount
	}
	if cmd.PaymentType != nil {
		paymentType, err := vo.NewPaymentType(*cmd.PaymentType)
		if err != nil {
			return nil, err
		}
		params.PaymentType = &paymentType
	}
	if cmd.ItemName != nil {
		name := uc.sanitizer.Sanitize(*cmd.ItemName)
		params.ItemName = &name
	}
	if cmd.ItemDescription != nil {
		desc := uc.sanitizer.Sanitize(*cmd.ItemDescription)
		params.ItemDescription = &desc
	}
	if cmd.ItemImages != nil {
		params.ItemImages = cmd.ItemImages
	}
	if cmd.ButtonText != nil {
		text := uc.sanitizer.Sanitize(*cmd.ButtonText)
		params.ButtonText = &text
	}
	if cmd.ButtonColor != nil {
		color, err := vo.NewButtonColor(*cmd.ButtonColor)
		if err != nil {
			return nil, err
		}
		params.ButtonColor = &color
	}
	return params, nil
}
