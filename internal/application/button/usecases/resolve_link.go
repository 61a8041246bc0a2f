package usecases

import (
	"context"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/linkcodec"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/view"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
)

type ResolveLinkCommand struct {
	// URL is the full incoming link, short or long form.
	URL string
}

type ResolveLinkResult struct {
	Data *linkcodec.PaymentData
	// View is set only for short links backed by a stored record; long-form
	// links render from Data alone and track no usage.
	View *view.ButtonView
}

// ResolveLinkUseCase turns an incoming link into renderable payment data.
type ResolveLinkUseCase struct {
	repo  button.Repository
	codec *linkcodec.Codec
}

func NewResolveLinkUseCase(repo button.Repository, codec *linkcodec.Codec) *ResolveLinkUseCase {
	return &ResolveLinkUseCase{repo: repo, codec: codec}
}

func (uc *ResolveLinkUseCase) Execute(ctx context.Context, cmd ResolveLinkCommand) (*ResolveLinkResult, error) {
	data, err := uc.codec.Decode(ctx, cmd.URL)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.NewNotFoundError("not a payment link")
	}

	result := &ResolveLinkResult{Data: data}
	if data.LinkID != "" {
		b, err := uc.repo.GetByID(ctx, data.LinkID)
		if err != nil {
			return nil, err
		}
		result.View = view.NewButtonView(b)
	}
	return result, nil
}
