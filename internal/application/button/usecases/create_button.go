package usecases

import (
	"context"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/idalloc"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/application/button/linkcodec"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

type CreateButtonCommand struct {
	// OwnerAddress is the authenticated wallet; the owner is always the
	// recipient.
	OwnerAddress    string
	Amount          string
	TokenAddress    string
	PaymentType     string
	UsageType       string
	MaxUses         int
	ItemName        string
	ItemDescription string
	ItemImages      []string
	ButtonText      string
	ButtonColor     string
}

type CreateButtonResult struct {
	// Button is nil when the record could not be persisted and the link
	// degraded to the self-contained long form.
	Button    *button.Button
	ShortURL  string
	LongURL   string
	Persisted bool
}

// LinkConfig carries the public origin and paths links are composed against.
type LinkConfig struct {
	Origin   string
	BasePath string
	// PagePath is the path of the generator page targeted by long links.
	PagePath string
}

// CreateButtonUseCase builds a button from the generator form and produces
// its shareable link. Persistence is attempted first (short link); any
// conflict or store outage degrades to the long-form link instead of failing
// the user action.
type CreateButtonUseCase struct {
	repo      button.Repository
	allocator *idalloc.Allocator
	codec     *linkcodec.Codec
	sanitizer *bluemonday.Policy
	links     LinkConfig
	logger    logger.Interface
}

func NewCreateButtonUseCase(
	repo button.Repository,
	allocator *idalloc.Allocator,
	codec *linkcodec.Codec,
	links LinkConfig,
	logger logger.Interface,
) *CreateButtonUseCase {
	return &CreateButtonUseCase{
		repo:      repo,
		allocator: allocator,
		codec:     codec,
		sanitizer: bluemonday.StrictPolicy(),
		links:     links,
		logger:    logger,
	}
}

func (uc *CreateButtonUseCase) Execute(ctx context.Context, cmd CreateButtonCommand) (*CreateButtonResult, error) {
	params, err := uc.buildParams(cmd)
	if err != nil {
		return nil, errors.NewValidationError("invalid button", err.Error())
	}

	// Ordered strategies: persist for a short link, else carry everything in
	// the URL. The long form has no uniqueness requirement, so it cannot
	// fail.
	if b, ok := uc.tryPersist(ctx, *params); ok {
		shortURL, err := uc.codec.EncodeShort(b.ID(), uc.links.BasePath, uc.links.Origin)
		if err != nil {
			return nil, errors.NewInternalError("failed to encode short link", err.Error())
		}
		return &CreateButtonResult{
			Button:    b,
			ShortURL:  shortURL,
			LongURL:   uc.codec.EncodeLong(linkcodec.FromButton(b), uc.links.Origin, uc.links.PagePath),
			Persisted: true,
		}, nil
	}

	data := linkcodec.PaymentData{
		Recipient:       params.Recipient.String(),
		Amount:          params.Amount.String(),
		ItemName:        params.ItemName,
		ItemDescription: params.ItemDescription,
		ItemImages:      params.ItemImages,
		ButtonText:      params.ButtonText,
		ButtonColor:     params.ButtonColor.Hex(),
		Token:           params.Token.String(),
	}
	return &CreateButtonResult{
		LongURL:   uc.codec.EncodeLong(data, uc.links.Origin, uc.links.PagePath),
		Persisted: false,
	}, nil
}

func (uc *CreateButtonUseCase) buildParams(cmd CreateButtonCommand) (*button.NewButtonParams, error) {
	recipient, err := vo.NewAddress(cmd.OwnerAddress)
	if err != nil {
		return nil, err
	}
	amount, err := vo.NewAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	token, err := vo.NewAddress(cmd.TokenAddress)
	if err != nil {
		return nil, err
	}
	paymentType, err := vo.NewPaymentType(cmd.PaymentType)
	if err != nil {
		return nil, err
	}
	usageType, err := vo.NewUsageType(cmd.UsageType)
	if err != nil {
		return nil, err
	}
	usage, err := vo.NewUsagePolicy(usageType, cmd.MaxUses)
	if err != nil {
		return nil, err
	}
	color, err := vo.NewButtonColor(cmd.ButtonColor)
	if err != nil {
		return nil, err
	}

	return &button.NewButtonParams{
		Recipient:       recipient,
		Amount:          amount,
		Token:           token,
		PaymentType:     paymentType,
		Usage:           usage,
		ItemName:        uc.sanitizer.Sanitize(cmd.ItemName),
		ItemDescription: uc.sanitizer.Sanitize(cmd.ItemDescription),
		ItemImages:      cmd.ItemImages,
		ButtonText:      uc.sanitizer.Sanitize(cmd.ButtonText),
		ButtonColor:     color,
	}, nil
}

// tryPersist allocates a short id and inserts the record. A duplicate-key
// race on insert is treated the same as allocator exhaustion: the pre-check
// is an optimization and the unique index is the authority.
func (uc *CreateButtonUseCase) tryPersist(ctx context.Context, params button.NewButtonParams) (*button.Button, bool) {
	linkID, err := uc.allocator.Allocate(ctx)
	if err != nil {
		uc.logger.Warnw("short id allocation failed, falling back to long link", "error", err)
		return nil, false
	}
	params.ID = linkID

	b, err := button.NewButton(params)
	if err != nil {
		uc.logger.Errorw("failed to build button for allocated id", "error", err, "link_id", linkID)
		return nil, false
	}

	if err := uc.repo.Insert(ctx, b); err != nil {
		if errors.IsConflictError(err) || errors.IsDuplicateError(err) {
			uc.logger.Warnw("link id lost insert race, falling back to long link", "link_id", linkID)
		} else {
			uc.logger.Warnw("button store unavailable, falling back to long link", "error", err)
		}
		return nil, false
	}

	return b, true
}
