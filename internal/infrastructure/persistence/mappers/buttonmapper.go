package mappers

import (
	"fmt"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/persistence/models"
)

func ButtonToModel(b *button.Button) *models.ButtonModel {
	model := &models.ButtonModel{
		ID:               b.ID(),
		RecipientAddress: b.Recipient().String(),
		OwnerAddress:     b.Owner().String(),
		Amount:           b.Amount().String(),
		TokenAddress:     b.Token().String(),
		UsageType:        b.Usage().Type().String(),
		MaxUses:          b.Usage().MaxUses(),
		CurrentUses:      b.CurrentUses(),
		ItemName:         b.ItemName(),
		ItemDescription:  b.ItemDescription(),
		ButtonText:       b.ButtonText(),
		ButtonColor:      b.ButtonColor().Hex(),
		Concept:          b.Concept(),
		CreatedAt:        b.CreatedAt(),
		UpdatedAt:        b.UpdatedAt(),
		DeletedAt:        b.DeletedAt(),
	}

	paymentType := b.PaymentType().String()
	model.PaymentType = &paymentType

	images := b.ItemImages()
	slots := [...]*string{&model.ItemImage, &model.ItemImage2, &model.ItemImage3}
	for i := 0; i < len(images) && i < len(slots); i++ {
		*slots[i] = images[i]
	}

	return model
}

func ButtonToDomain(model *models.ButtonModel) (*button.Button, error) {
	recipient, err := vo.NewAddress(model.RecipientAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	amount, err := vo.NewAmount(model.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	token, err := vo.NewAddress(model.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid token address: %w", err)
	}

	// NULL payment_type predates editable amounts and means fixed.
	rawPaymentType := ""
	if model.PaymentType != nil {
		rawPaymentType = *model.PaymentType
	}
	paymentType, err := vo.NewPaymentType(rawPaymentType)
	if err != nil {
		return nil, fmt.Errorf("invalid payment type: %w", err)
	}

	usageType, err := vo.NewUsageType(model.UsageType)
	if err != nil {
		return nil, fmt.Errorf("invalid usage type: %w", err)
	}
	usage, err := vo.NewUsagePolicy(usageType, model.MaxUses)
	if err != nil {
		return nil, fmt.Errorf("invalid usage policy: %w", err)
	}

	color, err := vo.NewButtonColor(model.ButtonColor)
	if err != nil {
		return nil, fmt.Errorf("invalid button color: %w", err)
	}

	var images []string
	for _, img := range [...]string{model.ItemImage, model.ItemImage2, model.ItemImage3} {
		if img != "" {
			images = append(images, img)
		}
	}

	return button.ReconstructButton(button.ReconstructParams{
		ID:              model.ID,
		Recipient:       recipient,
		Amount:          amount,
		Token:           token,
		PaymentType:     paymentType,
		Usage:           usage,
		CurrentUses:     model.CurrentUses,
		ItemName:        model.ItemName,
		ItemDescription: model.ItemDescription,
		ItemImages:      images,
		ButtonText:      model.ButtonText,
		ButtonColor:     color,
		Concept:         model.Concept,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		DeletedAt:       model.DeletedAt,
	}), nil
}
