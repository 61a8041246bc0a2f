package handlers

import (
	"time"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
)

// ButtonResponse is the wire shape of a stored button.
type ButtonResponse struct {
	ID              string   `json:"id"`
	OwnerAddress    string   `json:"owner_address"`
	Amount          string   `json:"amount"`
	TokenAddress    string   `json:"token_address"`
	PaymentType     string   `json:"payment_type"`
	UsageType       string   `json:"usage_type"`
	MaxUses         int      `json:"max_uses,omitempty"`
	CurrentUses     int      `json:"current_uses"`
	State           string   `json:"state"`
	ItemName        string   `json:"item_name,omitempty"`
	ItemDescription string   `json:"item_description,omitempty"`
	ItemImages      []string `json:"item_images,omitempty"`
	ButtonText      string   `json:"button_text"`
	ButtonColor     string   `json:"button_color"`
	Concept         string   `json:"concept,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ToButtonResponse projects a domain button onto its wire shape.
func ToButtonResponse(b *button.Button) *ButtonResponse {
	return &ButtonResponse{
		ID:              b.ID(),
		OwnerAddress:    b.Owner().String(),
		Amount:          b.Amount().String(),
		TokenAddress:    b.Token().String(),
		PaymentType:     string(b.PaymentType()),
		UsageType:       string(b.Usage().Type()),
		MaxUses:         b.Usage().MaxUses(),
		CurrentUses:     b.CurrentUses(),
		State:           string(b.State()),
		ItemName:        b.ItemName(),
		ItemDescription: b.ItemDescription(),
		ItemImages:      b.ItemImages(),
		ButtonText:      b.ButtonText(),
		ButtonColor:     b.ButtonColor().Hex(),
		Concept:         b.Concept(),
		CreatedAt:       b.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt().Format(time.RFC3339),
	}
}

// ToButtonResponses projects a list of buttons.
func ToButtonResponses(buttons []*button.Button) []*ButtonResponse {
	responses := make([]*ButtonResponse, 0, len(buttons))
	for _, b := range buttons {
		responses = append(responses, ToButtonResponse(b))
	}
	return responses
}
