package valueobjects

import "fmt"

// PaymentType governs whether a payer may override the configured amount.
type PaymentType string

const (
	// PaymentTypeFixed locks the amount for everyone but the owner.
	PaymentTypeFixed PaymentType = "fixed"
	// PaymentTypeEditable lets any payer propose their own amount.
	PaymentTypeEditable PaymentType = "editable"
)

// NewPaymentType parses a payment type string. Empty input maps to fixed:
// older rows predate the payment_type column.
func NewPaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentTypeFixed, PaymentTypeEditable:
		return PaymentType(s), nil
	case "":
		return PaymentTypeFixed, nil
	default:
		return "", fmt.Errorf("invalid payment type: %q", s)
	}
}

func (t PaymentType) String() string {
	return string(t)
}

func (t PaymentType) IsEditable() bool {
	return t == PaymentTypeEditable
}
