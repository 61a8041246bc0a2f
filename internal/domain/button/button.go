package button

import (
	"fmt"
	"time"
	"unicode/utf8"

	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/id"
)

const (
	// MaxItemDescriptionLength bounds the payer-visible description.
	MaxItemDescriptionLength = 350
	// MaxItemImages bounds the number of item images per button.
	MaxItemImages = 3
	// DefaultButtonText is the localized label applied when a link carries none.
	DefaultButtonText = "Pagar"
)

// State describes a button's position in its lifecycle.
type State string

const (
	// StateActiveUsable: not archived and the usage policy admits another payment.
	StateActiveUsable State = "active_usable"
	// StateActiveExhausted: not archived but the usage policy is spent.
	// Terminal with respect to payment, not with respect to archive/delete.
	StateActiveExhausted State = "active_exhausted"
	// StateArchived: soft-deleted; excluded from the active listing, recoverable.
	StateArchived State = "archived"
)

// Button is the payment button aggregate. The creator of a button is always
// its recipient; there is no delegated ownership.
type Button struct {
	id          string
	recipient   vo.Address
	amount      vo.Amount
	token       vo.Address
	paymentType vo.PaymentType
	usage       vo.UsagePolicy
	currentUses int

	itemName        string
	itemDescription string
	itemImages      []string
	buttonText      string
	buttonColor     vo.ButtonColor

	// concept is the legacy free-text field superseded by itemName and
	// itemDescription, still rendered on old rows.
	concept string

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewButtonParams carries the creation inputs for a button.
type NewButtonParams struct {
	ID              string
	Recipient       vo.Address
	Amount          vo.Amount
	Token           vo.Address
	PaymentType     vo.PaymentType
	Usage           vo.UsagePolicy
	ItemName        string
	ItemDescription string
	ItemImages      []string
	ButtonText      string
	ButtonColor     vo.ButtonColor
}

// NewButton creates an active button with zero uses.
func NewButton(p NewButtonParams) (*Button, error) {
	if !id.IsLinkID(p.ID) {
		return nil, fmt.Errorf("invalid button id: %q", p.ID)
	}
	if p.Recipient.IsZero() {
		return nil, fmt.Errorf("recipient address is required")
	}
	if p.Amount.IsZero() {
		return nil, fmt.Errorf("amount is required")
	}
	if p.Token.IsZero() {
		return nil, fmt.Errorf("token address is required")
	}
	if err := validateItemFields(p.ItemDescription, p.ItemImages); err != nil {
		return nil, err
	}

	buttonText := p.ButtonText
	if buttonText == "" {
		buttonText = DefaultButtonText
	}

	now := time.Now().UTC()
	return &Button{
		id:              p.ID,
		recipient:       p.Recipient,
		amount:          p.Amount,
		token:           p.Token,
		paymentType:     p.PaymentType,
		usage:           p.Usage,
		itemName:        p.ItemName,
		itemDescription: p.ItemDescription,
		itemImages:      append([]string(nil), p.ItemImages...),
		buttonText:      buttonText,
		buttonColor:     p.ButtonColor,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func validateItemFields(description string, images []string) error {
	if utf8.RuneCountInString(description) > MaxItemDescriptionLength {
		return fmt.Errorf("item description exceeds %d characters", MaxItemDescriptionLength)
	}
	if len(images) > MaxItemImages {
		return fmt.Errorf("at most %d item images are allowed", MaxItemImages)
	}
	return nil
}

// ReconstructParams carries the persisted state used to rebuild an aggregate.
type ReconstructParams struct {
	ID              string
	Recipient       vo.Address
	Amount          vo.Amount
	Token           vo.Address
	PaymentType     vo.PaymentType
	Usage           vo.UsagePolicy
	CurrentUses     int
	ItemName        string
	ItemDescription string
	ItemImages      []string
	ButtonText      string
	ButtonColor     vo.ButtonColor
	Concept         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// ReconstructButton rebuilds a button from persistence without validation.
func ReconstructButton(p ReconstructParams) *Button {
	return &Button{
		id:              p.ID,
		recipient:       p.Recipient,
		amount:          p.Amount,
		token:           p.Token,
		paymentType:     p.PaymentType,
		usage:           p.Usage,
		currentUses:     p.CurrentUses,
		itemName:        p.ItemName,
		itemDescription: p.ItemDescription,
		itemImages:      append([]string(nil), p.ItemImages...),
		buttonText:      p.ButtonText,
		buttonColor:     p.ButtonColor,
		concept:         p.Concept,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		deletedAt:       p.DeletedAt,
	}
}

func (b *Button) ID() string                  { return b.id }
func (b *Button) Recipient() vo.Address       { return b.recipient }
func (b *Button) Owner() vo.Address           { return b.recipient }
func (b *Button) Amount() vo.Amount           { return b.amount }
func (b *Button) Token() vo.Address           { return b.token }
func (b *Button) PaymentType() vo.PaymentType { return b.paymentType }
func (b *Button) Usage() vo.UsagePolicy       { return b.usage }
func (b *Button) CurrentUses() int            { return b.currentUses }
func (b *Button) ItemName() string            { return b.itemName }
func (b *Button) ItemDescription() string     { return b.itemDescription }
func (b *Button) ButtonText() string          { return b.buttonText }
func (b *Button) ButtonColor() vo.ButtonColor { return b.buttonColor }
func (b *Button) Concept() string             { return b.concept }
func (b *Button) CreatedAt() time.Time        { return b.createdAt }
func (b *Button) UpdatedAt() time.Time        { return b.updatedAt }
func (b *Button) DeletedAt() *time.Time       { return b.deletedAt }

func (b *Button) ItemImages() []string {
	return append([]string(nil), b.itemImages...)
}

// DisplayName resolves the payer-visible title, falling back to the legacy
// concept field on old rows.
func (b *Button) DisplayName() string {
	if b.itemName != "" {
		return b.itemName
	}
	return b.concept
}

// IsArchived reports whether the button is soft-deleted.
func (b *Button) IsArchived() bool {
	return b.deletedAt != nil
}

// State computes the lifecycle state from the archival flag and counters.
func (b *Button) State() State {
	if b.IsArchived() {
		return StateArchived
	}
	if b.usage.Exhausted(b.currentUses) {
		return StateActiveExhausted
	}
	return StateActiveUsable
}

// CanPay reports whether the button currently accepts a payment: not archived
// and the usage policy admits another use.
func (b *Button) CanPay() bool {
	return b.State() == StateActiveUsable
}

// AmountFor resolves the amount a payer must send. An editable button accepts
// any payer's override; a fixed button accepts an override only from the
// owner, and silently ignores anyone else's. A proposed override that is zero
// or negative is invalid regardless of payment type.
func (b *Button) AmountFor(payer vo.Address, proposed string) (vo.Amount, error) {
	if proposed == "" {
		return b.amount, nil
	}

	override, err := vo.NewAmount(proposed)
	if err != nil {
		return vo.Amount{}, fmt.Errorf("invalid amount override: %w", err)
	}

	if b.paymentType.IsEditable() || b.recipient.Equals(payer) {
		return override, nil
	}
	return b.amount, nil
}

// RecordUse registers one confirmed payment. Counters only move forward; the
// caller gates on CanPay before submitting, and a payment that slipped past
// the gate is still counted.
func (b *Button) RecordUse() {
	b.currentUses++
	b.updatedAt = time.Now().UTC()
}

// Archive soft-deletes the button. Idempotent.
func (b *Button) Archive() {
	if b.deletedAt != nil {
		return
	}
	now := time.Now().UTC()
	b.deletedAt = &now
	b.updatedAt = now
}

// Unarchive restores an archived button. Usage counters are preserved: the
// state is recomputed from them, not reset.
func (b *Button) Unarchive() {
	if b.deletedAt == nil {
		return
	}
	b.deletedAt = nil
	b.updatedAt = time.Now().UTC()
}

// UpdateParams carries the mutable fields of a button. Nil pointers leave the
// field untouched; recipient, token and id are immutable.
type UpdateParams struct {
	Amount          *vo.Amount
	PaymentType     *vo.PaymentType
	ItemName        *string
	ItemDescription *string
	ItemImages      *[]string
	ButtonText      *string
	ButtonColor     *vo.ButtonColor
}

// Update applies the mutable fields.
func (b *Button) Update(p UpdateParams) error {
	desc := b.itemDescription
	if p.ItemDescription != nil {
		desc = *p.ItemDescription
	}
	images := b.itemImages
	if p.ItemImages != nil {
		images = *p.ItemImages
	}
	if err := validateItemFields(desc, images); err != nil {
		return err
	}

	if p.Amount != nil {
		b.amount = *p.Amount
	}
	if p.PaymentType != nil {
		b.paymentType = *p.PaymentType
	}
	if p.ItemName != nil {
		b.itemName = *p.ItemName
	}
	b.itemDescription = desc
	b.itemImages = append([]string(nil), images...)
	if p.ButtonText != nil && *p.ButtonText != "" {
		b.buttonText = *p.ButtonText
	}
	if p.ButtonColor != nil {
		b.buttonColor = *p.ButtonColor
	}
	b.updatedAt = time.Now().UTC()
	return nil
}
