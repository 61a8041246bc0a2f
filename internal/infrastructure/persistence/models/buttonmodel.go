package models

import (
	"time"
)

// ButtonModel is the GORM model for the payment_buttons table.
type ButtonModel struct {
	// ID is the 6-character base62 link id, allocated before insert.
	ID               string `gorm:"primaryKey;size:6"`
	RecipientAddress string `gorm:"size:42;not null"`
	OwnerAddress     string `gorm:"size:42;not null;index"`
	Amount           string `gorm:"size:78;not null"`
	TokenAddress     string `gorm:"size:42;not null"`

	// PaymentType is nullable: rows created before editable amounts existed
	// carry NULL, which reads back as the fixed type.
	PaymentType *string `gorm:"size:16"`
	UsageType   string  `gorm:"size:16;not null;default:unlimited"`
	MaxUses     int     `gorm:"not null;default:0"`
	CurrentUses int     `gorm:"not null;default:0"`

	ItemName        string `gorm:"size:255"`
	ItemDescription string `gorm:"size:350"`
	ItemImage       string `gorm:"type:text"`
	ItemImage2      string `gorm:"type:text"`
	ItemImage3      string `gorm:"type:text"`
	ButtonText      string `gorm:"size:100"`
	ButtonColor     string `gorm:"size:6"`

	// Concept is the legacy free-text field kept for rows that predate the
	// item fields.
	Concept string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt is managed by the repository, not by GORM's soft-delete
	// hooks: archived rows must stay reachable by id.
	DeletedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for the ButtonModel
func (ButtonModel) TableName() string {
	return "payment_buttons"
}
