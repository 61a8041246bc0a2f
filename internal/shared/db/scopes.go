package db

import (
	"strings"

	"gorm.io/gorm"
)

// Active filters for rows that have not been archived (deleted_at IS NULL).
// Archival is a reversible soft delete, so gorm's own soft-delete machinery is
// not used; the column is managed explicitly.
func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// Archived filters for soft-deleted rows (deleted_at IS NOT NULL).
func Archived() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NOT NULL")
	}
}

// OwnedBy matches the owner address case-insensitively. Historical rows are
// not guaranteed to carry lowercase-normalized addresses.
func OwnedBy(ownerAddress string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(owner_address) = ?", strings.ToLower(ownerAddress))
	}
}
