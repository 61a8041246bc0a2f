package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/persistence/mappers"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/persistence/models"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/db"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/query"
)

// ButtonRepository is the GORM implementation of button.Repository.
type ButtonRepository struct {
	db *gorm.DB
}

func NewButtonRepository(db *gorm.DB) *ButtonRepository {
	return &ButtonRepository{db: db}
}

func (r *ButtonRepository) Insert(ctx context.Context, b *button.Button) error {
	model := mappers.ButtonToModel(b)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("link id already exists", b.ID())
		}
		return errors.NewUnavailableError("failed to insert button", err.Error())
	}
	return nil
}

func (r *ButtonRepository) GetByID(ctx context.Context, id string) (*button.Button, error) {
	var model models.ButtonModel

	// Archived rows stay reachable by id; only the listings partition them.
	err := db.GetTxFromContext(ctx, r.db).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("button not found", id)
		}
		return nil, errors.NewUnavailableError("failed to get button", err.Error())
	}

	b, err := mappers.ButtonToDomain(&model)
	if err != nil {
		return nil, errors.NewInternalError("corrupt button row", err.Error())
	}
	return b, nil
}

func (r *ButtonRepository) Update(ctx context.Context, b *button.Button, ownerAddress string) error {
	model := mappers.ButtonToModel(b)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ButtonModel{}).
		Where("id = ?", model.ID).
		Scopes(db.OwnedBy(ownerAddress)).
		Updates(map[string]interface{}{
			"amount":           model.Amount,
			"payment_type":     model.PaymentType,
			"item_name":        model.ItemName,
			"item_description": model.ItemDescription,
			"item_image":       model.ItemImage,
			"item_image2":      model.ItemImage2,
			"item_image3":      model.ItemImage3,
			"button_text":      model.ButtonText,
			"button_color":     model.ButtonColor,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return errors.NewUnavailableError("failed to update button", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return r.missOrForbidden(ctx, model.ID)
	}
	return nil
}

func (r *ButtonRepository) Archive(ctx context.Context, id, ownerAddress string) error {
	now := time.Now().UTC()
	return r.setDeletedAt(ctx, id, ownerAddress, &now, db.Active())
}

func (r *ButtonRepository) Unarchive(ctx context.Context, id, ownerAddress string) error {
	return r.setDeletedAt(ctx, id, ownerAddress, nil, db.Archived())
}

func (r *ButtonRepository) setDeletedAt(
	ctx context.Context,
	id, ownerAddress string,
	deletedAt *time.Time,
	partition func(*gorm.DB) *gorm.DB,
) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ButtonModel{}).
		Where("id = ?", id).
		Scopes(db.OwnedBy(ownerAddress), partition).
		Updates(map[string]interface{}{
			"deleted_at": deletedAt,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return errors.NewUnavailableError("failed to change archival state", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		// Matching the other partition means the call was a no-op repeat;
		// treat it as idempotent success.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		var owned int64
		if err := db.GetTxFromContext(ctx, r.db).
			Model(&models.ButtonModel{}).
			Where("id = ?", id).
			Scopes(db.OwnedBy(ownerAddress)).
			Count(&owned).Error; err != nil {
			return errors.NewUnavailableError("failed to check ownership", err.Error())
		}
		if owned == 0 {
			return errors.NewForbiddenError("button belongs to another wallet")
		}
	}
	return nil
}

func (r *ButtonRepository) HardDelete(ctx context.Context, id, ownerAddress string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("id = ?", id).
		Scopes(db.OwnedBy(ownerAddress)).
		Delete(&models.ButtonModel{})
	if result.Error != nil {
		return errors.NewUnavailableError("failed to delete button", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return r.missOrForbidden(ctx, id)
	}
	return nil
}

func (r *ButtonRepository) ListByOwner(ctx context.Context, ownerAddress string, filter query.ListFilter) ([]*button.Button, int64, error) {
	partition := db.Active()
	if filter.Archived {
		partition = db.Archived()
	}
	conn := db.GetTxFromContext(ctx, r.db)

	var total int64
	err := conn.Model(&models.ButtonModel{}).
		Scopes(db.OwnedBy(ownerAddress), partition).
		Count(&total).Error
	if err != nil {
		return nil, 0, errors.NewUnavailableError("failed to count buttons", err.Error())
	}

	var rows []models.ButtonModel
	err = conn.Model(&models.ButtonModel{}).
		Scopes(db.OwnedBy(ownerAddress), partition).
		Order("created_at DESC").
		Offset(filter.GetOffset()).
		Limit(filter.GetLimit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.NewUnavailableError("failed to list buttons", err.Error())
	}

	buttons := make([]*button.Button, 0, len(rows))
	for i := range rows {
		b, err := mappers.ButtonToDomain(&rows[i])
		if err != nil {
			return nil, 0, errors.NewInternalError("corrupt button row", err.Error())
		}
		buttons = append(buttons, b)
	}
	return buttons, total, nil
}

func (r *ButtonRepository) IncrementUsage(ctx context.Context, id string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ButtonModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_uses": gorm.Expr("current_uses + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return errors.NewUnavailableError("failed to increment usage", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("button not found", id)
	}
	return nil
}

// missOrForbidden distinguishes an unknown id from an ownership mismatch
// after a scoped mutation matched no rows.
func (r *ButtonRepository) missOrForbidden(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return errors.NewForbiddenError("button belongs to another wallet")
}
