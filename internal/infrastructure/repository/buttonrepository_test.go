package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/infrastructure/persistence/models"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/db"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/query"
)

const (
	ownerAddr = "0x1111111111111111111111111111111111111abc"
	otherAddr = "0x2222222222222222222222222222222222222222"
	tokenAddr = "0x87bdfbe98ba55104701b2f2e999982a317905637"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ButtonModel{})
	require.NoError(t, err)

	return db
}

func createTestButton(t *testing.T, id string) *button.Button {
	t.Helper()

	recipient, err := vo.NewAddress(ownerAddr)
	require.NoError(t, err)
	amount, err := vo.NewAmount("10")
	require.NoError(t, err)
	token, err := vo.NewAddress(tokenAddr)
	require.NoError(t, err)
	usage, err := vo.NewUsagePolicy(vo.UsageTypeUnlimited, 0)
	require.NoError(t, err)
	color, err := vo.NewButtonColor("")
	require.NoError(t, err)

	b, err := button.NewButton(button.NewButtonParams{
		ID:          id,
		Recipient:   recipient,
		Amount:      amount,
		Token:       token,
		PaymentType: vo.PaymentTypeFixed,
		Usage:       usage,
		ItemName:    "Test item",
		ItemImages:  []string{"data:image/png;base64,AAAA"},
		ButtonColor: color,
	})
	require.NoError(t, err)
	return b
}

func TestButtonRepository_InsertAndGet(t *testing.T) {
	repo := NewButtonRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("insert and read back", func(t *testing.T) {
		b := createTestButton(t, "Ab3xY1")
		require.NoError(t, repo.Insert(ctx, b))

		found, err := repo.GetByID(ctx, "Ab3xY1")
		require.NoError(t, err)
		assert.Equal(t, b.ID(), found.ID())
		assert.Equal(t, ownerAddr, found.Owner().String())
		assert.Equal(t, "10", found.Amount().String())
		assert.Equal(t, []string{"data:image/png;base64,AAAA"}, found.ItemImages())
		assert.Equal(t, button.StateActiveUsable, found.State())
	})

	t.Run("duplicate id conflicts", func(t *testing.T) {
		b := createTestButton(t, "Ab3xY2")
		require.NoError(t, repo.Insert(ctx, b))

		dup := createTestButton(t, "Ab3xY2")
		err := repo.Insert(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "zzzzz9")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestButtonRepository_Update(t *testing.T) {
	repo := NewButtonRepository(setupTestDB(t))
	ctx := context.Background()

	b := createTestButton(t, "Ab3xY1")
	require.NoError(t, repo.Insert(ctx, b))

	t.Run("owner updates mutable fields", func(t *testing.T) {
		amount, err := vo.NewAmount("42.5")
		require.NoError(t, err)
		name := "Renamed"
		require.NoError(t, b.Update(button.UpdateParams{Amount: &amount, ItemName: &name}))

		require.NoError(t, repo.Update(ctx, b, ownerAddr))

		found, err := repo.GetByID(ctx, "Ab3xY1")
		require.NoError(t, err)
		assert.Equal(t, "42.5", found.Amount().String())
		assert.Equal(t, "Renamed", found.ItemName())
	})

	t.Run("owner match ignores case", func(t *testing.T) {
		assert.NoError(t, repo.Update(ctx, b, "0x1111111111111111111111111111111111111ABC"))
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		err := repo.Update(ctx, b, otherAddr)
		require.Error(t, err)
		assert.True(t, errors.IsForbiddenError(err))
	})
}

func TestButtonRepository_ArchiveLifecycle(t *testing.T) {
	repo := NewButtonRepository(setupTestDB(t))
	ctx := context.Background()

	b := createTestButton(t, "Ab3xY1")
	require.NoError(t, repo.Insert(ctx, b))

	t.Run("archive hides from active listing but keeps the row", func(t *testing.T) {
		require.NoError(t, repo.Archive(ctx, "Ab3xY1", ownerAddr))

		found, err := repo.GetByID(ctx, "Ab3xY1")
		require.NoError(t, err)
		assert.True(t, found.IsArchived())

		active, total, err := repo.ListByOwner(ctx, ownerAddr, query.ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, active)
		assert.Zero(t, total)

		archived, total, err := repo.ListByOwner(ctx, ownerAddr, query.ListFilter{Archived: true})
		require.NoError(t, err)
		require.Len(t, archived, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("archive is idempotent", func(t *testing.T) {
		assert.NoError(t, repo.Archive(ctx, "Ab3xY1", ownerAddr))
	})

	t.Run("unarchive restores", func(t *testing.T) {
		require.NoError(t, repo.Unarchive(ctx, "Ab3xY1", ownerAddr))

		found, err := repo.GetByID(ctx, "Ab3xY1")
		require.NoError(t, err)
		assert.False(t, found.IsArchived())
	})

	t.Run("stranger cannot archive", func(t *testing.T) {
		err := repo.Archive(ctx, "Ab3xY1", otherAddr)
		require.Error(t, err)
		assert.True(t, errors.IsForbiddenError(err))
	})
}

func TestButtonRepository_HardDelete(t *testing.T) {
	repo := NewButtonRepository(setupTestDB(t))
	ctx := context.Background()

	b := createTestButton(t, "Ab3xY1")
	require.NoError(t, repo.Insert(ctx, b))

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := repo.HardDelete(ctx, "Ab3xY1", otherAddr)
		require.Error(t, err)
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("owner deletes permanently", func(t *testing.T) {
		require.NoError(t, repo.HardDelete(ctx, "Ab3xY1", ownerAddr))

		_, err := repo.GetByID(ctx, "Ab3xY1")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestButtonRepository_IncrementUsage(t *testing.T) {
	repo := NewButtonRepository(setupTestDB(t))
	ctx := context.Background()

	b := createTestButton(t, "Ab3xY1")
	require.NoError(t, repo.Insert(ctx, b))

	require.NoError(t, repo.IncrementUsage(ctx, "Ab3xY1"))
	require.NoError(t, repo.IncrementUsage(ctx, "Ab3xY1"))

	found, err := repo.GetByID(ctx, "Ab3xY1")
	require.NoError(t, err)
	assert.Equal(t, 2, found.CurrentUses())

	err = repo.IncrementUsage(ctx, "zzzzz9")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestButtonRepository_ListByOwner_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewButtonRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ids := []string{"Ab3xY1", "Ab3xY2", "Ab3xY3", "Ab3xY4", "Ab3xY5"}
	for i, id := range ids {
		require.NoError(t, repo.Insert(ctx, createTestButton(t, id)))
		require.NoError(t, db.Model(&models.ButtonModel{}).
			Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	t.Run("first window is newest-first with the exact total", func(t *testing.T) {
		page, total, err := repo.ListByOwner(ctx, ownerAddr, query.ListFilter{
			PageFilter: query.PageFilter{Offset: 0, Limit: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, page, 3)
		assert.Equal(t, "Ab3xY5", page[0].ID())
		assert.Equal(t, "Ab3xY4", page[1].ID())
		assert.Equal(t, "Ab3xY3", page[2].ID())
	})

	t.Run("last window holds the remainder", func(t *testing.T) {
		page, total, err := repo.ListByOwner(ctx, ownerAddr, query.ListFilter{
			PageFilter: query.PageFilter{Offset: 3, Limit: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, page, 2)
		assert.Equal(t, "Ab3xY2", page[0].ID())
		assert.Equal(t, "Ab3xY1", page[1].ID())
	})
}

func TestButtonRepository_Transactions(t *testing.T) {
	database := setupTestDB(t)
	repo := NewButtonRepository(database)
	ctx := context.Background()

	t.Run("commit makes the insert visible", func(t *testing.T) {
		err := db.RunInTransaction(ctx, database, func(txCtx context.Context) error {
			return repo.Insert(txCtx, createTestButton(t, "Ab3xY1"))
		})
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, "Ab3xY1")
		assert.NoError(t, err)
	})

	t.Run("an error rolls the insert back", func(t *testing.T) {
		sentinel := errors.NewInternalError("boom")
		err := db.RunInTransaction(ctx, database, func(txCtx context.Context) error {
			if err := repo.Insert(txCtx, createTestButton(t, "Ab3xY2")); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = repo.GetByID(ctx, "Ab3xY2")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestButtonRepository_NullPaymentTypeReadsAsFixed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewButtonRepository(db)
	ctx := context.Background()

	b := createTestButton(t, "Ab3xY1")
	require.NoError(t, repo.Insert(ctx, b))

	// Legacy rows predate the payment_type column.
	require.NoError(t, db.Model(&models.ButtonModel{}).
		Where("id = ?", "Ab3xY1").
		Update("payment_type", nil).Error)

	found, err := repo.GetByID(ctx, "Ab3xY1")
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentTypeFixed, found.PaymentType())
}
