package db

import (
	"context"

	"gorm.io/gorm"
)

// txKey is the context key carrying an open transaction.
type txKey struct{}

// RunInTransaction executes fn inside a database transaction and stores the
// transaction handle in the context passed to fn. Repositories pick it up via
// GetTxFromContext, so multi-step operations share one transaction without
// threading *gorm.DB through every signature. An error from fn rolls back.
func RunInTransaction(ctx context.Context, database *gorm.DB, fn func(ctx context.Context) error) error {
	return database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTxFromContext returns the transaction stored in ctx, or the default
// connection bound to ctx when no transaction is open.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
