package gormdb

import (
	"context"

	"github.com/mirola777/order-capture-service/internal/domain"
	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager runs work inside a gorm transaction carried by the
// context, so repositories called with that context join it.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) domain.TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction commits when fn returns nil and rolls back otherwise. A call
// made while a transaction is already open becomes a savepoint of it.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	conn := ExtractTx(ctx, tm.db).WithContext(ctx)
	return conn.Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

// ExtractTx returns the transaction stored in ctx, or fallback.
func ExtractTx(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return fallback
	}
	return tx
}

func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}
