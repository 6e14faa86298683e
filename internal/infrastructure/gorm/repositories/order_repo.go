package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/mirola777/order-capture-service/internal/domain"
	gormdb "github.com/mirola777/order-capture-service/internal/infrastructure/gorm"
	"gorm.io/gorm"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) domain.OrderRepository {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) conn(ctx context.Context) *gorm.DB {
	return gormdb.ExtractTx(ctx, r.db).WithContext(ctx)
}

func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order.Version == 0 {
		order.Version = 1
	}
	return r.conn(ctx).Create(order).Error
}

func (r *OrderRepo) FindByIDAndShop(ctx context.Context, orderID, shopID string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).Where("id = ? AND shop_id = ?", orderID, shopID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) UpdateWorkflow(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return r.compareAndSwap(ctx, order, &domain.Order{Workflow: order.Workflow}, "workflow_status", "workflow_history")
}

func (r *OrderRepo) UpdatePayments(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	return r.compareAndSwap(ctx, order, &domain.Order{Payments: order.Payments, UpdatedAt: order.UpdatedAt}, "payments", "updated_at")
}

// compareAndSwap writes the selected columns only if the stored version still
// matches the snapshot the caller mutated, then reloads the row.
func (r *OrderRepo) compareAndSwap(ctx context.Context, order, changes *domain.Order, columns ...string) (*domain.Order, error) {
	changes.Version = order.Version + 1

	result := r.conn(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Select(append(columns, "version")).
		Updates(changes)
	if result.Error != nil {
		return nil, fmt.Errorf("update order %s: %w", order.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrVersionConflict
	}

	updated, err := r.FindByIDAndShop(ctx, order.ID, order.ShopID)
	if err != nil {
		return nil, fmt.Errorf("reload order %s: %w", order.ID, err)
	}
	if updated == nil {
		return nil, domain.ErrVersionConflict
	}
	return updated, nil
}
