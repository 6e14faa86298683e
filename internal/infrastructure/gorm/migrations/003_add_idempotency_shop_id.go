package migrations

import (
	"github.com/mirola777/order-capture-service/internal/domain"
	"gorm.io/gorm"
)

func init() {
	Register(Migration{
		ID: "003_add_idempotency_shop_id",
		Migrate: func(tx *gorm.DB) error {
			if tx.Migrator().HasColumn(&domain.IdempotencyRecord{}, "ShopID") {
				return nil
			}
			return tx.Migrator().AddColumn(&domain.IdempotencyRecord{}, "ShopID")
		},
	})
}
