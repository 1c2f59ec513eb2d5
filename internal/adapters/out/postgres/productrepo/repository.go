// Package productrepo adjusts product stock levels. The dispatch subsystem
// touches no other product column, so the package carries no full product DTO;
// stock moves as relative SQL updates that survive concurrent orders.
package productrepo

import (
	"context"
	"fmt"

	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormProductRepository implements ports.ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// AdjustStock applies every delta as a relative update inside the ambient
// transaction. A product id that matches no row fails the whole batch so a
// partially applied adjustment never commits.
func (r *GormProductRepository) AdjustStock(ctx context.Context, deltas []ports.StockDelta) error {
	for _, delta := range deltas {
		if delta.Delta == 0 {
			continue
		}

		result := r.db.WithContext(ctx).
			Table("products").
			Where("id = ?", delta.ProductID.Bytes()).
			Update("stock", gorm.Expr("stock + ?", delta.Delta))
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return fmt.Errorf("adjust stock for product %s: %w", delta.ProductID, gorm.ErrRecordNotFound)
		}
	}

	return nil
}
