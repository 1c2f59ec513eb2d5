// Package customerrepo mutates customer loyalty ledgers. Ledger columns only
// ever move by signed deltas in SQL, never by read-modify-write, so two
// deliveries for the same customer cannot lose each other's update.
package customerrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository.
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// ApplyLedgerDelta adds the delta to the customer's points balance, lifetime
// spend, and completed-order count in a single statement. Customers are keyed
// by phone number.
func (r *GormCustomerRepository) ApplyLedgerDelta(ctx context.Context, phone string, delta customer.LedgerDelta) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	if delta.IsZero() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Table("customers").
		Where("phone = ?", phone).
		Updates(map[string]any{
			"points":       gorm.Expr("points + ?", delta.Points),
			"total_spent":  gorm.Expr("total_spent + ?", delta.TotalSpent),
			"total_orders": gorm.Expr("total_orders + ?", delta.TotalOrders),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", phone)
	}

	return nil
}
