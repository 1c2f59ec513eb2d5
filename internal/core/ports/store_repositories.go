package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/coupon"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/staff"

	"github.com/shopspring/decimal"
)

// StockDelta is a signed adjustment of one product's stock level.
type StockDelta struct {
	ProductID kernel.UUID
	Delta     int
}

// ProductRepository adjusts product stock. The dispatch subsystem never reads
// or writes any other product field.
type ProductRepository interface {
	// AdjustStock applies every delta as a relative update. Deltas are
	// negative when goods leave the shelf at delivery and positive when a
	// compensating cancellation returns them.
	AdjustStock(ctx context.Context, deltas []StockDelta) error
}

// CouponRepository defines the persistence contract for coupons.
type CouponRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error)

	// Update persists a coupon's remaining-uses counter.
	Update(ctx context.Context, aggregate *coupon.Coupon) error
}

// CustomerRepository mutates customer loyalty ledgers. Only signed deltas are
// accepted so concurrent orders for the same customer cannot lose updates.
type CustomerRepository interface {
	ApplyLedgerDelta(ctx context.Context, phone string, delta customer.LedgerDelta) error
}

// CancellationRepository persists cancellation records.
type CancellationRepository interface {
	Add(ctx context.Context, record *order.Cancellation) error
}

// StaffRepository reads staff members for role checks.
type StaffRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*staff.Staff, error)
}

// SettingsProvider exposes the store configuration the lifecycle logic reads
// at transition time. Settings administration is outside this subsystem.
type SettingsProvider interface {
	// PointsPerCurrencyUnit returns how much the customer must spend to earn
	// one loyalty point.
	PointsPerCurrencyUnit(ctx context.Context) (decimal.Decimal, error)
}
