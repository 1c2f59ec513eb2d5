// Package coupon contains the Coupon aggregate. The dispatch subsystem only
// ever restores a coupon use during compensating cancellation; consuming uses
// belongs to the order-creation flow.
package coupon

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrCouponIsNotConstructed is returned when a Coupon was not created through
// NewCoupon or RestoreCoupon.
var ErrCouponIsNotConstructed = errors.New("Coupon must be created via NewCoupon or RestoreCoupon")

// Coupon is a fixed-value discount with a limited number of uses.
//
// Invariant: remainingUses is only decremented when an order applies the
// coupon at creation, and only incremented back by a compensating
// cancellation. It never goes negative.
type Coupon struct {
	id            kernel.UUID
	name          string
	value         decimal.Decimal
	remainingUses int

	isConstructed bool
}

// NewCoupon creates a validated coupon.
func NewCoupon(id kernel.UUID, name string, value decimal.Decimal, remainingUses int) (*Coupon, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	if value.IsNegative() || value.IsZero() {
		return nil, errs.NewValueIsInvalidErrorWithCause("value",
			fmt.Errorf("%s is not a positive discount", value))
	}
	if remainingUses < 0 {
		return nil, errs.NewValueIsInvalidError("remainingUses")
	}

	return &Coupon{
		id:            id,
		name:          name,
		value:         value,
		remainingUses: remainingUses,
		isConstructed: true,
	}, nil
}

// RestoreCoupon rebuilds a coupon from persistence.
func RestoreCoupon(id kernel.UUID, name string, value decimal.Decimal, remainingUses int) (*Coupon, error) {
	return NewCoupon(id, name, value, remainingUses)
}

// Validate ensures the Coupon was properly constructed.
func (c *Coupon) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCouponIsNotConstructed
	}
	return nil
}

// ID returns the coupon's identifier.
func (c *Coupon) ID() kernel.UUID {
	return c.id
}

// Name returns the coupon's display name.
func (c *Coupon) Name() string {
	return c.name
}

// Value returns the discount amount.
func (c *Coupon) Value() decimal.Decimal {
	return c.value
}

// RemainingUses returns how many times the coupon can still be applied.
func (c *Coupon) RemainingUses() int {
	return c.remainingUses
}

// Use consumes one remaining use. Called by the order-creation flow.
func (c *Coupon) Use() error {
	if c.remainingUses <= 0 {
		return errs.NewOperationNotAllowedError("remainingUses", "coupon is exhausted")
	}
	c.remainingUses--
	return nil
}

// RestoreUse gives one use back. Called when a compensating cancellation
// undoes an order that had applied this coupon.
func (c *Coupon) RestoreUse() {
	c.remainingUses++
}
