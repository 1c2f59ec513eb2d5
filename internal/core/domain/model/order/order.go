package order

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

var verificationHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// PaymentMethod is how the customer pays for the order. It decides whether the
// driver has cash to collect at handoff.
type PaymentMethod string

const (
	// PaymentCashOnDelivery: the driver collects the order total in cash.
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"

	// PaymentCard: paid online, nothing to collect.
	PaymentCard PaymentMethod = "card"
)

// Validate checks that the payment method is one of the supported kinds.
func (p PaymentMethod) Validate() error {
	if p != PaymentCashOnDelivery && p != PaymentCard {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not a valid payment method", string(p)))
	}
	return nil
}

// Order is the aggregate root of the fulfillment subsystem. It owns the status
// state machine and every piece of state the dispatch and compensation logic
// reads: the item snapshot, the monetary totals, the loyalty figures, the
// assigned driver, and the cancellation record.
//
// Invariants:
//   - items are immutable once the order exists
//   - all monetary fields are decimal-precise
//   - status transitions only move forward, except the jump to Cancelled
//   - a driver, once assigned, is only replaced after an explicit release
//   - exactly one cancellation record exists for a cancelled order
//
// Orders are created in Pending by the order-creation flow; this subsystem
// owns every transition after that. Nothing ever deletes an order.
type Order struct {
	id               kernel.UUID
	customerPhone    string
	customerName     string
	deliveryAddress  string
	items            []Item
	subtotal         decimal.Decimal
	deliveryFee      decimal.Decimal
	total            decimal.Decimal
	pointsUsed       int
	pointsEarned     int
	pointsDiscount   decimal.Decimal
	couponID         *kernel.UUID
	driverID         *kernel.UUID
	paymentMethod    PaymentMethod
	status           Status
	verificationHash *string
	createdAt        time.Time
	deliveredAt      *time.Time
	cancellation     *Cancellation

	isConstructed bool
}

// NewOrder creates a Pending order from a validated item snapshot. The
// subtotal is derived from the items; the total starts as subtotal plus
// delivery fee and is reduced by ApplyCoupon and UsePoints before the order
// is persisted by the creation flow.
func NewOrder(
	id kernel.UUID,
	customerPhone string,
	customerName string,
	deliveryAddress string,
	items []Item,
	deliveryFee decimal.Decimal,
	paymentMethod PaymentMethod,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerPhone == "" {
		return nil, errs.NewValueIsRequiredError("customerPhone")
	}
	if deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if deliveryFee.IsNegative() {
		return nil, errs.NewValueIsInvalidError("deliveryFee")
	}
	if err := paymentMethod.Validate(); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	snapshot := make([]Item, len(items))
	for i, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		snapshot[i] = item
	}

	return &Order{
		id:              id,
		customerPhone:   customerPhone,
		customerName:    customerName,
		deliveryAddress: deliveryAddress,
		items:           snapshot,
		subtotal:        subtotal,
		deliveryFee:     deliveryFee,
		total:           subtotal.Add(deliveryFee),
		pointsDiscount:  decimal.Zero,
		paymentMethod:   paymentMethod,
		status:          Pending,
		createdAt:       time.Now().UTC(),
		isConstructed:   true,
	}, nil
}

// RestoreOrder rebuilds an order from persistence. The stored status and
// monetary figures are trusted as previously validated; identifier and enum
// fields are still checked so corrupt rows fail loudly.
func RestoreOrder(
	id kernel.UUID,
	customerPhone string,
	customerName string,
	deliveryAddress string,
	items []Item,
	subtotal decimal.Decimal,
	deliveryFee decimal.Decimal,
	total decimal.Decimal,
	pointsUsed int,
	pointsEarned int,
	pointsDiscount decimal.Decimal,
	couponID *kernel.UUID,
	driverID *kernel.UUID,
	paymentMethod PaymentMethod,
	status Status,
	verificationHash *string,
	createdAt time.Time,
	deliveredAt *time.Time,
	cancellation *Cancellation,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if err := paymentMethod.Validate(); err != nil {
		return nil, err
	}
	if couponID != nil {
		if err := couponID.Validate(); err != nil {
			return nil, err
		}
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:               id,
		customerPhone:    customerPhone,
		customerName:     customerName,
		deliveryAddress:  deliveryAddress,
		items:            items,
		subtotal:         subtotal,
		deliveryFee:      deliveryFee,
		total:            total,
		pointsUsed:       pointsUsed,
		pointsEarned:     pointsEarned,
		pointsDiscount:   pointsDiscount,
		couponID:         couponID,
		driverID:         driverID,
		paymentMethod:    paymentMethod,
		status:           status,
		verificationHash: verificationHash,
		createdAt:        createdAt,
		deliveredAt:      deliveredAt,
		cancellation:     cancellation,
		isConstructed:    true,
	}, nil
}

// Validate ensures the Order was constructed via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerPhone returns the ordering customer's phone, which is also the key
// of the customer's loyalty ledger.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// CustomerName returns the ordering customer's name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// DeliveryAddress returns where the order is delivered.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Items returns a copy of the immutable item snapshot.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Subtotal returns the sum of line totals.
func (o *Order) Subtotal() decimal.Decimal {
	return o.subtotal
}

// DeliveryFee returns the delivery fee.
func (o *Order) DeliveryFee() decimal.Decimal {
	return o.deliveryFee
}

// Total returns the amount the customer owes after coupon and points discounts.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// PointsUsed returns the loyalty points the customer spent on this order.
func (o *Order) PointsUsed() int {
	return o.pointsUsed
}

// PointsEarned returns the loyalty points granted at delivery; zero until the
// order is delivered.
func (o *Order) PointsEarned() int {
	return o.pointsEarned
}

// PointsDiscount returns the monetary value of the spent points.
func (o *Order) PointsDiscount() decimal.Decimal {
	return o.pointsDiscount
}

// CouponID returns the applied coupon's identifier, or nil.
func (o *Order) CouponID() *kernel.UUID {
	return o.couponID
}

// Driver returns the assigned driver's identifier, or nil while unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// VerificationHash returns the hex sha256 of the delivery PIN, or nil when the
// order was never issued one.
func (o *Order) VerificationHash() *string {
	return o.verificationHash
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DeliveredAt returns when the order was delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Cancellation returns the cancellation record, or nil while the order is live.
func (o *Order) Cancellation() *Cancellation {
	return o.cancellation
}

// CashToCollect returns the cash amount the driver must collect at handoff:
// the order total for cash-on-delivery orders, nil otherwise.
func (o *Order) CashToCollect() *decimal.Decimal {
	if o.paymentMethod != PaymentCashOnDelivery {
		return nil
	}
	total := o.total
	return &total
}

// ApplyCoupon records a coupon and subtracts its value from the total.
// Called by the order-creation flow before the order is persisted.
func (o *Order) ApplyCoupon(couponID kernel.UUID, value decimal.Decimal) error {
	if err := couponID.Validate(); err != nil {
		return err
	}
	if o.couponID != nil {
		return errs.NewOperationNotAllowedError("couponId", "a coupon is already applied")
	}
	if value.IsNegative() || value.GreaterThan(o.total) {
		return errs.NewValueIsInvalidErrorWithCause("couponValue",
			fmt.Errorf("%s does not fit order total %s", value, o.total))
	}
	o.couponID = &couponID
	o.total = o.total.Sub(value)
	return nil
}

// UsePoints records spent loyalty points and their monetary discount.
// Called by the order-creation flow before the order is persisted.
func (o *Order) UsePoints(points int, discount decimal.Decimal) error {
	if points <= 0 {
		return errs.NewValueIsInvalidError("pointsUsed")
	}
	if o.pointsUsed != 0 {
		return errs.NewOperationNotAllowedError("pointsUsed", "points are already applied")
	}
	if discount.IsNegative() || discount.GreaterThan(o.total) {
		return errs.NewValueIsInvalidErrorWithCause("pointsDiscount",
			fmt.Errorf("%s does not fit order total %s", discount, o.total))
	}
	o.pointsUsed = points
	o.pointsDiscount = discount
	o.total = o.total.Sub(discount)
	return nil
}

// SetVerificationHash stores the hex sha256 hash of the delivery PIN issued
// to the customer. Set once at creation; delivery confirmation checks against it.
func (o *Order) SetVerificationHash(hash string) error {
	if !verificationHashPattern.MatchString(hash) {
		return errs.NewValueIsInvalidError("verificationHash")
	}
	if o.verificationHash != nil {
		return errs.NewOperationNotAllowedError("verificationHash", "a delivery PIN is already issued")
	}
	o.verificationHash = &hash
	return nil
}

// AssignDriver hands the order to a driver. An order never holds two drivers;
// reassignment requires the previous driver to have been released, which in
// this subsystem only happens through cancellation back to a driverless state.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewOperationNotAllowedError("status", "order is in a terminal status")
	}
	if o.driverID != nil {
		return errs.NewOperationNotAllowedError("driverId", "order already has a driver")
	}
	o.driverID = &driverID
	return nil
}

// MarkProcessing moves the order from Pending to Processing.
func (o *Order) MarkProcessing() error {
	return o.transition(Processing)
}

// MarkReady marks preparation as finished. The caller (the dispatch engine)
// decides whether a driver is assigned in the same step.
func (o *Order) MarkReady() error {
	return o.transition(Ready)
}

// StartDelivery moves a Ready order to OutForDelivery when its assigned driver
// accepts it. The order must have a driver.
func (o *Order) StartDelivery() error {
	if o.driverID == nil {
		return errs.NewOperationNotAllowedError("driverId", "order has no driver")
	}
	return o.transition(OutForDelivery)
}

// MarkDelivered records the confirmed handoff: the points earned by the
// purchase and the delivery timestamp. The companion ledger and stock
// mutations are planned by services.DeliveryPlanner and must be persisted in
// the same transaction as this status change.
func (o *Order) MarkDelivered(pointsEarned int, at time.Time) error {
	if pointsEarned < 0 {
		return errs.NewValueIsInvalidError("pointsEarned")
	}
	if err := o.transition(Delivered); err != nil {
		return err
	}
	o.pointsEarned = pointsEarned
	o.deliveredAt = &at
	return nil
}

// Cancel moves the order to Cancelled and creates its single cancellation
// record. The compensation required depends on how far the order had
// progressed; callers plan it from the status before calling Cancel.
func (o *Order) Cancel(reason string, by CancelledBy, at time.Time) (*Cancellation, error) {
	if o.cancellation != nil {
		return nil, errs.NewOperationNotAllowedError("orderId", "order is already cancelled")
	}

	record, err := NewCancellation(kernel.NewUUID(), o.id, reason, by, at)
	if err != nil {
		return nil, err
	}

	if err := o.transition(Cancelled); err != nil {
		return nil, err
	}

	o.cancellation = record
	return record, nil
}

func (o *Order) transition(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}
