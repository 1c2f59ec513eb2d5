// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCheckDriverStatusQueryIsNotConstructed = errors.New(
	"CheckDriverStatusQuery must be created via NewCheckDriverStatusQuery constructor",
)

// CheckDriverStatusQuery retrieves a driver's dispatch state: whether they are
// on shift, whether they are busy, and the orders currently on their plate.
// Driver clients poll it as their home-screen refresh.
//
// Example:
//
//	query, err := NewCheckDriverStatusQuery(driverID)
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, query)
type CheckDriverStatusQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCheckDriverStatusQuery creates a query for the driver's current state.
func NewCheckDriverStatusQuery(driverID kernel.UUID) (CheckDriverStatusQuery, error) {
	if err := driverID.Validate(); err != nil {
		return CheckDriverStatusQuery{}, err
	}

	return CheckDriverStatusQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrCheckDriverStatusQueryIsNotConstructed if validation fails.
func (q CheckDriverStatusQuery) Validate() error {
	return q.guard.Validate(ErrCheckDriverStatusQueryIsNotConstructed)
}

// DriverID returns the identifier of the driver being checked.
func (q CheckDriverStatusQuery) DriverID() kernel.UUID {
	return q.driverID
}

// CheckDriverStatusResponse is the driver's dispatch state read model.
// AssignedOrder is non-nil only when the check itself paired the idle driver
// with a waiting ready order.
type CheckDriverStatusResponse struct {
	OnShift       bool
	Busy          bool
	ActiveOrders  []*order.Order
	StatusCounts  map[order.Status]int
	AssignedOrder *order.Order
}
