// Package ports defines the contracts between the core and its collaborators:
// relational persistence, the dispatch broker, the driver push channel, and
// the attachment store. Implementations live under internal/adapters; the core
// receives them by constructor injection and never reaches past these
// interfaces.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate. Used by the order-creation flow
	// and by tests seeding fixtures.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including its
	// item snapshot remaining untouched and any new cancellation record.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByDriver retrieves the driver's orders in Ready or
	// OutForDelivery status, oldest first. Used when a driver joins a shift
	// to resume interrupted work.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// CountByStatusForDriver returns how many of the driver's orders sit in
	// each lifecycle status.
	CountByStatusForDriver(ctx context.Context, driverID kernel.UUID) (map[order.Status]int, error)
}
