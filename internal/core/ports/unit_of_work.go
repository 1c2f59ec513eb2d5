package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary against the relational
// store. A status change and its compensating side effects (stock, coupon,
// ledger) commit together or not at all; broker mutations are applied outside
// this boundary, after commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// Repositories bound to the current transaction. Each call returns an
	// instance that uses the transaction started by Begin().
	OrderRepository() OrderRepository
	ProductRepository() ProductRepository
	CouponRepository() CouponRepository
	CustomerRepository() CustomerRepository
	CancellationRepository() CancellationRepository
	StaffRepository() StaffRepository
}
