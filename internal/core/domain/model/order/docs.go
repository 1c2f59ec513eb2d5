// Package order contains the Order aggregate: the item snapshot, the status
// state machine, and the cancellation record. The aggregate enforces every
// transition rule; what it deliberately does not know about is driver
// availability (the dispatch engine's concern) and the compensating side
// effects of transitions (planned by the domain services and applied by the
// command handlers inside a single store transaction).
package order
