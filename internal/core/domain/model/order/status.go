package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine whose transitions only ever move forward along the chain
//
//	Pending ──> Processing ──> Ready ──> OutForDelivery ──> Delivered
//
// with Cancelled reachable from any non-terminal state. Delivered and
// Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned by the order-creation flow.
	// The order has been accepted but preparation has not started.
	Pending

	// Processing indicates the order is being picked and packed.
	Processing

	// Ready indicates preparation has finished and the order awaits driver
	// pickup. Reaching Ready marks the order's stock, coupon, and loyalty
	// points as reserved for compensation purposes.
	Ready

	// OutForDelivery indicates a driver has accepted the order and is
	// currently delivering it.
	OutForDelivery

	// Delivered is a terminal status: the handoff was confirmed.
	Delivered

	// Cancelled is a terminal status reachable from any non-terminal state.
	Cancelled
)

// ReservationStage describes how far an order had progressed in terms of the
// side effects applied on its behalf. It is the tag that selects which
// compensation branch runs when the order is cancelled.
type ReservationStage int

const (
	// StageNone: nothing was reserved yet; cancellation only records itself.
	StageNone ReservationStage = iota

	// StageReserved: stock, coupon use, and spent points were reserved when
	// the order reached Ready; cancellation must restore them.
	StageReserved

	// StageDelivered: delivery effects (ledger, stock) were applied;
	// cancellation reverses the ledger but not the shipped stock.
	StageDelivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Processing:     "processing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "pending",
		Processing:     "processing",
		Ready:          "ready",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// StatusFromString parses the wire/database form of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name of the status, as persisted and exposed
// over the wire. Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the order has finished its lifecycle. Delivered
// still permits the single jump to Cancelled (a refund reversal); Cancelled
// permits nothing.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ReservationStage returns the compensation stage the order is in at this
// status. Pending and Processing orders have reserved nothing; Ready and
// OutForDelivery orders hold reservations; Delivered orders have had the
// delivery effects applied.
func (s Status) ReservationStage() ReservationStage {
	switch s {
	case Ready, OutForDelivery:
		return StageReserved
	case Delivered:
		return StageDelivered
	default:
		return StageNone
	}
}

// CanTransitionTo validates a transition from s to target without performing
// it. Transitions must move strictly forward along the chain; the only jump
// allowed out of order is to Cancelled, which is reachable from every other
// status, including Delivered, where it records a post-delivery reversal.
// Transitioning to the current status is rejected here; callers treat that
// case as a no-op before consulting the machine.
func (s Status) CanTransitionTo(target Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := target.Validate(); err != nil {
		return err
	}

	if s == Cancelled {
		return errs.NewOperationNotAllowedErrorWithCause("status",
			"order is cancelled",
			fmt.Errorf("cannot transition from %s to %s", s, target))
	}

	if target == Cancelled {
		return nil
	}

	if s == Delivered {
		return errs.NewOperationNotAllowedErrorWithCause("status",
			"order is delivered",
			fmt.Errorf("cannot transition from %s to %s", s, target))
	}

	if target <= s {
		return errs.NewOperationNotAllowedErrorWithCause("status",
			"transitions only move forward",
			fmt.Errorf("cannot transition from %s to %s", s, target))
	}

	return nil
}

// TransitionTo performs the transition, returning the new status.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := s.CanTransitionTo(target); err != nil {
		return Unknown, err
	}
	return target, nil
}
