package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// CancelledBy identifies which party initiated a cancellation.
type CancelledBy string

const (
	// CancelledByDriver: the assigned driver aborted an active delivery.
	CancelledByDriver CancelledBy = "driver"

	// CancelledByInventory: inventory staff pre-empted an order that had not
	// begun fulfillment (out of stock, damaged goods).
	CancelledByInventory CancelledBy = "inventory"
)

// Validate checks that the canceller is one of the known parties.
func (c CancelledBy) Validate() error {
	if c != CancelledByDriver && c != CancelledByInventory {
		return errs.NewValueIsInvalidErrorWithCause("cancelledBy",
			fmt.Errorf("%q is not a valid canceller", string(c)))
	}
	return nil
}

// Cancellation records why and by whom an order was cancelled. Exactly one
// record exists per cancelled order; it is created by Order.Cancel and never
// deleted, so the order history stays append-only.
type Cancellation struct {
	id           kernel.UUID
	orderID      kernel.UUID
	reason       string
	cancelledBy  CancelledBy
	evidenceFile *string
	cancelledAt  time.Time
}

// NewCancellation creates a validated cancellation record.
func NewCancellation(
	id kernel.UUID,
	orderID kernel.UUID,
	reason string,
	cancelledBy CancelledBy,
	cancelledAt time.Time,
) (*Cancellation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}
	if err := cancelledBy.Validate(); err != nil {
		return nil, err
	}

	return &Cancellation{
		id:          id,
		orderID:     orderID,
		reason:      reason,
		cancelledBy: cancelledBy,
		cancelledAt: cancelledAt,
	}, nil
}

// RestoreCancellation rebuilds a record from persistence without re-running
// creation-time checks beyond identifier validity.
func RestoreCancellation(
	id kernel.UUID,
	orderID kernel.UUID,
	reason string,
	cancelledBy CancelledBy,
	evidenceFile *string,
	cancelledAt time.Time,
) (*Cancellation, error) {
	c, err := NewCancellation(id, orderID, reason, cancelledBy, cancelledAt)
	if err != nil {
		return nil, err
	}
	c.evidenceFile = evidenceFile
	return c, nil
}

// ID returns the cancellation's identifier.
func (c *Cancellation) ID() kernel.UUID {
	return c.id
}

// OrderID returns the cancelled order's identifier.
func (c *Cancellation) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the human-readable cancellation reason.
func (c *Cancellation) Reason() string {
	return c.reason
}

// By returns the party that initiated the cancellation.
func (c *Cancellation) By() CancelledBy {
	return c.cancelledBy
}

// EvidenceFile returns the filename of attached evidence, or nil when none
// was supplied.
func (c *Cancellation) EvidenceFile() *string {
	return c.evidenceFile
}

// CancelledAt returns when the cancellation happened.
func (c *Cancellation) CancelledAt() time.Time {
	return c.cancelledAt
}

// AttachEvidenceFile links an uploaded evidence image to the record. The link
// is set once; a second attachment is rejected.
func (c *Cancellation) AttachEvidenceFile(filename string) error {
	if filename == "" {
		return errs.NewValueIsRequiredError("filename")
	}
	if c.evidenceFile != nil {
		return errs.NewOperationNotAllowedError("evidenceFile", "evidence is already attached")
	}
	c.evidenceFile = &filename
	return nil
}
