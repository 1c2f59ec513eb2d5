package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	// deliveryAttemptWindow is how long a verification attempt counts
	// against the per-order ceiling before it expires on its own.
	deliveryAttemptWindow = 60 * time.Second

	// maxDeliveryAttempts is the verification attempt ceiling within the
	// window. The attempt is counted before the code is checked, so the
	// call after the ceiling fails regardless of code correctness.
	maxDeliveryAttempts = 5

	// uploadTicketTTL bounds how long an issued evidence upload slot stays
	// valid before the attachment store rejects it.
	uploadTicketTTL = 10 * time.Minute
)

// finalizeDelivery applies the full delivered flow inside the caller's open
// transaction: computes the delivery plan, stamps the order delivered, and
// persists the ledger delta, the stock deductions, and the order row. The
// caller commits afterwards; any error here leaves everything unapplied.
func finalizeDelivery(
	ctx context.Context, uow FulfillmentUoW, o *order.Order, settings ports.SettingsProvider, at time.Time,
) error {
	rate, err := settings.PointsPerCurrencyUnit(ctx)
	if err != nil {
		return err
	}

	plan, err := services.NewDeliveryPlanner().Plan(o, rate)
	if err != nil {
		return err
	}

	if err = o.MarkDelivered(plan.PointsEarned, at); err != nil {
		return err
	}

	if err = uow.CustomerRepository().ApplyLedgerDelta(ctx, o.CustomerPhone(), plan.Ledger); err != nil {
		return err
	}

	if err = uow.ProductRepository().AdjustStock(ctx, plan.StockDeltas); err != nil {
		return err
	}

	return uow.OrderRepository().Update(ctx, o)
}

// finalizeCancellation applies the cancelled flow inside the caller's open
// transaction. The compensation plan is computed from the status the order
// held before Cancel runs; the cancellation record is always written, the
// compensating writes only when the plan carries them. A non-empty
// evidenceFilename lands on the record before it is persisted, so the row
// carries the link even if the upload itself never happens.
func finalizeCancellation(
	ctx context.Context,
	uow FulfillmentUoW,
	o *order.Order,
	reason string,
	by order.CancelledBy,
	evidenceFilename string,
	at time.Time,
) (*order.Cancellation, error) {
	plan, err := services.NewCompensationPlanner().Plan(o)
	if err != nil {
		return nil, err
	}

	record, err := o.Cancel(reason, by, at)
	if err != nil {
		return nil, err
	}

	if evidenceFilename != "" {
		if err = record.AttachEvidenceFile(evidenceFilename); err != nil {
			return nil, err
		}
	}

	if len(plan.StockDeltas) > 0 {
		if err = uow.ProductRepository().AdjustStock(ctx, plan.StockDeltas); err != nil {
			return nil, err
		}
	}

	if plan.RestoreCouponID != nil {
		c, err := uow.CouponRepository().Get(ctx, *plan.RestoreCouponID)
		if err != nil {
			return nil, err
		}
		c.RestoreUse()
		if err = uow.CouponRepository().Update(ctx, c); err != nil {
			return nil, err
		}
	}

	if !plan.Ledger.IsZero() {
		if err = uow.CustomerRepository().ApplyLedgerDelta(ctx, o.CustomerPhone(), plan.Ledger); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.CancellationRepository().Add(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// assignReadyOrder marks the order ready and tries to hand it to the oldest
// available driver via the broker's atomic pop. Persists the order inside the
// caller's transaction and returns what must happen after commit: notify the
// assigned driver, or queue the order as idle when nobody was available.
func assignReadyOrder(
	ctx context.Context, repo ports.OrderRepository, engine services.DispatchEngine, o *order.Order,
) (assignedDriver *kernel.UUID, err error) {
	if o.Driver() != nil {
		return nil, errs.NewOperationNotAllowedError("orderId", "order already has a driver assigned")
	}

	if err = o.MarkReady(); err != nil {
		return nil, err
	}

	driverID, found, err := engine.RequestDriver(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		if err = o.AssignDriver(driverID); err != nil {
			return nil, err
		}
		assignedDriver = &driverID
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	return assignedDriver, nil
}

// requireOrderDriver rejects callers that are not the order's assigned
// driver. An unassigned order denies everyone.
func requireOrderDriver(o *order.Order, driverID kernel.UUID) error {
	assigned := o.Driver()
	if assigned == nil || !assigned.IsEqual(driverID) {
		return errs.NewAccessDeniedError("driverId", driverID)
	}
	return nil
}

// driverToRelease reports the driver that must go back to the available queue
// when the order leaves out_for_delivery. Evaluated against the status the
// order held before the transition.
func driverToRelease(statusBefore order.Status, o *order.Order) *kernel.UUID {
	if statusBefore != order.OutForDelivery {
		return nil
	}
	return o.Driver()
}
