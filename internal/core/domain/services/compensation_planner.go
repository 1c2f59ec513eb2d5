package services

import (
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CancellationPlan is the compensation a cancellation must apply, selected by
// how far the order had progressed before the cancel:
//
//   - StageNone: nothing was reserved; only the cancellation record is written.
//   - StageReserved: stock goes back on the shelf, the coupon use (if any) is
//     restored, and spent points are refunded.
//   - StageDelivered: the delivered effects are reversed exactly: the ledger
//     delta is the negation of the delivery delta. Stock is not restored
//     because the goods already shipped.
type CancellationPlan struct {
	Stage           order.ReservationStage
	StockDeltas     []ports.StockDelta
	RestoreCouponID *kernel.UUID
	Ledger          customer.LedgerDelta
}

// HasStoreEffects reports whether applying the plan mutates anything beyond
// the order row and its cancellation record.
func (p CancellationPlan) HasStoreEffects() bool {
	return len(p.StockDeltas) > 0 || p.RestoreCouponID != nil || !p.Ledger.IsZero()
}

// CompensationPlanner computes cancellation plans. It must be consulted with
// the order's status as it was before Cancel is called; afterwards the status
// no longer tells how far the order had progressed.
type CompensationPlanner struct{}

// NewCompensationPlanner creates a new CompensationPlanner instance.
func NewCompensationPlanner() CompensationPlanner {
	return CompensationPlanner{}
}

// Plan computes the compensation for cancelling the order in its current
// status.
func (p CompensationPlanner) Plan(o *order.Order) (CancellationPlan, error) {
	if err := o.Validate(); err != nil {
		return CancellationPlan{}, err
	}

	stage := o.Status().ReservationStage()

	switch stage {
	case order.StageReserved:
		items := o.Items()
		stock := make([]ports.StockDelta, len(items))
		for i, item := range items {
			stock[i] = ports.StockDelta{
				ProductID: item.ProductID(),
				Delta:     item.Quantity(),
			}
		}
		return CancellationPlan{
			Stage:           stage,
			StockDeltas:     stock,
			RestoreCouponID: o.CouponID(),
			Ledger:          customer.LedgerDelta{Points: o.PointsUsed()},
		}, nil

	case order.StageDelivered:
		// Exact negation of the delta applied at delivery, so deliver followed
		// by cancel nets to zero on the customer ledger.
		delivered := customer.LedgerDelta{
			Points:      o.PointsEarned() - o.PointsUsed(),
			TotalSpent:  o.Total(),
			TotalOrders: 1,
		}
		return CancellationPlan{
			Stage:  stage,
			Ledger: delivered.Negate(),
		}, nil

	default:
		return CancellationPlan{Stage: order.StageNone}, nil
	}
}
