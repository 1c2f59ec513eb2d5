package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DeliveryPlan is the full set of side effects a successful delivery applies
// alongside the status change: the points the purchase earns, the signed
// ledger delta, and the stock deductions for the shipped goods. All of it
// must be persisted in the same transaction as the order update.
type DeliveryPlan struct {
	PointsEarned int
	Ledger       customer.LedgerDelta
	StockDeltas  []ports.StockDelta
}

// DeliveryPlanner computes delivery plans from the order snapshot and the
// store's loyalty configuration. It is pure; nothing here touches I/O.
type DeliveryPlanner struct{}

// NewDeliveryPlanner creates a new DeliveryPlanner instance.
func NewDeliveryPlanner() DeliveryPlanner {
	return DeliveryPlanner{}
}

// Plan computes the delivery side effects for the order.
//
// Points earned are floor((total - pointsDiscount) / pointsPerCurrencyUnit),
// clamped at zero. The ledger delta is pointsEarned - pointsUsed on the
// balance, plus the order total on lifetime spend, plus one completed order.
// Stock deltas are the negated ordered quantities.
func (p DeliveryPlanner) Plan(o *order.Order, pointsPerCurrencyUnit decimal.Decimal) (DeliveryPlan, error) {
	if err := o.Validate(); err != nil {
		return DeliveryPlan{}, err
	}
	if !pointsPerCurrencyUnit.IsPositive() {
		return DeliveryPlan{}, errs.NewValueIsInvalidErrorWithCause("pointsPerCurrencyUnit",
			fmt.Errorf("%s is not positive", pointsPerCurrencyUnit))
	}

	base := o.Total().Sub(o.PointsDiscount())
	earned := 0
	if base.IsPositive() {
		earned = int(base.Div(pointsPerCurrencyUnit).Floor().IntPart())
	}

	items := o.Items()
	stock := make([]ports.StockDelta, len(items))
	for i, item := range items {
		stock[i] = ports.StockDelta{
			ProductID: item.ProductID(),
			Delta:     -item.Quantity(),
		}
	}

	return DeliveryPlan{
		PointsEarned: earned,
		Ledger: customer.LedgerDelta{
			Points:      earned - o.PointsUsed(),
			TotalSpent:  o.Total(),
			TotalOrders: 1,
		},
		StockDeltas: stock,
	}, nil
}
