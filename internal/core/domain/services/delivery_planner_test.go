package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, quantity int, price string) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T, items ...order.Item) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.Item{mustItem(t, 2, "10.00")}
	}
	o, err := order.NewOrder(
		kernel.NewUUID(),
		"+15550100",
		"Dana",
		"12 Main St",
		items,
		decimal.RequireFromString("3.00"),
		order.PaymentCashOnDelivery,
	)
	require.NoError(t, err)
	return o
}

func TestDeliveryPlanner_Plan(t *testing.T) {
	planner := services.NewDeliveryPlanner()

	t.Run("earns_floored_points_and_builds_ledger_delta", func(t *testing.T) {
		o := newTestOrder(t) // total 23.00
		rate := decimal.NewFromInt(10)

		plan, err := planner.Plan(o, rate)

		require.NoError(t, err)
		assert.Equal(t, 2, plan.PointsEarned) // floor(23 / 10)
		assert.Equal(t, 2, plan.Ledger.Points)
		assert.True(t, plan.Ledger.TotalSpent.Equal(decimal.RequireFromString("23.00")))
		assert.Equal(t, 1, plan.Ledger.TotalOrders)
	})

	t.Run("spent_points_reduce_both_the_earning_base_and_the_balance", func(t *testing.T) {
		o := newTestOrder(t) // total 23.00
		require.NoError(t, o.UsePoints(50, decimal.RequireFromString("5.00")))
		// total is now 18.00, earning base 18.00 - 5.00 = 13.00

		plan, err := planner.Plan(o, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, 1, plan.PointsEarned)
		assert.Equal(t, 1-50, plan.Ledger.Points)
		assert.True(t, plan.Ledger.TotalSpent.Equal(decimal.RequireFromString("18.00")))
	})

	t.Run("stock_deltas_negate_the_ordered_quantities", func(t *testing.T) {
		first := mustItem(t, 2, "1.00")
		second := mustItem(t, 5, "2.00")
		o := newTestOrder(t, first, second)

		plan, err := planner.Plan(o, decimal.NewFromInt(10))

		require.NoError(t, err)
		require.Len(t, plan.StockDeltas, 2)
		assert.True(t, plan.StockDeltas[0].ProductID.IsEqual(first.ProductID()))
		assert.Equal(t, -2, plan.StockDeltas[0].Delta)
		assert.True(t, plan.StockDeltas[1].ProductID.IsEqual(second.ProductID()))
		assert.Equal(t, -5, plan.StockDeltas[1].Delta)
	})

	t.Run("rejects_a_non_positive_points_rate", func(t *testing.T) {
		_, err := planner.Plan(newTestOrder(t), decimal.Zero)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("never_earns_negative_points", func(t *testing.T) {
		o := newTestOrder(t, mustItem(t, 1, "4.00")) // total 7.00
		require.NoError(t, o.UsePoints(60, decimal.RequireFromString("6.00")))
		// total 1.00, earning base 1.00 - 6.00 < 0

		plan, err := planner.Plan(o, decimal.NewFromInt(10))

		require.NoError(t, err)
		assert.Equal(t, 0, plan.PointsEarned)
	})
}
