package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkOrderDeliveredCommandHandler_Handle(t *testing.T) {
	driverID := kernel.NewUUID()

	newHandler := func(uow *fakeFulfillmentUoW, broker *MockDispatchBroker, settings *MockSettingsProvider) commands.MarkOrderDeliveredCommandHandler {
		return commands.NewMarkOrderDeliveredCommandHandler(
			fakeFulfillmentUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
			settings,
			broker,
		)
	}

	t.Run("correct_code_applies_delivery_and_releases_driver", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "4821")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		// total 23.00 at 10.00 per point earns 2 points
		uow.customers.On("ApplyLedgerDelta", ctx, "+15550100", customer.LedgerDelta{
			Points:      2,
			TotalSpent:  decimal.RequireFromString("23.00"),
			TotalOrders: 1,
		}).Return(nil).Once()
		uow.products.On("AdjustStock", ctx, mock.MatchedBy(func(deltas []ports.StockDelta) bool {
			return len(deltas) == 1 && deltas[0].Delta == -2
		})).Return(nil).Once()

		settings := new(MockSettingsProvider)
		settings.On("PointsPerCurrencyUnit", ctx).Return(decimal.RequireFromString("10.00"), nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("IncrDeliveryAttempts", ctx, o.ID(), mock.Anything).Return(1, nil).Once()
		broker.On("ClearDeliveryAttempts", ctx, o.ID()).Return(nil).Once()
		broker.On("ReleaseDriver", ctx, driverID).Return(nil).Once()

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), driverID, "4821")
		require.NoError(t, err)
		require.NoError(t, newHandler(uow, broker, settings).Handle(ctx, cmd))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, 2, o.PointsEarned())
		assert.NotNil(t, o.DeliveredAt())
		assert.Equal(t, 1, uow.commits)

		broker.AssertExpectations(t)
		uow.customers.AssertExpectations(t)
		uow.products.AssertExpectations(t)
	})

	t.Run("wrong_code_fails_verification", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "4821")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("IncrDeliveryAttempts", ctx, o.ID(), mock.Anything).Return(1, nil).Once()

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), driverID, "0000")
		require.NoError(t, err)

		err = newHandler(uow, broker, new(MockSettingsProvider)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrVerificationFailed)
		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Equal(t, 0, uow.commits)
		broker.AssertNotCalled(t, "ReleaseDriver", mock.Anything, mock.Anything)
	})

	t.Run("attempt_ceiling_rejects_even_the_correct_code", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "4821")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("IncrDeliveryAttempts", ctx, o.ID(), mock.Anything).Return(6, nil).Once()

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), driverID, "4821")
		require.NoError(t, err)

		err = newHandler(uow, broker, new(MockSettingsProvider)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrTooManyAttempts)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("order_without_pin_cannot_be_confirmed", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		broker := new(MockDispatchBroker)

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), driverID, "4821")
		require.NoError(t, err)

		err = newHandler(uow, broker, new(MockSettingsProvider)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		broker.AssertNotCalled(t, "IncrDeliveryAttempts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("denies_a_driver_the_order_is_not_assigned_to", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "4821")
		stranger := kernel.NewUUID()

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), stranger, "4821")
		require.NoError(t, err)

		err = newHandler(uow, new(MockDispatchBroker), new(MockSettingsProvider)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})

	t.Run("rejects_order_not_out_for_delivery", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Ready, &driverID, "4821")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		cmd, err := commands.NewMarkOrderDeliveredCommand(o.ID(), driverID, "4821")
		require.NoError(t, err)

		err = newHandler(uow, new(MockDispatchBroker), new(MockSettingsProvider)).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrOperationNotAllowed)
	})
}
