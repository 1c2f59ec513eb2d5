package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJoinShiftCommandHandler_Handle(t *testing.T) {
	driverID := kernel.NewUUID()

	t.Run("resuming_driver_gets_their_active_orders_back", func(t *testing.T) {
		ctx := t.Context()
		active := orderInStatus(t, order.OutForDelivery, &driverID, "")

		uow := newFakeUoW()
		uow.orders.On("GetActiveByDriver", ctx, driverID).Return([]*order.Order{active}, nil).Once()
		uow.orders.On("CountByStatusForDriver", ctx, driverID).
			Return(map[order.Status]int{order.OutForDelivery: 1}, nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("AddAvailable", ctx, driverID).Return(nil).Once()
		broker.On("AddShift", ctx, driverID).Return(nil).Once()

		h := commands.NewJoinShiftCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewJoinShiftCommand(driverID)
		require.NoError(t, err)

		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		require.Len(t, result.ActiveOrders, 1)
		assert.True(t, result.ActiveOrders[0].IsEqual(active))
		assert.Nil(t, result.AssignedOrder)
		broker.AssertNotCalled(t, "PopIdleOrder", mock.Anything)
	})

	t.Run("idle_driver_is_paired_with_the_oldest_idle_order", func(t *testing.T) {
		ctx := t.Context()
		idle := orderInStatus(t, order.Ready, nil, "")

		uow := newFakeUoW()
		uow.orders.On("GetActiveByDriver", ctx, driverID).Return([]*order.Order{}, nil).Once()
		uow.orders.On("CountByStatusForDriver", ctx, driverID).
			Return(map[order.Status]int{}, nil).Once()
		uow.orders.On("Get", ctx, idle.ID()).Return(idle, nil).Once()
		uow.orders.On("Update", ctx, idle).Return(nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("AddAvailable", ctx, driverID).Return(nil).Once()
		broker.On("AddShift", ctx, driverID).Return(nil).Once()
		broker.On("PopIdleOrder", ctx).Return(idle.ID(), true, nil).Once()
		broker.On("ClaimDriver", ctx, driverID).Return(nil).Once()

		notifier := new(MockDriverNotifier)
		notifier.On("Send", ctx, driverID, mock.Anything).Once()

		h := commands.NewJoinShiftCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, notifier),
		)

		cmd, err := commands.NewJoinShiftCommand(driverID)
		require.NoError(t, err)

		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		require.NotNil(t, result.AssignedOrder)
		require.NotNil(t, result.AssignedOrder.Driver())
		assert.True(t, result.AssignedOrder.Driver().IsEqual(driverID))
		assert.Equal(t, 1, uow.commits)
		broker.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("no_active_work_and_no_idle_orders", func(t *testing.T) {
		ctx := t.Context()

		uow := newFakeUoW()
		uow.orders.On("GetActiveByDriver", ctx, driverID).Return([]*order.Order{}, nil).Once()
		uow.orders.On("CountByStatusForDriver", ctx, driverID).
			Return(map[order.Status]int{}, nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("AddAvailable", ctx, driverID).Return(nil).Once()
		broker.On("AddShift", ctx, driverID).Return(nil).Once()
		broker.On("PopIdleOrder", ctx).Return(kernel.UUID{}, false, nil).Once()

		h := commands.NewJoinShiftCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewJoinShiftCommand(driverID)
		require.NoError(t, err)

		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		assert.Empty(t, result.ActiveOrders)
		assert.Nil(t, result.AssignedOrder)
		broker.AssertNotCalled(t, "ClaimDriver", mock.Anything, mock.Anything)
	})
}
