package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTakeOrderCommandHandler_Handle(t *testing.T) {
	driverID := kernel.NewUUID()

	t.Run("assigned_driver_starts_the_delivery", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Ready, &driverID, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("ClaimDriver", ctx, driverID).Return(nil).Once()

		h := commands.NewTakeOrderCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewTakeOrderCommand(o.ID(), driverID)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.Equal(t, 1, uow.commits)
		broker.AssertExpectations(t)
	})

	t.Run("denies_a_different_driver", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Ready, &driverID, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		broker := new(MockDispatchBroker)

		h := commands.NewTakeOrderCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewTakeOrderCommand(o.ID(), kernel.NewUUID())
		require.NoError(t, err)

		err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrAccessDenied)
		assert.Equal(t, order.Ready, o.Status())
		broker.AssertNotCalled(t, "ClaimDriver", mock.Anything, mock.Anything)
	})

	t.Run("rejects_an_order_that_is_not_ready", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.OutForDelivery, &driverID, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		h := commands.NewTakeOrderCommandHandler(
			fakeOrderUoWFactory{uow: uow},
			services.NewDispatchEngine(new(MockDispatchBroker), new(MockDriverNotifier)),
		)

		cmd, err := commands.NewTakeOrderCommand(o.ID(), driverID)
		require.NoError(t, err)

		err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrOperationNotAllowed)
	})
}

func TestLeaveShiftCommandHandler_Handle(t *testing.T) {
	t.Run("busy_driver_stays_on_shift", func(t *testing.T) {
		ctx := t.Context()
		driverID := kernel.NewUUID()

		broker := new(MockDispatchBroker)
		broker.On("IsBusy", ctx, driverID).Return(true, nil).Once()

		h := commands.NewLeaveShiftCommandHandler(
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewLeaveShiftCommand(driverID)
		require.NoError(t, err)

		err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrOperationNotAllowed)
		broker.AssertNotCalled(t, "RemoveShift", mock.Anything, mock.Anything)
	})

	t.Run("idle_driver_leaves", func(t *testing.T) {
		ctx := t.Context()
		driverID := kernel.NewUUID()

		broker := new(MockDispatchBroker)
		broker.On("IsBusy", ctx, driverID).Return(false, nil).Once()
		broker.On("RemoveAvailable", ctx, driverID).Return(nil).Once()
		broker.On("RemoveShift", ctx, driverID).Return(nil).Once()

		h := commands.NewLeaveShiftCommandHandler(
			services.NewDispatchEngine(broker, new(MockDriverNotifier)),
		)

		cmd, err := commands.NewLeaveShiftCommand(driverID)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, cmd))

		broker.AssertExpectations(t)
	})
}
