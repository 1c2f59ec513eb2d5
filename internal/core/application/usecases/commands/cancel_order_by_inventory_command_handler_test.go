package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderByInventoryCommandHandler_Handle(t *testing.T) {
	t.Run("pending_order_is_cancelled_with_record_only", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Pending, nil, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		uow.cancellations.On("Add", ctx, mock.AnythingOfType("*order.Cancellation")).Return(nil).Once()

		h := commands.NewCancelOrderByInventoryCommandHandler(
			fakeFulfillmentUoWFactory{uow: uow},
			new(MockAttachmentStore),
			new(MockDispatchBroker),
		)

		cmd, err := commands.NewCancelOrderByInventoryCommand(o.ID(), "item out of stock", "")
		require.NoError(t, err)

		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Empty(t, result.EvidenceUploadURL)
		// A pending order holds no reservations: nothing but the order row
		// and the record is written.
		uow.products.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything)
		uow.customers.AssertNotCalled(t, "ApplyLedgerDelta", mock.Anything, mock.Anything, mock.Anything)
		uow.cancellations.AssertExpectations(t)
	})

	t.Run("attachment_extension_yields_an_upload_ticket", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Pending, nil, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.orders.On("Update", ctx, o).Return(nil).Once()
		// The persisted record must already carry the ticket filename.
		uow.cancellations.On("Add", ctx, mock.MatchedBy(func(record *order.Cancellation) bool {
			return record.EvidenceFile() != nil && *record.EvidenceFile() == "ev-2.png"
		})).Return(nil).Once()

		attachments := new(MockAttachmentStore)
		attachments.On("IssueUploadTicket", ctx, mock.Anything, "png").
			Return(ports.UploadTicket{Filename: "ev-2.png", UploadURL: "https://upload/ev-2.png"}, nil).Once()

		broker := new(MockDispatchBroker)
		broker.On("StoreUploadTicket", ctx, "ev-2.png", mock.Anything, mock.Anything).Return(nil).Once()

		h := commands.NewCancelOrderByInventoryCommandHandler(
			fakeFulfillmentUoWFactory{uow: uow}, attachments, broker,
		)

		cmd, err := commands.NewCancelOrderByInventoryCommand(o.ID(), "damaged goods", "png")
		require.NoError(t, err)

		result, err := h.Handle(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, "https://upload/ev-2.png", result.EvidenceUploadURL)
		attachments.AssertExpectations(t)
		broker.AssertExpectations(t)
	})

	t.Run("rejects_orders_past_pending", func(t *testing.T) {
		ctx := t.Context()
		o := orderInStatus(t, order.Ready, nil, "")

		uow := newFakeUoW()
		uow.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		h := commands.NewCancelOrderByInventoryCommandHandler(
			fakeFulfillmentUoWFactory{uow: uow},
			new(MockAttachmentStore),
			new(MockDispatchBroker),
		)

		cmd, err := commands.NewCancelOrderByInventoryCommand(o.ID(), "too late", "")
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrOperationNotAllowed)
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("requires_a_reason", func(t *testing.T) {
		o := orderInStatus(t, order.Pending, nil, "")
		_, err := commands.NewCancelOrderByInventoryCommand(o.ID(), "", "")
		require.ErrorIs(t, err, commands.ErrCancellationReasonIsRequired)
	})
}
