package commands_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, quantity int, price string) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

// pendingOrder builds a fresh cash-on-delivery order: one item 2 x 10.00
// plus a 3.00 delivery fee, total 23.00.
func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "+15550100", "Dana", "7 Cedar Lane",
		[]order.Item{mustItem(t, 2, "10.00")},
		decimal.RequireFromString("3.00"),
		order.PaymentCashOnDelivery,
	)
	require.NoError(t, err)
	return o
}

func timeNowMinusHour() time.Time {
	return time.Now().UTC().Add(-time.Hour)
}

// orderInStatus rebuilds the pending fixture at an arbitrary point of its
// lifecycle, optionally with an assigned driver and a delivery PIN hash.
func orderInStatus(
	t *testing.T, status order.Status, driverID *kernel.UUID, verificationCode string,
) *order.Order {
	t.Helper()

	var hash *string
	if verificationCode != "" {
		sum := sha256.Sum256([]byte(verificationCode))
		h := hex.EncodeToString(sum[:])
		hash = &h
	}

	o, err := order.RestoreOrder(
		kernel.NewUUID(), "+15550100", "Dana", "7 Cedar Lane",
		[]order.Item{mustItem(t, 2, "10.00")},
		decimal.RequireFromString("20.00"),
		decimal.RequireFromString("3.00"),
		decimal.RequireFromString("23.00"),
		0, 0, decimal.Zero,
		nil, driverID,
		order.PaymentCashOnDelivery,
		status,
		hash,
		time.Now().UTC().Add(-time.Hour),
		nil, nil,
	)
	require.NoError(t, err)
	return o
}
