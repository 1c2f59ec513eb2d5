package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// AssignmentItem is one order line as shown to the driver.
type AssignmentItem struct {
	ProductID kernel.UUID     `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// AssignmentPayload is the push message a driver receives when an order is
// assigned to them. CashToCollect carries the order total only for
// cash-on-delivery orders; nil means nothing to collect.
type AssignmentPayload struct {
	OrderID         kernel.UUID      `json:"orderId"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Items           []AssignmentItem `json:"items"`
	Total           decimal.Decimal  `json:"total"`
	CashToCollect   *decimal.Decimal `json:"cashToCollect,omitempty"`
}

// DriverNotifier pushes assignment payloads to connected driver sessions.
// Delivery is at-most-once and best-effort: an offline driver's message is
// silently dropped, and callers never treat a send failure as fatal.
type DriverNotifier interface {
	Send(ctx context.Context, driverID kernel.UUID, payload AssignmentPayload)
}
