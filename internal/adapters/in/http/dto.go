package http

import (
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ItemView is one order line in responses.
type ItemView struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CancellationView is the cancellation record in responses.
type CancellationView struct {
	Reason      string    `json:"reason"`
	CancelledBy string    `json:"cancelledBy"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// OrderView is the full order representation returned by the API.
type OrderView struct {
	ID               string            `json:"id"`
	CustomerPhone    string            `json:"customerPhone"`
	CustomerName     string            `json:"customerName"`
	DeliveryAddress  string            `json:"deliveryAddress"`
	Items            []ItemView        `json:"items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	DeliveryFee      decimal.Decimal   `json:"deliveryFee"`
	Total            decimal.Decimal   `json:"total"`
	PointsUsed       int               `json:"pointsUsed"`
	PointsEarned     int               `json:"pointsEarned"`
	PointsDiscount   decimal.Decimal   `json:"pointsDiscount"`
	DriverID         *string           `json:"driverId,omitempty"`
	PaymentMethod    string            `json:"paymentMethod"`
	Status           string            `json:"status"`
	CashToCollect    *decimal.Decimal  `json:"cashToCollect,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	DeliveredAt      *time.Time        `json:"deliveredAt,omitempty"`
	Cancellation     *CancellationView `json:"cancellation,omitempty"`
}

// toOrderView flattens an order aggregate into its response shape.
func toOrderView(o *order.Order) OrderView {
	items := make([]ItemView, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = ItemView{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		}
	}

	view := OrderView{
		ID:              o.ID().String(),
		CustomerPhone:   o.CustomerPhone(),
		CustomerName:    o.CustomerName(),
		DeliveryAddress: o.DeliveryAddress(),
		Items:           items,
		Subtotal:        o.Subtotal(),
		DeliveryFee:     o.DeliveryFee(),
		Total:           o.Total(),
		PointsUsed:      o.PointsUsed(),
		PointsEarned:    o.PointsEarned(),
		PointsDiscount:  o.PointsDiscount(),
		PaymentMethod:   string(o.PaymentMethod()),
		Status:          o.Status().String(),
		CashToCollect:   o.CashToCollect(),
		CreatedAt:       o.CreatedAt(),
		DeliveredAt:     o.DeliveredAt(),
	}

	if driverID := o.Driver(); driverID != nil {
		id := driverID.String()
		view.DriverID = &id
	}

	if record := o.Cancellation(); record != nil {
		view.Cancellation = &CancellationView{
			Reason:      record.Reason(),
			CancelledBy: string(record.By()),
			CancelledAt: record.CancelledAt(),
		}
	}

	return view
}

// toOrderViews maps a slice of aggregates.
func toOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = toOrderView(o)
	}
	return views
}

// toStatusCounts renders the per-status workload map with string keys.
func toStatusCounts(counts map[order.Status]int) map[string]int {
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[status.String()] = count
	}
	return out
}
