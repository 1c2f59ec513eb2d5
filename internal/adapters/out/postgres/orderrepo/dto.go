// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and the relational tables
// orders, order_items, and order_cancellations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The item snapshot lives in its own table and is created once with the
// order; the order row itself carries the status and the monetary figures.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerPhone    string          `gorm:"index"`
	CustomerName     string
	DeliveryAddress  string
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeliveryFee      decimal.Decimal `gorm:"type:decimal(12,2)"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2)"`
	PointsUsed       int
	PointsEarned     int
	PointsDiscount   decimal.Decimal `gorm:"type:decimal(12,2)"`
	CouponID         *uuid.UUID      `gorm:"type:uuid"`
	DriverID         *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentMethod    string
	Status           int             `gorm:"index"`
	VerificationHash *string
	CreatedAt        time.Time
	DeliveredAt      *time.Time

	Items        []ItemDTO        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Cancellation *CancellationDTO `gorm:"foreignKey:OrderID"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one line of the immutable item snapshot taken at order creation.
type ItemDTO struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index"`
	ProductID uuid.UUID       `gorm:"type:uuid"`
	Quantity  int
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// TableName overrides GORM's default naming to use "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

// CancellationDTO is the append-only cancellation record. At most one row
// exists per order.
type CancellationDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Reason       string
	CancelledBy  string
	EvidenceFile *string
	CancelledAt  time.Time
}

// TableName overrides GORM's default naming to use "order_cancellations".
func (CancellationDTO) TableName() string {
	return "order_cancellations"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		}
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		CustomerPhone:    aggregate.CustomerPhone(),
		CustomerName:     aggregate.CustomerName(),
		DeliveryAddress:  aggregate.DeliveryAddress(),
		Subtotal:         aggregate.Subtotal(),
		DeliveryFee:      aggregate.DeliveryFee(),
		Total:            aggregate.Total(),
		PointsUsed:       aggregate.PointsUsed(),
		PointsEarned:     aggregate.PointsEarned(),
		PointsDiscount:   aggregate.PointsDiscount(),
		CouponID:         uuidPtr(aggregate.CouponID()),
		DriverID:         uuidPtr(aggregate.Driver()),
		PaymentMethod:    string(aggregate.PaymentMethod()),
		Status:           int(aggregate.Status()),
		VerificationHash: aggregate.VerificationHash(),
		CreatedAt:        aggregate.CreatedAt(),
		DeliveredAt:      aggregate.DeliveredAt(),
		Items:            itemDTOs,
	}
}

// fromDomainCancellation converts a cancellation record to its database
// representation.
func fromDomainCancellation(record *order.Cancellation) CancellationDTO {
	return CancellationDTO{
		ID:           record.ID().Bytes(),
		OrderID:      record.OrderID().Bytes(),
		Reason:       record.Reason(),
		CancelledBy:  string(record.By()),
		EvidenceFile: record.EvidenceFile(),
		CancelledAt:  record.CancelledAt(),
	}
}

// toDomain converts a database row back into an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(dto.Items))
	for i, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewItem(productID, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items[i] = item
	}

	couponID, err := kernelPtr(dto.CouponID)
	if err != nil {
		return nil, err
	}

	driverID, err := kernelPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}

	var cancellation *order.Cancellation
	if dto.Cancellation != nil {
		cancellation, err = toDomainCancellation(*dto.Cancellation)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(
		id,
		dto.CustomerPhone,
		dto.CustomerName,
		dto.DeliveryAddress,
		items,
		dto.Subtotal,
		dto.DeliveryFee,
		dto.Total,
		dto.PointsUsed,
		dto.PointsEarned,
		dto.PointsDiscount,
		couponID,
		driverID,
		order.PaymentMethod(dto.PaymentMethod),
		order.Status(dto.Status),
		dto.VerificationHash,
		dto.CreatedAt,
		dto.DeliveredAt,
		cancellation,
	)
}

// toDomainCancellation converts a cancellation row back into its domain form.
func toDomainCancellation(dto CancellationDTO) (*order.Cancellation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreCancellation(
		id, orderID, dto.Reason, order.CancelledBy(dto.CancelledBy), dto.EvidenceFile, dto.CancelledAt,
	)
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
