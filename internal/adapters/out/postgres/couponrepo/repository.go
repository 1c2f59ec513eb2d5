// Package couponrepo persists coupon aggregates. The dispatch subsystem only
// ever reads a coupon and moves its remaining-uses counter, so the DTO stays
// narrow.
package couponrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/coupon"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponDTO represents the database structure for coupons.
type CouponDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string
	Value         decimal.Decimal `gorm:"type:decimal(12,2)"`
	RemainingUses int
}

// TableName overrides GORM's default naming to use "coupons".
func (CouponDTO) TableName() string {
	return "coupons"
}

func fromDomain(aggregate *coupon.Coupon) CouponDTO {
	return CouponDTO{
		ID:            aggregate.ID().Bytes(),
		Name:          aggregate.Name(),
		Value:         aggregate.Value(),
		RemainingUses: aggregate.RemainingUses(),
	}
}

func toDomain(dto CouponDTO) (*coupon.Coupon, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return coupon.RestoreCoupon(id, dto.Name, dto.Value, dto.RemainingUses)
}

// GormCouponRepository implements ports.CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GORM coupon repository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Get retrieves a coupon by ID.
func (r *GormCouponRepository) Get(ctx context.Context, id kernel.UUID) (*coupon.Coupon, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CouponDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("coupon", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update persists a coupon's remaining-uses counter.
func (r *GormCouponRepository) Update(ctx context.Context, aggregate *coupon.Coupon) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CouponDTO{}).
		Where("id = ?", dto.ID).
		Update("remaining_uses", dto.RemainingUses)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
