// Package settingsrepo reads store configuration from the settings table.
// Settings are administered by the storefront backend; this subsystem only
// consumes them at transition time.
package settingsrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const pointsPerCurrencyUnitKey = "points_per_currency_unit"

// SettingDTO represents one row of the key-value settings table.
type SettingDTO struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string
}

// TableName overrides GORM's default naming to use "settings".
func (SettingDTO) TableName() string {
	return "settings"
}

// GormSettingsProvider implements ports.SettingsProvider against the settings
// table, falling back to a configured default when a key is absent.
type GormSettingsProvider struct {
	db                           *gorm.DB
	defaultPointsPerCurrencyUnit decimal.Decimal
}

// NewGormSettingsProvider creates a settings provider with the given fallback
// earn rate.
func NewGormSettingsProvider(db *gorm.DB, defaultPointsPerCurrencyUnit decimal.Decimal) *GormSettingsProvider {
	return &GormSettingsProvider{
		db:                           db,
		defaultPointsPerCurrencyUnit: defaultPointsPerCurrencyUnit,
	}
}

// PointsPerCurrencyUnit returns how much the customer must spend to earn one
// loyalty point. A missing row falls back to the configured default; a
// malformed value is an error rather than a silent fallback.
func (p *GormSettingsProvider) PointsPerCurrencyUnit(ctx context.Context) (decimal.Decimal, error) {
	var dto SettingDTO
	err := p.db.WithContext(ctx).First(&dto, "key = ?", pointsPerCurrencyUnitKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p.defaultPointsPerCurrencyUnit, nil
	}
	if err != nil {
		return decimal.Decimal{}, err
	}

	rate, err := decimal.NewFromString(dto.Value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse setting %s: %w", pointsPerCurrencyUnitKey, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("setting %s must be positive, got %s", pointsPerCurrencyUnitKey, rate)
	}

	return rate, nil
}
