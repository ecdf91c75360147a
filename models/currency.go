package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Currency is identified by (owner, ISO code). Amount fields on outcomes,
// incomes and templates reference it by code, not by foreign key.
type Currency struct {
	ID        int       `gorm:"primary_key" json:"id"`
	OwnerId   string    `gorm:"size:64;not null;index:uniq_owner_code,unique" json:"owner_id"`
	Code      string    `gorm:"size:3;not null;index:uniq_owner_code,unique" json:"code"`
	Symbol    string    `gorm:"size:8" json:"symbol"`
	IsDefault bool      `gorm:"not null;default:false;index" json:"is_default"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetDefaultCurrency returns the single is-default currency of the owner.
// Exactly one may be flagged at any time; CurrencyDefaultSet keeps that true.
func GetDefaultCurrency(tx *gorm.DB, ownerId string) (*Currency, error) {
	var result Currency
	err := tx.
		Where("owner_id = ? AND is_default = ? AND is_deleted = ?", ownerId, true, false).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("owner has no default currency")
		}
		return nil, err
	}
	return &result, nil
}
