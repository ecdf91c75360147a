package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Income struct {
	ID           uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	OwnerId      string          `gorm:"size:64;index;not null" json:"owner_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"amount"`
	CurrencyCode string          `gorm:"size:3;not null" json:"currency_code"`
	Description  string          `gorm:"size:255" json:"description"`
	OccurredAt   time.Time       `gorm:"index;not null" json:"occurred_at"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Income) Price() Price {
	return Price{Amount: i.Amount, Currency: i.CurrencyCode}
}
