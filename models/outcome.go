package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome is a single expense. Amount is stored inline with its currency code;
// category links live in OutcomeCategory.
type Outcome struct {
	ID           uuid.UUID       `gorm:"type:char(36);primary_key" json:"id"`
	OwnerId      string          `gorm:"size:64;index;not null" json:"owner_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"amount"`
	CurrencyCode string          `gorm:"size:3;not null" json:"currency_code"`
	Description  string          `gorm:"size:255" json:"description"`
	OccurredAt   time.Time       `gorm:"index;not null" json:"occurred_at"`
	IsFixed      bool            `gorm:"not null;default:false" json:"is_fixed"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Outcome) Price() Price {
	return Price{Amount: o.Amount, Currency: o.CurrencyCode}
}

// OutcomeCategory links an outcome to a category. Composite primary key keeps
// redelivered OutcomeCategoryAdded events from double-counting totals.
type OutcomeCategory struct {
	OutcomeId  uuid.UUID `gorm:"type:char(36);primaryKey" json:"outcome_id"`
	CategoryId uuid.UUID `gorm:"type:char(36);primaryKey" json:"category_id"`
	OwnerId    string    `gorm:"size:64;index;not null" json:"owner_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
