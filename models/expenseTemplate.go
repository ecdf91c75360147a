package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseTemplate may be partially specified; a template is a plan, not a fact.
// The category reference is weak: deleting the category leaves the template.
type ExpenseTemplate struct {
	ID               uuid.UUID         `gorm:"type:char(36);primary_key" json:"id"`
	OwnerId          string            `gorm:"size:64;index;not null" json:"owner_id"`
	Amount           *decimal.Decimal  `gorm:"type:decimal(20,6)" json:"amount"`
	CategoryId       *uuid.UUID        `gorm:"type:char(36);index" json:"category_id"`
	CurrencyCode     string            `gorm:"size:3;not null" json:"currency_code"`
	RecurrenceDay    *int              `json:"recurrence_day"`
	RecurrencePeriod *RecurrencePeriod `gorm:"size:10" json:"recurrence_period"`
	Description      string            `gorm:"size:255" json:"description"`
	IsFixed          bool              `gorm:"not null;default:false" json:"is_fixed"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
