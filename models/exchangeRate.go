package models

import (
	"fmt"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExchangeRate is a time-bounded conversion rate. The rate effective at T for
// (owner, from, to) is the row with the latest valid_from <= T.
type ExchangeRate struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OwnerId   string          `gorm:"size:64;index;not null" json:"owner_id"`
	FromCode  string          `gorm:"size:3;index;not null" json:"from_code"`
	ToCode    string          `gorm:"size:3;index;not null" json:"to_code"`
	Rate      decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"rate"`
	ValidFrom time.Time       `gorm:"index;not null" json:"valid_from"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// RateTable converts dated amounts into the owner's default currency.
// Loaded once per query so aggregation stays in memory and testable.
type RateTable struct {
	defaultCode string
	mode        config.RateLookupMode
	rates       []ExchangeRate
}

// NewRateTable builds a table from plain rows. Rows not targeting defaultCode are ignored.
func NewRateTable(defaultCode string, rates []ExchangeRate, mode config.RateLookupMode) *RateTable {
	kept := make([]ExchangeRate, 0, len(rates))
	for _, r := range rates {
		if r.ToCode == defaultCode {
			kept = append(kept, r)
		}
	}
	return &RateTable{defaultCode: defaultCode, mode: mode, rates: kept}
}

// LoadRateTable fetches the owner's default currency and every rate targeting it.
func LoadRateTable(tx *gorm.DB, ownerId string) (*RateTable, error) {
	currency, err := GetDefaultCurrency(tx, ownerId)
	if err != nil {
		return nil, err
	}

	var rates []ExchangeRate
	err = tx.
		Where("owner_id = ? AND to_code = ?", ownerId, currency.Code).
		Order("valid_from").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}

	return NewRateTable(currency.Code, rates, config.GetRateLookupMode()), nil
}

func (t *RateTable) DefaultCode() string {
	return t.defaultCode
}

// ZeroDefault is the seed for running sums over converted amounts.
func (t *RateTable) ZeroDefault() Price {
	return ZeroPrice(t.defaultCode)
}

// Convert turns a dated, currency-tagged amount into the default currency.
// Identity when fromCode is already the default. Fails with ErrorRateNotFound
// when no rate qualifies; never substitutes 1.0.
func (t *RateTable) Convert(amount decimal.Decimal, fromCode string, asOf time.Time) (Price, error) {
	if fromCode == t.defaultCode {
		return Price{Amount: amount, Currency: t.defaultCode}, nil
	}

	rate, found := pickRate(t.rates, fromCode, asOf, t.mode)
	if !found {
		return Price{}, fmt.Errorf("%w: %s->%s as of %s",
			utils.ErrorRateNotFound, fromCode, t.defaultCode, asOf.Format("2006-01-02"))
	}
	return Price{Amount: amount.Mul(rate), Currency: t.defaultCode}, nil
}

// pickRate selects the effective rate: the qualifying row with the latest
// valid_from. In latest mode asOf is ignored and the newest row wins.
func pickRate(rates []ExchangeRate, fromCode string, asOf time.Time, mode config.RateLookupMode) (decimal.Decimal, bool) {
	var (
		best      decimal.Decimal
		bestValid time.Time
		found     bool
	)
	for _, r := range rates {
		if r.FromCode != fromCode {
			continue
		}
		if mode != config.RateLookupLatest && r.ValidFrom.After(asOf) {
			continue
		}
		if !found || r.ValidFrom.After(bestValid) {
			best = r.Rate
			bestValid = r.ValidFrom
			found = true
		}
	}
	return best, found
}
