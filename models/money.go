package models

import (
	"fmt"

	"github.com/experts-ly/money_backend/utils"
	"github.com/shopspring/decimal"
)

// Price is an amount tagged with its ISO currency code. Immutable value object.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ZeroPrice is the additive identity in the given currency. Seed for running sums.
func ZeroPrice(currency string) Price {
	return Price{Amount: decimal.Zero, Currency: currency}
}

// Add fails fast on mixed currencies; callers must convert before summing.
func (p Price) Add(other Price) (Price, error) {
	if p.Currency != other.Currency {
		return Price{}, fmt.Errorf("%w: %s + %s", utils.ErrorCurrencyMismatch, p.Currency, other.Currency)
	}
	return Price{Amount: p.Amount.Add(other.Amount), Currency: p.Currency}, nil
}

func (p Price) IsZero() bool {
	return p.Amount.IsZero()
}

func (p Price) String() string {
	return p.Amount.String() + " " + p.Currency
}
