package models

import (
	"errors"
	"testing"

	"github.com/experts-ly/money_backend/utils"
	"github.com/shopspring/decimal"
)

func TestPriceAdd_SameCurrency(t *testing.T) {
	a := Price{Amount: decimal.RequireFromString("100.25"), Currency: "USD"}
	b := Price{Amount: decimal.RequireFromString("49.75"), Currency: "USD"}

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if sum.Amount.String() != "150" || sum.Currency != "USD" {
		t.Fatalf("expected 150 USD, got %s", sum)
	}
}

func TestPriceAdd_MixedCurrenciesFails(t *testing.T) {
	a := Price{Amount: decimal.NewFromInt(10), Currency: "USD"}
	b := Price{Amount: decimal.NewFromInt(10), Currency: "EUR"}

	_, err := a.Add(b)
	if err == nil {
		t.Fatal("expected error adding USD + EUR")
	}
	if !errors.Is(err, utils.ErrorCurrencyMismatch) {
		t.Fatalf("expected ErrorCurrencyMismatch, got %v", err)
	}
}

func TestZeroPrice_IsAdditiveIdentity(t *testing.T) {
	a := Price{Amount: decimal.RequireFromString("12.34"), Currency: "EUR"}

	sum, err := ZeroPrice("EUR").Add(a)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if !sum.Amount.Equal(a.Amount) {
		t.Fatalf("expected %s, got %s", a.Amount, sum.Amount)
	}
	if !ZeroPrice("EUR").IsZero() {
		t.Fatal("ZeroPrice should report IsZero")
	}
}
