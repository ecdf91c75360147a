package models

import (
	"errors"
	"testing"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/utils"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func usdTable(mode config.RateLookupMode) *RateTable {
	return NewRateTable("USD", []ExchangeRate{
		{FromCode: "EUR", ToCode: "USD", Rate: decimal.RequireFromString("1.1"), ValidFrom: day(2023, time.January, 1)},
		{FromCode: "EUR", ToCode: "USD", Rate: decimal.RequireFromString("1.2"), ValidFrom: day(2023, time.June, 1)},
		// Not targeting the default currency; must never be picked.
		{FromCode: "EUR", ToCode: "GBP", Rate: decimal.RequireFromString("9.9"), ValidFrom: day(2023, time.January, 1)},
	}, mode)
}

func TestConvert_PicksRateEffectiveAtOccurrence(t *testing.T) {
	table := usdTable(config.RateLookupHistorical)

	cases := []struct {
		asOf     time.Time
		expected string
	}{
		{day(2023, time.March, 15), "110"},  // older rate still effective
		{day(2023, time.June, 1), "120"},    // boundary: new rate from its valid_from
		{day(2023, time.July, 1), "120"},    // after the newer rate
		{day(2030, time.January, 1), "120"}, // far future: latest known rate
	}
	for _, tc := range cases {
		price, err := table.Convert(decimal.NewFromInt(100), "EUR", tc.asOf)
		if err != nil {
			t.Fatalf("Convert(EUR, %s) error: %v", tc.asOf.Format("2006-01-02"), err)
		}
		if price.Currency != "USD" || price.Amount.String() != tc.expected {
			t.Fatalf("Convert(EUR, %s) expected %s USD, got %s", tc.asOf.Format("2006-01-02"), tc.expected, price)
		}
	}
}

func TestConvert_NoRateBeforeFirstValidFrom(t *testing.T) {
	table := usdTable(config.RateLookupHistorical)

	_, err := table.Convert(decimal.NewFromInt(100), "EUR", day(2022, time.December, 1))
	if err == nil {
		t.Fatal("expected error converting before the first valid_from")
	}
	if !errors.Is(err, utils.ErrorRateNotFound) {
		t.Fatalf("expected ErrorRateNotFound, got %v", err)
	}
}

func TestConvert_UnknownCurrencyFails(t *testing.T) {
	table := usdTable(config.RateLookupHistorical)

	_, err := table.Convert(decimal.NewFromInt(5), "JPY", day(2023, time.July, 1))
	if !errors.Is(err, utils.ErrorRateNotFound) {
		t.Fatalf("expected ErrorRateNotFound for JPY, got %v", err)
	}
}

func TestConvert_DefaultCurrencyIsIdentity(t *testing.T) {
	// Identity needs no rate rows at all.
	table := NewRateTable("USD", nil, config.RateLookupHistorical)

	price, err := table.Convert(decimal.RequireFromString("42.42"), "USD", day(2023, time.March, 15))
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if price.Amount.String() != "42.42" || price.Currency != "USD" {
		t.Fatalf("expected 42.42 USD, got %s", price)
	}
}

func TestConvert_LatestModeIgnoresOccurrence(t *testing.T) {
	table := usdTable(config.RateLookupLatest)

	// Occurrence predates every rate; latest mode applies the newest anyway.
	price, err := table.Convert(decimal.NewFromInt(100), "EUR", day(2022, time.December, 1))
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if price.Amount.String() != "120" {
		t.Fatalf("expected 120 (newest rate), got %s", price.Amount)
	}
}
