package reports

import (
	"testing"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eurToUsdTable() *models.RateTable {
	return models.NewRateTable("USD", []models.ExchangeRate{
		{FromCode: "EUR", ToCode: "USD", Rate: decimal.RequireFromString("1.1"), ValidFrom: day(2023, time.January, 1)},
		{FromCode: "EUR", ToCode: "USD", Rate: decimal.RequireFromString("1.2"), ValidFrom: day(2023, time.June, 1)},
	}, config.RateLookupHistorical)
}

func TestDistinctMonthsDesc(t *testing.T) {
	occurredAts := []time.Time{
		day(2023, time.June, 10),
		day(2023, time.June, 20), // same month, must collapse
		day(2022, time.December, 31),
		day(2023, time.July, 1),
	}

	results := distinctMonthsDesc(occurredAts)

	expected := []OutcomeMonthResponse{
		{Year: 2023, Month: time.July},
		{Year: 2023, Month: time.June},
		{Year: 2022, Month: time.December},
	}
	if len(results) != len(expected) {
		t.Fatalf("expected %d months, got %d", len(expected), len(results))
	}
	for i, e := range expected {
		if results[i].Year != e.Year || results[i].Month != e.Month {
			t.Fatalf("position %d expected %d-%d, got %d-%d", i, e.Year, e.Month, results[i].Year, results[i].Month)
		}
	}
}

func TestDistinctMonthsDesc_Empty(t *testing.T) {
	if results := distinctMonthsDesc(nil); len(results) != 0 {
		t.Fatalf("expected no months, got %d", len(results))
	}
}

func TestSumOutcomesByCategory(t *testing.T) {
	groceries := models.Category{ID: uuid.New(), Name: "Groceries", ColorR: 76, ColorG: 175, ColorB: 80, ColorA: 255}
	travel := models.Category{ID: uuid.New(), Name: "Travel", ColorA: 255}

	outcomeA := models.Outcome{ID: uuid.New(), Amount: decimal.NewFromInt(100), CurrencyCode: "EUR", OccurredAt: day(2023, time.June, 10)}
	outcomeB := models.Outcome{ID: uuid.New(), Amount: decimal.NewFromInt(50), CurrencyCode: "EUR", OccurredAt: day(2023, time.June, 20)}

	outcomes := []models.Outcome{outcomeA, outcomeB}
	links := []models.OutcomeCategory{
		{OutcomeId: outcomeA.ID, CategoryId: groceries.ID},
		{OutcomeId: outcomeB.ID, CategoryId: groceries.ID},
	}
	categories := []models.Category{groceries, travel}

	results, err := sumOutcomesByCategory(outcomes, links, categories, eurToUsdTable())
	if err != nil {
		t.Fatalf("sumOutcomesByCategory error: %v", err)
	}

	// Travel has no outcomes this month; the report is sparse.
	if len(results) != 1 {
		t.Fatalf("expected 1 category row, got %d", len(results))
	}
	// Both occurred after 2023-06-01, so the 1.2 rate applies: 150 EUR -> 180 USD.
	if results[0].CategoryId != groceries.ID || results[0].Total.Amount.String() != "180" || results[0].Total.Currency != "USD" {
		t.Fatalf("expected Groceries 180 USD, got %s %s", results[0].CategoryName, results[0].Total)
	}
	if results[0].Color != groceries.Color() {
		t.Fatalf("expected category color carried through, got %+v", results[0].Color)
	}
}

func TestSumOutcomesByCategory_MultiLinkCountsIntoEach(t *testing.T) {
	groceries := models.Category{ID: uuid.New(), Name: "Groceries"}
	household := models.Category{ID: uuid.New(), Name: "Household"}

	outcome := models.Outcome{ID: uuid.New(), Amount: decimal.NewFromInt(100), CurrencyCode: "USD", OccurredAt: day(2023, time.June, 10)}

	results, err := sumOutcomesByCategory(
		[]models.Outcome{outcome},
		[]models.OutcomeCategory{
			{OutcomeId: outcome.ID, CategoryId: groceries.ID},
			{OutcomeId: outcome.ID, CategoryId: household.ID},
		},
		[]models.Category{groceries, household},
		eurToUsdTable(),
	)
	if err != nil {
		t.Fatalf("sumOutcomesByCategory error: %v", err)
	}

	// One outcome, two categories: the full amount appears under both.
	if len(results) != 2 {
		t.Fatalf("expected 2 category rows, got %d", len(results))
	}
	if results[0].CategoryName != "Groceries" || results[1].CategoryName != "Household" {
		t.Fatalf("expected name-ascending order, got %s, %s", results[0].CategoryName, results[1].CategoryName)
	}
	for _, r := range results {
		if r.Total.Amount.String() != "100" {
			t.Fatalf("%s expected 100 USD, got %s", r.CategoryName, r.Total)
		}
	}
}

func TestSumOutcomesByCategory_SkipsUnseenCategory(t *testing.T) {
	outcome := models.Outcome{ID: uuid.New(), Amount: decimal.NewFromInt(10), CurrencyCode: "USD", OccurredAt: day(2023, time.June, 10)}
	links := []models.OutcomeCategory{{OutcomeId: outcome.ID, CategoryId: uuid.New()}}

	results, err := sumOutcomesByCategory([]models.Outcome{outcome}, links, nil, eurToUsdTable())
	if err != nil {
		t.Fatalf("sumOutcomesByCategory error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no rows for a link without a projected category, got %d", len(results))
	}
}

func TestSumOutcomeTotal_ConvertsAtEachOccurrence(t *testing.T) {
	outcomes := []models.Outcome{
		{ID: uuid.New(), Amount: decimal.NewFromInt(100), CurrencyCode: "EUR", OccurredAt: day(2023, time.March, 15)}, // 1.1 -> 110
		{ID: uuid.New(), Amount: decimal.NewFromInt(100), CurrencyCode: "EUR", OccurredAt: day(2023, time.July, 1)},   // 1.2 -> 120
		{ID: uuid.New(), Amount: decimal.NewFromInt(30), CurrencyCode: "USD", OccurredAt: day(2023, time.July, 2)},    // identity
	}

	total, err := sumOutcomeTotal(outcomes, eurToUsdTable())
	if err != nil {
		t.Fatalf("sumOutcomeTotal error: %v", err)
	}
	if total.Amount.String() != "260" || total.Currency != "USD" {
		t.Fatalf("expected 260 USD, got %s", total)
	}
}

func TestSumOutcomeTotal_EmptyMonthIsZeroDefault(t *testing.T) {
	total, err := sumOutcomeTotal(nil, eurToUsdTable())
	if err != nil {
		t.Fatalf("sumOutcomeTotal error: %v", err)
	}
	if !total.IsZero() || total.Currency != "USD" {
		t.Fatalf("expected zero USD, got %s", total)
	}
}

func TestSumIncomeTotal(t *testing.T) {
	incomes := []models.Income{
		{ID: uuid.New(), Amount: decimal.NewFromInt(4200), CurrencyCode: "USD", OccurredAt: day(2023, time.June, 1)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(100), CurrencyCode: "EUR", OccurredAt: day(2023, time.June, 2)},
	}

	total, err := sumIncomeTotal(incomes, eurToUsdTable())
	if err != nil {
		t.Fatalf("sumIncomeTotal error: %v", err)
	}
	if total.Amount.String() != "4320" {
		t.Fatalf("expected 4320 USD, got %s", total)
	}
}

func TestMonthRange_HalfOpenUTC(t *testing.T) {
	from, to := monthRange(2023, time.December)
	if !from.Equal(day(2023, time.December, 1)) {
		t.Fatalf("expected from 2023-12-01, got %s", from)
	}
	if !to.Equal(day(2024, time.January, 1)) {
		t.Fatalf("expected to 2024-01-01 (exclusive), got %s", to)
	}

	from, to = yearRange(2023)
	if !from.Equal(day(2023, time.January, 1)) || !to.Equal(day(2024, time.January, 1)) {
		t.Fatalf("expected [2023-01-01, 2024-01-01), got [%s, %s)", from, to)
	}
}
