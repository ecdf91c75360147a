package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
)

// GetMonthTotalOutcomeReport sums the converted amounts of all outcomes in the
// month into a single Price, seeded at the default currency's zero value.
func GetMonthTotalOutcomeReport(ctx context.Context, year int, month time.Month) (models.Price, error) {
	started := time.Now()
	defer logSlowReport(ctx, "month_total_outcome", started, map[string]any{"year": year, "month": int(month)})

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return models.Price{}, errors.New("owner id is required")
	}

	cacheKey := fmt.Sprintf("report:month_total_outcome:%s:%04d-%02d", ownerId, year, int(month))
	if reportCacheEnabled() {
		var cached models.Price
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	db := config.GetDB().WithContext(ctx)
	from, to := monthRange(year, month)

	var outcomes []models.Outcome
	err := db.
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerId, from, to).
		Find(&outcomes).Error
	if err != nil {
		return models.Price{}, err
	}

	rateTable, err := models.LoadRateTable(db, ownerId)
	if err != nil {
		return models.Price{}, err
	}

	total, err := sumOutcomeTotal(outcomes, rateTable)
	if err != nil {
		return models.Price{}, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, total, reportCacheTTL())
	}
	return total, nil
}

// GetMonthTotalIncomeReport is the income counterpart; same conversion rules.
func GetMonthTotalIncomeReport(ctx context.Context, year int, month time.Month) (models.Price, error) {
	started := time.Now()
	defer logSlowReport(ctx, "month_total_income", started, map[string]any{"year": year, "month": int(month)})

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return models.Price{}, errors.New("owner id is required")
	}

	cacheKey := fmt.Sprintf("report:month_total_income:%s:%04d-%02d", ownerId, year, int(month))
	if reportCacheEnabled() {
		var cached models.Price
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	db := config.GetDB().WithContext(ctx)
	from, to := monthRange(year, month)

	var incomes []models.Income
	err := db.
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerId, from, to).
		Find(&incomes).Error
	if err != nil {
		return models.Price{}, err
	}

	rateTable, err := models.LoadRateTable(db, ownerId)
	if err != nil {
		return models.Price{}, err
	}

	total, err := sumIncomeTotal(incomes, rateTable)
	if err != nil {
		return models.Price{}, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, total, reportCacheTTL())
	}
	return total, nil
}

func sumOutcomeTotal(outcomes []models.Outcome, rateTable *models.RateTable) (models.Price, error) {
	total := rateTable.ZeroDefault()
	for _, o := range outcomes {
		converted, err := rateTable.Convert(o.Amount, o.CurrencyCode, o.OccurredAt)
		if err != nil {
			return models.Price{}, err
		}
		total, err = total.Add(converted)
		if err != nil {
			return models.Price{}, err
		}
	}
	return total, nil
}

func sumIncomeTotal(incomes []models.Income, rateTable *models.RateTable) (models.Price, error) {
	total := rateTable.ZeroDefault()
	for _, in := range incomes {
		converted, err := rateTable.Convert(in.Amount, in.CurrencyCode, in.OccurredAt)
		if err != nil {
			return models.Price{}, err
		}
		total, err = total.Add(converted)
		if err != nil {
			return models.Price{}, err
		}
	}
	return total, nil
}
