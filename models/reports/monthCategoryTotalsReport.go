package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
	"github.com/google/uuid"
)

type CategoryTotalResponse struct {
	CategoryId   uuid.UUID    `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Color        models.RGBA  `json:"color"`
	Total        models.Price `json:"total"`
}

// GetMonthCategoryTotalsReport sums converted outcome amounts per linked
// category for one month. Sparse: categories without an outcome that month
// are omitted. Sorted by category name ascending.
func GetMonthCategoryTotalsReport(ctx context.Context, year int, month time.Month) ([]*CategoryTotalResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "month_category_totals", started, map[string]any{"year": year, "month": int(month)})

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	cacheKey := fmt.Sprintf("report:month_category_totals:%s:%04d-%02d", ownerId, year, int(month))
	if reportCacheEnabled() {
		var cached []*CategoryTotalResponse
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
		return nil, err
	}

	outcomeIds := make([]uuid.UUID, 0, len(outcomes))
	for _, o := range outcomes {
		outcomeIds = append(outcomeIds, o.ID)
	}

	var links []models.OutcomeCategory
	if len(outcomeIds) > 0 {
		err = db.
			Where("owner_id = ? AND outcome_id IN ?", ownerId, outcomeIds).
			Find(&links).Error
		if err != nil {
			return nil, err
		}
	}

	categoryIds := make([]uuid.UUID, 0, len(links))
	seenCategory := make(map[uuid.UUID]bool, len(links))
	for _, l := range links {
		if !seenCategory[l.CategoryId] {
			seenCategory[l.CategoryId] = true
			categoryIds = append(categoryIds, l.CategoryId)
		}
	}

	var categories []models.Category
	if len(categoryIds) > 0 {
		err = db.
			Where("owner_id = ? AND id IN ?", ownerId, categoryIds).
			Find(&categories).Error
		if err != nil {
			return nil, err
		}
	}

	rateTable, err := models.LoadRateTable(db, ownerId)
	if err != nil {
		return nil, err
	}

	results, err := sumOutcomesByCategory(outcomes, links, categories, rateTable)
	if err != nil {
		return nil, err
	}

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, results, reportCacheTTL())
	}
	return results, nil
}

// sumOutcomesByCategory is the pure aggregation: one pass over the rows,
// converting each amount at its own occurrence time, accumulating per
// category. A missing rate aborts the whole aggregation.
func sumOutcomesByCategory(
	outcomes []models.Outcome,
	links []models.OutcomeCategory,
	categories []models.Category,
	rateTable *models.RateTable,
) ([]*CategoryTotalResponse, error) {

	outcomeById := make(map[uuid.UUID]*models.Outcome, len(outcomes))
	for i := range outcomes {
		outcomeById[outcomes[i].ID] = &outcomes[i]
	}
	categoryById := make(map[uuid.UUID]*models.Category, len(categories))
	for i := range categories {
		categoryById[categories[i].ID] = &categories[i]
	}

	totals := make(map[uuid.UUID]models.Price, len(categories))
	for _, link := range links {
		outcome, ok := outcomeById[link.OutcomeId]
		if !ok {
			continue
		}
		converted, err := rateTable.Convert(outcome.Amount, outcome.CurrencyCode, outcome.OccurredAt)
		if err != nil {
			return nil, err
		}
		running, ok := totals[link.CategoryId]
		if !ok {
			running = rateTable.ZeroDefault()
		}
		running, err = running.Add(converted)
		if err != nil {
			return nil, err
		}
		totals[link.CategoryId] = running
	}

	results := make([]*CategoryTotalResponse, 0, len(totals))
	for categoryId, total := range totals {
		category, ok := categoryById[categoryId]
		if !ok {
			// Link to a category row the projection has not seen; skip rather than fail the report.
			continue
		}
		results = append(results, &CategoryTotalResponse{
			CategoryId:   categoryId,
			CategoryName: category.Name,
			Color:        category.Color(),
			Total:        total,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CategoryName < results[j].CategoryName
	})
	return results, nil
}
