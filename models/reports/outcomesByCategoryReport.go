package reports

import (
	"context"
	"errors"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/models"
	"github.com/experts-ly/money_backend/utils"
	"github.com/google/uuid"
)

type OutcomeOverviewResponse struct {
	ID          uuid.UUID    `json:"id"`
	Price       models.Price `json:"price"`
	Description string       `json:"description"`
	OccurredAt  time.Time    `json:"occurred_at"`
	IsFixed     bool         `json:"is_fixed"`
}

// GetMonthOutcomesByCategoryReport lists a month's outcomes, optionally
// filtered to one linked category (nil = no filter), by occurrence ascending.
func GetMonthOutcomesByCategoryReport(ctx context.Context, year int, month time.Month, categoryId *uuid.UUID) ([]*OutcomeOverviewResponse, error) {
	from, to := monthRange(year, month)
	return GetOutcomesByCategoryReport(ctx, from, to, categoryId)
}

// GetYearOutcomesByCategoryReport is the full-year variant.
func GetYearOutcomesByCategoryReport(ctx context.Context, year int, categoryId *uuid.UUID) ([]*OutcomeOverviewResponse, error) {
	from, to := yearRange(year)
	return GetOutcomesByCategoryReport(ctx, from, to, categoryId)
}

// GetOutcomesByCategoryReport lists outcome overviews in [from, to), optionally
// filtered to one linked category, ordered by occurrence ascending.
func GetOutcomesByCategoryReport(ctx context.Context, from time.Time, to time.Time, categoryId *uuid.UUID) ([]*OutcomeOverviewResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "outcomes_by_category", started, map[string]any{"from": from, "to": to})

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	db := config.GetDB().WithContext(ctx)

	dbCtx := db.
		Where("owner_id = ? AND occurred_at >= ? AND occurred_at < ?", ownerId, from, to)
	if categoryId != nil {
		linkedOutcomes := config.GetDB().WithContext(ctx).
			Model(&models.OutcomeCategory{}).
			Select("outcome_id").
			Where("owner_id = ? AND category_id = ?", ownerId, *categoryId)
		dbCtx = dbCtx.Where("id IN (?)", linkedOutcomes)
	}

	var outcomes []models.Outcome
	err := dbCtx.Order("occurred_at").Find(&outcomes).Error
	if err != nil {
		return nil, err
	}

	results := make([]*OutcomeOverviewResponse, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, &OutcomeOverviewResponse{
			ID:          o.ID,
			Price:       o.Price(),
			Description: o.Description,
			OccurredAt:  o.OccurredAt,
			IsFixed:     o.IsFixed,
		})
	}
	return results, nil
}
