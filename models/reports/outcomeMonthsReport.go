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
)

type OutcomeMonthResponse struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// GetOutcomeMonthsReport returns the distinct (year, month) pairs across all
// of the owner's outcomes, newest first.
func GetOutcomeMonthsReport(ctx context.Context) ([]*OutcomeMonthResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "outcome_months", started, nil)

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	cacheKey := fmt.Sprintf("report:outcome_months:%s", ownerId)
	if reportCacheEnabled() {
		var cached []*OutcomeMonthResponse
		if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	db := config.GetDB()
	var occurredAts []time.Time
	err := db.WithContext(ctx).Model(&models.Outcome{}).
		Where("owner_id = ?", ownerId).
		Pluck("occurred_at", &occurredAts).Error
	if err != nil {
		return nil, err
	}

	results := distinctMonthsDesc(occurredAts)

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, results, reportCacheTTL())
	}
	return results, nil
}

// distinctMonthsDesc collapses timestamps into unique months, newest first.
func distinctMonthsDesc(occurredAts []time.Time) []*OutcomeMonthResponse {
	seen := make(map[[2]int]bool, len(occurredAts))
	results := make([]*OutcomeMonthResponse, 0, len(occurredAts))
	for _, at := range occurredAts {
		at = at.UTC()
		key := [2]int{at.Year(), int(at.Month())}
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, &OutcomeMonthResponse{Year: at.Year(), Month: at.Month()})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Year != results[j].Year {
			return results[i].Year > results[j].Year
		}
		return results[i].Month > results[j].Month
	})
	return results
}

// monthRange is the UTC half-open interval [first of month, first of next month).
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// yearRange is the UTC half-open interval [Jan 1, next Jan 1).
func yearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
