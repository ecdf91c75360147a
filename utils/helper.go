package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/experts-ly/money_backend/config"
	"github.com/shopspring/decimal"
)

// DecimalFromString parses formatted amount strings ("1,234.50", "USD 20,000").
func DecimalFromString(value string) (decimal.Decimal, error) {
	// Strip currency prefixes and thousands separators.
	value = strings.TrimSpace(value)
	if idx := strings.LastIndexByte(value, ' '); idx >= 0 {
		value = value[idx+1:]
	}
	value = strings.ReplaceAll(value, ",", "")
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// OwnerLock serializes an operation per owner across instances via Redis.
// The DB advisory lock inside the projection transaction is the correctness
// guard; this only reduces cross-instance contention at the entry point.
func OwnerLock(ctx context.Context, ownerId string, lockType string, moduleName string, functionName string) (*redislock.Lock, error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Avoid nil-pointer panics when Redis lock isn't initialized yet.
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", ownerId, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, ownerId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for ownerId", ownerId, err)
		return nil, errors.New("could not obtain lock for ownerId")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for ownerId", ownerId, err)
		return nil, err
	}
	return lock, nil
}
