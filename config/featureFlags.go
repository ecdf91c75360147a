package config

import (
	"os"
	"strings"
)

// RateLookupMode controls how exchange rates are selected during conversion.
type RateLookupMode string

const (
	// RateLookupHistorical selects the rate effective at the amount's own
	// occurrence time (valid_from <= occurred_at, latest wins). Totals stay
	// stable across re-queries unless rates are inserted retroactively.
	RateLookupHistorical RateLookupMode = "historical"

	// RateLookupLatest ignores the occurrence time and always applies the
	// newest rate on record.
	RateLookupLatest RateLookupMode = "latest"
)

// GetRateLookupMode reads the conversion behavior toggle.
//
// Set via env:
// - RATE_LOOKUP_MODE=historical|latest (default historical)
func GetRateLookupMode() RateLookupMode {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LOOKUP_MODE")))
	if v == string(RateLookupLatest) {
		return RateLookupLatest
	}
	return RateLookupHistorical
}

// MigrateOnStart enables AutoMigrate at worker startup. Dev convenience only;
// production schema changes go through the external migration pipeline.
//
// Set via env:
// - MIGRATE_ON_START=true
func MigrateOnStart() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("MIGRATE_ON_START")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
