package utils

import "errors"

var (
	// ErrorRecordNotFound - a point lookup found no row for the given key and owner.
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorRateNotFound - conversion required an exchange rate that does not exist.
	// Never substituted with a default rate.
	ErrorRateNotFound = errors.New("exchange rate not found")

	// ErrorCurrencyMismatch - two prices in different currencies were added
	// without converting first. Caller bug.
	ErrorCurrencyMismatch = errors.New("currency mismatch")
)
