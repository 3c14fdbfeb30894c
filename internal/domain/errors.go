package domain

import "errors"

var (
	// ErrMalformedEvent is returned when an event envelope is not valid JSON
	ErrMalformedEvent = errors.New("malformed event envelope")

	// ErrInvalidMapping is returned when a marketplace remapping config cannot be compiled
	ErrInvalidMapping = errors.New("invalid marketplace mapping")

	// ErrStorageWrite is returned when a round could not be persisted
	ErrStorageWrite = errors.New("storage write failed")

	// ErrRoundDrained is returned when a reducer round is used after it was drained
	ErrRoundDrained = errors.New("round already drained")

	// ErrSourceUnavailable is returned when the transaction source cannot serve a batch
	ErrSourceUnavailable = errors.New("transaction source unavailable")

	// ErrMarketplaceNotFound is returned when a marketplace is not present in the registry
	ErrMarketplaceNotFound = errors.New("marketplace not found")
)
