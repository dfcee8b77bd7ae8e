package ordering

import "errors"

var (
	// ErrNotFound is returned when an order number, queue position or
	// catalog key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input, such as an item name
	// that cannot be resolved against the catalog.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence is returned when a snapshot write fails. The mutation
	// has already been applied in memory; the caller knows it was not
	// durably recorded.
	ErrPersistence = errors.New("persistence failure")
)
