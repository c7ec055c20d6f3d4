package feature

import "errors"

// Predefined errors for the feature package.
var (
	// ErrFlagNotFound indicates that the flag has no asserted value.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrInvalidFlag indicates that the provided flag parameters are invalid.
	ErrInvalidFlag = errors.New("invalid feature flag parameters")

	// ErrStoreClosed indicates the store was used after Close.
	ErrStoreClosed = errors.New("feature store closed")

	// ErrOperationFailed indicates a general failure during a store operation.
	ErrOperationFailed = errors.New("feature operation failed")
)
