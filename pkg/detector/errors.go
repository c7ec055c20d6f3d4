package detector

import "errors"

var (
	// ErrDuplicateDetector is returned when a name is registered twice.
	ErrDuplicateDetector = errors.New("detector: already registered")

	// ErrInvalidDetector is returned for empty names or nil detectors.
	ErrInvalidDetector = errors.New("detector: invalid detector")

	// ErrRunnerStarted is returned when Start is called twice.
	ErrRunnerStarted = errors.New("detector: runner already started")
)
