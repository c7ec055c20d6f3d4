package pipeline

import "errors"

var (
	// ErrStale indicates a newer selection started while this one was running.
	ErrStale = errors.New("pipeline: template selection superseded")

	// ErrInvalidPipeline indicates a pipeline or run object could not be decoded.
	ErrInvalidPipeline = errors.New("pipeline: invalid pipeline object")
)
