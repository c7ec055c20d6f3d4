package redis

import "errors"

var (
	ErrInvalidURL        = errors.New("redis: invalid connection url")
	ErrNotReady          = errors.New("redis: server did not become ready")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
