package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// Empty ids produce an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Detector records the feature detector name under the key "detector".
func Detector(name string) slog.Attr {
	return slog.String("detector", name)
}

// Flag records a feature flag name under the key "flag".
func Flag(name string) slog.Attr {
	return slog.String("flag", name)
}

// FlagValue records a tri-state flag value under the key "flag_value".
func FlagValue(v string) slog.Attr {
	return slog.String("flag_value", v)
}

// StatusCode records an API status code under the key "status_code".
// Zero means the failure carried no status and produces an empty Attr.
func StatusCode(code int) slog.Attr {
	if code == 0 {
		return slog.Attr{}
	}
	return slog.Int("status_code", code)
}

// Resource records the kind and namespace of a cluster resource.
func Resource(kind, namespace string) slog.Attr {
	if namespace == "" {
		return Group("resource", slog.String("kind", kind))
	}
	return Group("resource", slog.String("kind", kind), slog.String("namespace", namespace))
}

// RetryIn records the delay before the next attempt under the key "retry_in".
func RetryIn(d time.Duration) slog.Attr {
	return slog.Duration("retry_in", d)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
