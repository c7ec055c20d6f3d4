package k8s

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig indicates the client configuration cannot be used.
	ErrInvalidConfig = errors.New("k8s: invalid client configuration")

	// ErrRequestFailed indicates the request never produced an API response.
	ErrRequestFailed = errors.New("k8s: request failed")

	// ErrDecode indicates the API response body could not be decoded.
	ErrDecode = errors.New("k8s: failed to decode response")

	// ErrInvalidModel indicates the model is missing kind, version or plural.
	ErrInvalidModel = errors.New("k8s: invalid resource model")
)

// StatusError is returned for every non-2xx API response.
type StatusError struct {
	Code    int
	Reason  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("k8s: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("k8s: %d %s", e.Code, e.Message)
}

// StatusCode returns the API status code carried by err, or 0 when err did
// not come from an API response (transport failures, decode errors).
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsNotFound reports whether err is a 404 API response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
