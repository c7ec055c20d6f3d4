package detector

import (
	"net/http"
	"slices"
	"time"
)

// DefaultRetryDelay is how long a one-shot detector waits before retrying
// after a transient failure.
const DefaultRetryDelay = 15 * time.Second

// Policy decides how a one-shot detector reacts to a failed probe.
// Status 404 is always a definitive negative and is not subject to the
// policy.
type Policy struct {
	// RetryDelay is the fixed delay before the detector runs again.
	RetryDelay time.Duration
	// WithdrawOn lists statuses after which owned flags are set to Unset.
	WithdrawOn []int
	// NoRetryOn lists statuses that never schedule a retry.
	NoRetryOn []int
}

// DefaultPolicy withdraws flags on 403 and 502 and retries everything
// except 401, 403 and 500.
func DefaultPolicy() Policy {
	return Policy{
		RetryDelay: DefaultRetryDelay,
		WithdrawOn: []int{http.StatusForbidden, http.StatusBadGateway},
		NoRetryOn:  []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}
}

// Withdraw reports whether owned flags are withdrawn after status.
func (p Policy) Withdraw(status int) bool {
	return slices.Contains(p.WithdrawOn, status)
}

// Retry reports whether a retry is scheduled after status.
// Status 0 stands for failures without an API response and is retried
// unless listed.
func (p Policy) Retry(status int) bool {
	return !slices.Contains(p.NoRetryOn, status)
}
