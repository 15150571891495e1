package hh

import (
	"errors"
	"fmt"
)

// ErrRateLimited signals an HTTP 403 from the provider. The caller must back
// off before retrying the same page.
var ErrRateLimited = errors.New("hh: rate limited")

// ProtocolError is any non-success, non-rate-limit answer from the provider.
// It carries the status and a body snippet for diagnostics.
type ProtocolError struct {
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hh: unexpected status %d: %s", e.StatusCode, e.Body)
}
