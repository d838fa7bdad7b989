package directions

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse marks a body that is not a directions document of the expected shape.
	ErrMalformedResponse = errors.New("malformed directions response")
	// ErrProviderStatus marks a well-formed response whose status reports a provider-side failure.
	ErrProviderStatus = errors.New("directions provider status")
)

// StatusError reports a non-success status such as REQUEST_DENIED or OVER_QUERY_LIMIT.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("directions provider returned status %s", e.Status)
	}
	return fmt.Sprintf("directions provider returned status %s: %s", e.Status, e.Message)
}

func (e *StatusError) Is(target error) bool { return target == ErrProviderStatus }
