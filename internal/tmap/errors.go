package tmap

import (
	"errors"
	"fmt"
)

// ErrNoResults reports that the upstream answered but had nothing to return:
// a 204 response, or a success payload with zero matching items. It is an
// outcome, not a failure; test for it with errors.Is.
var ErrNoResults = errors.New("tmap: no results")

// ErrInvalidArgument is wrapped by request-building errors caused by caller
// input (missing keyword, out-of-range coordinate, unknown option code).
var ErrInvalidArgument = errors.New("tmap: invalid argument")

// HTTPError is returned when the upstream answers with a status other than
// 200 or 204. Body holds the raw response text for diagnostics.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmap %s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("tmap %s: HTTP %d: %s", e.Op, e.Status, e.Body)
}

// TransportError is returned for network-level faults (DNS, timeout,
// connection reset) and for response bodies that cannot be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tmap %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConfigError is returned by New when the client cannot be constructed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tmap config: %s %s", e.Field, e.Reason)
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
