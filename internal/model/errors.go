package model

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable signals an upstream fetch/network failure. The
// operation that raised it is retried on the next tick; it is never
// fatal to the process.
var ErrDataUnavailable = errors.New("market data unavailable")

// ErrInvalidCondition signals malformed alert parameters (e.g. a price
// alert without a target price).
var ErrInvalidCondition = errors.New("invalid alert condition")

// ErrAlertNotFound is returned by the store when an alert does not
// exist or does not belong to the requesting owner.
var ErrAlertNotFound = errors.New("alert not found")

// InsufficientDataError reports that an analysis was requested with
// fewer bars than the minimum the indicator set needs.
type InsufficientDataError struct {
	Got  int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for analysis: got %d bars, need at least %d", e.Got, e.Need)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
