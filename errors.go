package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on. Handlers map these to
// HTTP statuses instead of parsing message text.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyDataset   = errors.New("no data found in range")
	ErrNoAttachments  = errors.New("no attachment files to send")
	ErrJobNotFound    = errors.New("job not found")
	ErrJobNotFinished = errors.New("job has not completed")
	ErrJobFinished    = errors.New("job already reached a terminal state")
)

// ValidationError marks a synchronous request failure: bad form input
// detected before any background work starts.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
