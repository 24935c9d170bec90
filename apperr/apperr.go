// Package apperr defines the error kinds the workflow contract exposes.
// Validation failures are raised before any store call; partial failures
// report the failed subset of a concurrent batch without undoing the
// calls that succeeded.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Collection, e.ID)
}

func NotFound(collection, id string) error {
	return &NotFoundError{Collection: collection, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// FailedCall identifies one store call that failed inside a batch.
type FailedCall struct {
	Collection string
	ID         string
	Err        error
}

// PartialFailure reports a batch where some calls succeeded and some did
// not. Succeeded calls are never rolled back; the caller retries only the
// failed subset.
type PartialFailure struct {
	Op     string
	Failed []FailedCall
}

func (e *PartialFailure) Error() string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = f.Collection + "/" + f.ID
	}
	return fmt.Sprintf("%s: %d of batch failed: %s", e.Op, len(e.Failed), strings.Join(ids, ", "))
}

func IsPartialFailure(err error) bool {
	var pf *PartialFailure
	return errors.As(err, &pf)
}
