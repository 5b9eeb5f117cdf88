// Package apperr defines the closed set of error kinds surfaced by the
// service layer. Call sites wrap a kind with fmt.Errorf("...: %w", kind)
// to attach a reason; handlers classify with errors.Is.
package apperr

import "errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)
