package main

import (
	"context"
	"errors"

	"github.com/iota-uz/order-explorer/modules/orders/services/dialogs"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/authz"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitRemote     = 4
	exitDenied     = 5
)

// codedError pins an exit code on err; untagged errors are classified by
// exitCode.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

var sentinelCodes = []struct {
	target error
	code   int
}{
	{authz.ErrForbidden, exitDenied},
	{dialogs.ErrInvalidSelection, exitValidation},
	{dialogs.ErrNothingSelected, exitValidation},
	{explorer.ErrUnknownOrder, exitValidation},
	{explorer.ErrUnknownRequest, exitValidation},
	{explorer.ErrUnknownSortField, exitUsage},
	{explorer.ErrUnknownAction, exitUsage},
	{context.DeadlineExceeded, exitRemote},
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return s.code
		}
	}
	return exitFailure
}
