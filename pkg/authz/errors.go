package authz

import (
	"errors"
	"fmt"
)

var ErrForbidden = errors.New("permission denied")

// ForbiddenError describes a denied request.
type ForbiddenError struct {
	Request Request
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: subject=%s domain=%s object=%s action=%s",
		ErrForbidden, e.Request.Subject, e.Request.Domain, e.Request.Object, e.Request.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func forbiddenError(req Request) error {
	return &ForbiddenError{Request: req}
}

// configError standardizes configuration validation errors.
func configError(msg string, args ...any) error {
	return fmt.Errorf("authz: "+msg, args...)
}
