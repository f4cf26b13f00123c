package domain

import (
	"errors"
	"fmt"
)

// Store level sentinels. Repositories translate driver constraint errors into
// these so services can report them without knowing the driver.
var (
	ErrDuplicate  = errors.New("duplicate value violates a unique constraint")
	ErrReferenced = errors.New("row is referenced by other rows")
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindUnauthenticated Kind = "unauthenticated"
	KindStoreFailure    Kind = "store_failure"
)

// Error is the structured result of a failed service operation.
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func NewFieldError(field, msg string) *Error {
	return NewValidationError(map[string]string{field: msg})
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewForbiddenError(reason, msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg, Reason: reason}
}

func NewUnauthenticatedError(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func NewStoreFailure(err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: "store operation failed", Err: err}
}

// KindOf classifies any error. Errors that are not *Error are store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFailure
}

// AsError converts err into a structured error, mapping the store sentinels
// to conflicts and everything unknown to a store failure.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, ErrDuplicate):
		return &Error{Kind: KindConflict, Message: "resource already exists", Err: err}
	case errors.Is(err, ErrReferenced):
		return &Error{Kind: KindConflict, Message: "resource is still referenced", Err: err}
	}
	return NewStoreFailure(err)
}
