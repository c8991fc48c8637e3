// Package apperr carries the error kinds services surface to controllers.
package apperr

import "errors"

type Kind string

const (
	NotFound        Kind = "NOT_FOUND"
	InvalidArgument Kind = "INVALID_ARGUMENT"
	InvalidState    Kind = "INVALID_STATE"
	Forbidden       Kind = "FORBIDDEN"
	Conflict        Kind = "CONFLICT"
)

type kindError struct {
	kind Kind
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Kind() Kind    { return e.kind }

func E(k Kind, msg string) error { return kindError{kind: k, msg: msg} }

// KindOf extracts the kind from an error chain; "" for plain errors.
func KindOf(err error) Kind {
	var ke interface{ Kind() Kind }
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}
