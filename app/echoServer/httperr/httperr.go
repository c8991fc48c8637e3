// Package httperr maps service error kinds onto HTTP status codes.
package httperr

import (
	"net/http"

	"github.com/ojimcy/mcgp-api/util/apperr"
)

func Status(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.InvalidState:
		return http.StatusConflict
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message hides internals for unclassified errors.
func Message(err error) string {
	if apperr.KindOf(err) == "" {
		return "internal error"
	}
	return err.Error()
}
