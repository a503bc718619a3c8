package runner

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-multierror"

	"tensorpool/internal/tensorpool"
)

// Error carries the HTTP status a failure should map to.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string   { return e.Err.Error() }
func (e *Error) Unwrap() error   { return e.Err }
func (e *Error) StatusCode() int { return e.Code }

func classify(err error) error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return &Error{Code: http.StatusBadRequest, Err: err}
	}
	switch tensorpool.KindOf(err) {
	case tensorpool.KindAllocationFailure:
		return &Error{Code: http.StatusInsufficientStorage, Err: err}
	case tensorpool.KindPlannerFailure:
		return &Error{Code: http.StatusInternalServerError, Err: err}
	case 0:
		return &Error{Code: http.StatusBadRequest, Err: err}
	default:
		return &Error{Code: http.StatusUnprocessableEntity, Err: err}
	}
}
