package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/pactum/internal/adapters/backend"
	"github.com/okian/pactum/internal/domain/risk"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("upstream unavailable")
	ErrInternal    = errors.New("internal error")
)

// Error ties an operation to an error kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind creates an error of the given kind without a cause.
func NewKind(op string, kind error) *Error {
	return &Error{Op: op, Kind: kind}
}

// Wrap classifies err for op. Missing backend resources become ErrNotFound,
// other backend failures ErrUnavailable and unknown severities ErrBadRequest;
// anything else is internal.
func Wrap(op string, err error) *Error {
	var kind error
	switch {
	case errors.Is(err, backend.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, backend.ErrUnavailable):
		kind = ErrUnavailable
	case errors.Is(err, risk.ErrUnknownSeverity):
		kind = ErrBadRequest
	default:
		kind = ErrInternal
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// status maps an error to an HTTP status and error code.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
