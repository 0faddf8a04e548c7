package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/chesscoach/internal/adapters/archive"
	service "github.com/okian/chesscoach/internal/app"
	"github.com/okian/chesscoach/internal/domain/game"
	"github.com/okian/chesscoach/internal/domain/outcome"
	"github.com/okian/chesscoach/internal/domain/stats"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// kindError tags an error with the operation that produced it and,
// optionally, an API kind.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	switch {
	case e.kind != nil && e.err != nil:
		return e.kind.Error() + ": " + e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	case e.err != nil:
		return e.err.Error()
	default:
		return e.op
	}
}

func (e *kindError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind classifies err as kind, raised by op.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// Wrap tags err with op, leaving classification to the wrapped chain.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{op: op, err: err}
}

// opOf returns the operation recorded on err, if any.
func opOf(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.op
	}
	return ""
}

// statusFor maps an error chain to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, game.ErrMalformedRecord),
		errors.Is(err, outcome.ErrAmbiguousAttribution):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, archive.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, stats.ErrEmptyGameSet), errors.Is(err, archive.ErrNoArchives):
		return http.StatusNotFound, "no_games"
	case errors.Is(err, archive.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, service.ErrAnalysisUnavailable):
		return http.StatusServiceUnavailable, "analysis_unavailable"
	case errors.Is(err, service.ErrAnalysisFailed):
		return http.StatusBadGateway, "analysis_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
