// Package server provides the HTTP REST API for the gift interview engine.
package server

import (
	"errors"
	"net/http"

	"github.com/nara/giftinator/internal/oracle"
	"github.com/nara/giftinator/internal/parse"
	"github.com/nara/giftinator/internal/session"
	"github.com/nara/giftinator/internal/validate"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the HTTP status code for an error. Caller contract
// violations are 4xx; oracle misbehavior maps to upstream-failure codes so
// the UI can offer a retry.
func HTTPStatus(err error) int {
	var (
		outOfSequence *session.OutOfSequenceError
		incomplete    *session.IncompleteError
		closed        *session.SessionClosedError
		notFound      *session.NotFoundError
		stepMismatch  *session.StepMismatchError
		validation    *ErrValidation

		unparseable   *parse.UnparseableError
		modeMismatch  *validate.ModeMismatchError
		malformedTurn *validate.MalformedTurnError
		malformedRev  *validate.MalformedRevealError
		countViol     *validate.CountViolationError
		incompleteRec *validate.IncompleteRecommendationError

		timeout *oracle.TimeoutError
	)

	switch {
	case errors.As(err, &outOfSequence), errors.As(err, &incomplete), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &closed), errors.As(err, &stepMismatch):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unparseable), errors.As(err, &modeMismatch),
		errors.As(err, &malformedTurn), errors.As(err, &malformedRev),
		errors.As(err, &countViol), errors.As(err, &incompleteRec):
		return http.StatusBadGateway
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether re-issuing the same logical request is expected
// to succeed. Oracle schema violations and timeouts are sampling artifacts,
// not deterministic bugs.
func Retryable(err error) bool {
	status := HTTPStatus(err)
	return status == http.StatusBadGateway || status == http.StatusGatewayTimeout
}
