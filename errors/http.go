package errors

import (
	stderrors "errors"
	"net/http"
)

// MapToHTTPStatus translates a service error into the status code returned to the client.
// Anything unknown is treated as a storage failure.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrInvalidParticipant),
		stderrors.Is(err, ErrInvalidMessage),
		stderrors.Is(err, ErrUnknownSender):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, ErrParticipantAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, ErrParticipantNotFound),
		stderrors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrNotMessageOwner):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
