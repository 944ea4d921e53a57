package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrInvalidParticipant       = fmt.Errorf("invalid participant")
	ErrInvalidMessage           = fmt.Errorf("invalid message")
	ErrParticipantAlreadyExists = fmt.Errorf("participant already exists")
	ErrParticipantNotFound      = fmt.Errorf("participant not found")
	ErrMessageNotFound          = fmt.Errorf("message not found")
	ErrNotMessageOwner          = fmt.Errorf("participant is not the message owner")
	ErrUnknownSender            = fmt.Errorf("sender is not a registered participant")
	ErrStoreUnavailable         = fmt.Errorf("store unavailable")
)
