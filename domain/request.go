package domain

import (
	"fmt"
	"presence-chat/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest is the validated input of a participant registration.
type RegisterRequest struct {
	Name string `validate:"required"`
}

func NewRegisterRequest(name string) (RegisterRequest, error) {
	req := RegisterRequest{Name: strings.TrimSpace(name)}
	if err := validate.Struct(req); err != nil {
		return RegisterRequest{}, fmt.Errorf("%w: %v", errors.ErrInvalidParticipant, err)
	}
	return req, nil
}

// MessageDraft is what a participant may write: status messages are system-only.
type MessageDraft struct {
	To   string `validate:"required"`
	Text string `validate:"required"`
	Kind Kind   `validate:"required,oneof=broadcast-message private-message"`
}

func NewMessageDraft(to, text, kind string) (MessageDraft, error) {
	draft := MessageDraft{
		To:   strings.TrimSpace(to),
		Text: strings.TrimSpace(text),
		Kind: Kind(strings.TrimSpace(kind)),
	}
	if err := draft.Validate(); err != nil {
		return MessageDraft{}, err
	}
	return draft, nil
}

func (d MessageDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}
	return nil
}
