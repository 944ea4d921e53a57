// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// BroadcastRecipient addresses a message to every current or future viewer.
	BroadcastRecipient = "Todos"
	TimeLayout         = "15:04:05"
	ArrivalText        = "entra na sala..."
	DepartureText      = "sai da sala..."
)

type Kind string

const (
	KindBroadcast Kind = "broadcast-message"
	KindPrivate   Kind = "private-message"
	KindStatus    Kind = "status"
)

// Message is an entry of the shared message log.
// From and Time never change once the message is created.
type Message struct {
	ID        uuid.UUID
	From      string
	To        string
	Text      string
	Kind      Kind
	Time      string
	CreatedAt time.Time
}

// NewMessage stamps a user draft with the server time.
func NewMessage(from string, draft MessageDraft, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		From:      from,
		To:        draft.To,
		Text:      draft.Text,
		Kind:      draft.Kind,
		Time:      now.Format(TimeLayout),
		CreatedAt: now,
	}
}

// NewStatusMessage builds a system notice about a participant, always broadcast.
func NewStatusMessage(participant Participant, text string, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		From:      participant.Name,
		To:        BroadcastRecipient,
		Text:      text,
		Kind:      KindStatus,
		Time:      now.Format(TimeLayout),
		CreatedAt: now,
	}
}

// IsOwnedBy reports whether name may edit or delete the message.
// Status notices belong to the system, not to the participant they mention.
func (m Message) IsOwnedBy(name string) bool {
	return m.Kind != KindStatus && m.From == name
}

// Amend returns a copy carrying the draft's recipient, text and kind.
func (m Message) Amend(draft MessageDraft) Message {
	m.To = draft.To
	m.Text = draft.Text
	m.Kind = draft.Kind
	return m
}

// IsVisible reports whether viewer may read the message: broadcasts,
// messages addressed to the viewer and messages the viewer sent.
func IsVisible(m Message, viewer string) bool {
	return m.To == BroadcastRecipient || m.To == viewer || m.From == viewer
}
