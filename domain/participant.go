// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a registered identity. Its name is unique across the store.
type Participant struct {
	ID       uuid.UUID
	Name     string
	LastSeen time.Time
}

// NewParticipant builds a participant whose registration counts as its first heartbeat.
func NewParticipant(name string, now time.Time) Participant {
	return Participant{
		ID:       uuid.New(),
		Name:     name,
		LastSeen: now,
	}
}

// IsStale reports whether no heartbeat has been received for at least timeout.
func (p Participant) IsStale(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.LastSeen) >= timeout
}
