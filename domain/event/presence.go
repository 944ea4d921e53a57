package event

import "time"

type PresenceType string

const (
	ParticipantJoined PresenceType = "joined"
	ParticipantLeft   PresenceType = "left"
)

// PresenceChanged is emitted once a status message has been appended to the log.
type PresenceChanged struct {
	Type PresenceType `json:"type"`
	Name string       `json:"name"`
	At   time.Time    `json:"at"`
}
