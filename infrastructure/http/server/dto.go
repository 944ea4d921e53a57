package server

import (
	"presence-chat/domain"

	"github.com/samber/lo"
)

type registerBody struct {
	Name string `json:"name"`
}

type messageBody struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type participantResponse struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

type messageResponse struct {
	ID   string `json:"_id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

// toParticipantResponses reports lastStatus in Unix milliseconds.
func toParticipantResponses(participants []domain.Participant) []participantResponse {
	return lo.Map(participants, func(p domain.Participant, _ int) participantResponse {
		return participantResponse{
			ID:         p.ID.String(),
			Name:       p.Name,
			LastStatus: p.LastSeen.UnixMilli(),
		}
	})
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return messageResponse{
			ID:   m.ID.String(),
			From: m.From,
			To:   m.To,
			Text: m.Text,
			Type: string(m.Kind),
			Time: m.Time,
		}
	})
}
