//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"presence-chat/contract"
	"presence-chat/domain"
	"presence-chat/domain/event"
	"presence-chat/errors"
	"presence-chat/observability"
	"presence-chat/repositories"

	"github.com/google/uuid"
)

type IMessageService interface {
	Post(ctx context.Context, from string, draft domain.MessageDraft) (domain.Message, error)
	Edit(ctx context.Context, id, editor string, draft domain.MessageDraft) error
	Delete(ctx context.Context, id, requester string) error
	ListVisibleTo(ctx context.Context, viewer string, limit int) ([]domain.Message, error)
	EmitArrival(ctx context.Context, participant domain.Participant) error
	EmitDeparture(ctx context.Context, participant domain.Participant) error
}

// MessageService owns the shared message log. Every call goes back to the store,
// nothing is cached between requests.
type MessageService struct {
	log                   *slog.Logger
	messageRepository     repositories.IMessageRepository
	participantRepository repositories.IParticipantRepository
	clock                 domain.Clock
	monitoring            *observability.MonitoringManager
	sinks                 []contract.EventSink
}

func NewMessageService(
	log *slog.Logger,
	messageRepository repositories.IMessageRepository,
	participantRepository repositories.IParticipantRepository,
	clock domain.Clock,
	monitoring *observability.MonitoringManager,
	sinks ...contract.EventSink,
) *MessageService {
	return &MessageService{
		log:                   log,
		messageRepository:     messageRepository,
		participantRepository: participantRepository,
		clock:                 clock,
		monitoring:            monitoring,
		sinks:                 sinks,
	}
}

// Post appends a message written by a registered participant.
func (s *MessageService) Post(ctx context.Context, from string, draft domain.MessageDraft) (domain.Message, error) {
	if _, err := s.participantRepository.GetParticipant(from); err != nil {
		if stderrors.Is(err, errors.ErrParticipantNotFound) {
			return domain.Message{}, fmt.Errorf("%w: %q", errors.ErrUnknownSender, from)
		}
		return domain.Message{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.Message{}, err
	}

	message := domain.NewMessage(from, draft, s.clock.Now())
	if err := s.messageRepository.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	s.monitoring.IncrMessagesPosted()
	s.log.DebugContext(ctx, "Message posted", "id", message.ID, "from", from, "type", message.Kind)
	return message, nil
}

// Edit rewrites recipient, text and kind of a message. Only its author may do it.
// The author does not need to be registered anymore.
func (s *MessageService) Edit(ctx context.Context, id, editor string, draft domain.MessageDraft) error {
	message, err := s.ownedMessage(id, editor)
	if err != nil {
		return err
	}
	if err = draft.Validate(); err != nil {
		return err
	}
	if err = s.messageRepository.UpdateMessage(message.Amend(draft)); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "Message edited", "id", message.ID, "by", editor)
	return nil
}

func (s *MessageService) Delete(ctx context.Context, id, requester string) error {
	message, err := s.ownedMessage(id, requester)
	if err != nil {
		return err
	}
	if err = s.messageRepository.DeleteMessage(message.ID); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "Message deleted", "id", message.ID, "by", requester)
	return nil
}

// ListVisibleTo returns, oldest first, the last limit messages the viewer may read.
// A limit <= 0 returns all of them.
func (s *MessageService) ListVisibleTo(_ context.Context, viewer string, limit int) ([]domain.Message, error) {
	return s.messageRepository.GetMessages(func(m domain.Message) bool {
		return domain.IsVisible(m, viewer)
	}, limit)
}

func (s *MessageService) EmitArrival(ctx context.Context, participant domain.Participant) error {
	return s.emitStatus(ctx, participant, domain.ArrivalText, event.ParticipantJoined)
}

// EmitDeparture announces an evicted participant. The participant is already
// gone from the store, so the registered-sender check does not apply.
func (s *MessageService) EmitDeparture(ctx context.Context, participant domain.Participant) error {
	return s.emitStatus(ctx, participant, domain.DepartureText, event.ParticipantLeft)
}

func (s *MessageService) emitStatus(ctx context.Context, participant domain.Participant,
	text string, presenceType event.PresenceType) error {
	now := s.clock.Now()
	if err := s.messageRepository.StoreMessage(domain.NewStatusMessage(participant, text, now)); err != nil {
		return err
	}
	// Sinks are best effort: the status message is the source of truth.
	for _, sink := range s.sinks {
		e := event.PresenceChanged{Type: presenceType, Name: participant.Name, At: now}
		if err := sink.Consume(ctx, e); err != nil {
			s.monitoring.IncrErrorCount()
			s.log.WarnContext(ctx, "Presence event not delivered", "name", participant.Name, "error", err)
		}
	}
	return nil
}

func (s *MessageService) ownedMessage(id, name string) (domain.Message, error) {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %q", errors.ErrMessageNotFound, id)
	}
	message, err := s.messageRepository.GetMessage(messageID)
	if err != nil {
		return domain.Message{}, err
	}
	if !message.IsOwnedBy(name) {
		return domain.Message{}, fmt.Errorf("%w: %q", errors.ErrNotMessageOwner, name)
	}
	return message, nil
}
