//go:generate go run go.uber.org/mock/mockgen -source=presence_service.go -destination=../mocks/mock_presence_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/observability"
	"presence-chat/repositories"
	"time"

	"github.com/samber/lo"
)

type IPresenceService interface {
	Register(ctx context.Context, name string) (domain.Participant, error)
	Heartbeat(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.Participant, error)
	SweepExpired(ctx context.Context, timeout time.Duration, now time.Time) ([]domain.Participant, error)
}

// ArrivalAnnouncer appends the "entra na sala..." notice of a new participant.
type ArrivalAnnouncer interface {
	EmitArrival(ctx context.Context, participant domain.Participant) error
}

type PresenceService struct {
	log                   *slog.Logger
	participantRepository repositories.IParticipantRepository
	announcer             ArrivalAnnouncer
	clock                 domain.Clock
	monitoring            *observability.MonitoringManager
}

func NewPresenceService(
	log *slog.Logger,
	participantRepository repositories.IParticipantRepository,
	announcer ArrivalAnnouncer,
	clock domain.Clock,
	monitoring *observability.MonitoringManager,
) *PresenceService {
	return &PresenceService{
		log:                   log,
		participantRepository: participantRepository,
		announcer:             announcer,
		clock:                 clock,
		monitoring:            monitoring,
	}
}

// Register creates the participant then announces it.
// The two writes are not atomic: when the announcement fails the participant
// stays registered and the error is returned as is.
func (s *PresenceService) Register(ctx context.Context, name string) (domain.Participant, error) {
	request, err := domain.NewRegisterRequest(name)
	if err != nil {
		return domain.Participant{}, err
	}

	participant := domain.NewParticipant(request.Name, s.clock.Now())
	if err = s.participantRepository.CreateParticipant(participant); err != nil {
		return domain.Participant{}, err
	}
	s.monitoring.IncrRegistrations()

	if err = s.announcer.EmitArrival(ctx, participant); err != nil {
		s.log.ErrorContext(ctx, "Participant registered without arrival message", "name", participant.Name, "error", err)
		return participant, fmt.Errorf("arrival of %q: %w", participant.Name, err)
	}
	s.log.InfoContext(ctx, "Participant registered", "name", participant.Name)
	return participant, nil
}

func (s *PresenceService) Heartbeat(_ context.Context, name string) error {
	if err := s.participantRepository.TouchParticipant(name, s.clock.Now()); err != nil {
		return err
	}
	s.monitoring.IncrHeartbeats()
	return nil
}

func (s *PresenceService) List(_ context.Context) ([]domain.Participant, error) {
	return s.participantRepository.ListParticipants()
}

// SweepExpired deletes every participant idle for at least timeout and returns
// the ones actually deleted. Each deletion is independent: failures are joined
// into the returned error while the remaining participants are still processed.
func (s *PresenceService) SweepExpired(ctx context.Context, timeout time.Duration, now time.Time) ([]domain.Participant, error) {
	participants, err := s.participantRepository.ListParticipants()
	if err != nil {
		return nil, err
	}
	stale := lo.Filter(participants, func(p domain.Participant, _ int) bool {
		return p.IsStale(now, timeout)
	})

	evicted := make([]domain.Participant, 0, len(stale))
	var errs []error
	for _, participant := range stale {
		err := s.participantRepository.DeleteParticipant(participant.Name)
		switch {
		case err == nil:
			evicted = append(evicted, participant)
		case stderrors.Is(err, errors.ErrParticipantNotFound):
			// Evicted by a concurrent sweep
			s.log.DebugContext(ctx, "Participant already evicted", "name", participant.Name)
		default:
			errs = append(errs, fmt.Errorf("evict %q: %w", participant.Name, err))
		}
	}
	return evicted, stderrors.Join(errs...)
}
