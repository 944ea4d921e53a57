package services

import (
	"context"
	"fmt"
	"log/slog"
	"presence-chat/domain"
	"presence-chat/domain/event"
	"presence-chat/errors"
	"presence-chat/mocks"
	"presence-chat/observability"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageMocks struct {
	messages     *mocks.MockIMessageRepository
	participants *mocks.MockIParticipantRepository
	sink         *mocks.MockEventSink
}

func newMockedMessageService(t *testing.T, now time.Time) (*MessageService, messageMocks) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	m := messageMocks{
		messages:     mocks.NewMockIMessageRepository(ctrl),
		participants: mocks.NewMockIParticipantRepository(ctrl),
		sink:         mocks.NewMockEventSink(ctrl),
	}
	service := NewMessageService(log, m.messages, m.participants, newFixedClock(now),
		observability.NewMonitoringManager(log), m.sink)
	return service, m
}

func TestMessageService_Post(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	draft := domain.MessageDraft{To: domain.BroadcastRecipient, Text: "hi", Kind: domain.KindBroadcast}

	t.Run("should store a message from a registered sender", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.participants.EXPECT().GetParticipant("alice").Return(domain.Participant{Name: "alice"}, nil).Times(1)
		m.messages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)

		message, err := service.Post(ctx, "alice", draft)
		req.NoError(err)
		req.Equal("alice", message.From)
		req.Equal(domain.BroadcastRecipient, message.To)
		req.Equal("10:00:05", message.Time)
		req.NotEqual(uuid.Nil, message.ID)
	})

	t.Run("should reject an unknown sender", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.participants.EXPECT().GetParticipant("ghost").Return(domain.Participant{}, errors.ErrParticipantNotFound).Times(1)
		m.messages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		_, err := service.Post(ctx, "ghost", draft)
		req.ErrorIs(err, errors.ErrUnknownSender)
	})

	t.Run("should not hide a store failure behind an unknown sender", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.participants.EXPECT().GetParticipant("alice").Return(domain.Participant{}, errors.ErrStoreUnavailable).Times(1)

		_, err := service.Post(ctx, "alice", draft)
		req.ErrorIs(err, errors.ErrStoreUnavailable)
		req.NotErrorIs(err, errors.ErrUnknownSender)
	})

	t.Run("should refuse a status message written by a participant", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.participants.EXPECT().GetParticipant("alice").Return(domain.Participant{Name: "alice"}, nil).Times(1)
		m.messages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		_, err := service.Post(ctx, "alice", domain.MessageDraft{To: "bob", Text: "x", Kind: domain.KindStatus})
		req.ErrorIs(err, errors.ErrInvalidMessage)
	})
}

func TestMessageService_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	original := domain.Message{
		ID:        uuid.New(),
		From:      "alice",
		To:        domain.BroadcastRecipient,
		Text:      "hi",
		Kind:      domain.KindBroadcast,
		Time:      "09:59:59",
		CreatedAt: now.Add(-6 * time.Second),
	}
	draft := domain.MessageDraft{To: "bob", Text: "psst", Kind: domain.KindPrivate}

	t.Run("should let the author edit without touching from and time", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(original.ID).Return(original, nil).Times(1)
		m.messages.EXPECT().UpdateMessage(gomock.Any()).
			DoAndReturn(func(updated domain.Message) error {
				req.Equal(original.ID, updated.ID)
				req.Equal("alice", updated.From)
				req.Equal("09:59:59", updated.Time)
				req.Equal("bob", updated.To)
				req.Equal("psst", updated.Text)
				req.Equal(domain.KindPrivate, updated.Kind)
				return nil
			}).Times(1)

		req.NoError(service.Edit(ctx, original.ID.String(), "alice", draft))
	})

	t.Run("should refuse an edit from someone else", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(original.ID).Return(original, nil).Times(1)
		m.messages.EXPECT().UpdateMessage(gomock.Any()).Times(0)

		req.ErrorIs(service.Edit(ctx, original.ID.String(), "bob", draft), errors.ErrNotMessageOwner)
	})

	t.Run("should report a missing message before checking the draft", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(original.ID).Return(domain.Message{}, errors.ErrMessageNotFound).Times(1)

		req.ErrorIs(service.Edit(ctx, original.ID.String(), "alice", domain.MessageDraft{}), errors.ErrMessageNotFound)
	})

	t.Run("should reject an invalid draft from the author", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(original.ID).Return(original, nil).Times(1)
		m.messages.EXPECT().UpdateMessage(gomock.Any()).Times(0)

		req.ErrorIs(service.Edit(ctx, original.ID.String(), "alice", domain.MessageDraft{To: "bob"}), errors.ErrInvalidMessage)
	})

	t.Run("should treat a malformed id as not found", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(gomock.Any()).Times(0)

		req.ErrorIs(service.Delete(ctx, "not-a-uuid", "alice"), errors.ErrMessageNotFound)
		req.ErrorIs(service.Edit(ctx, "", "alice", draft), errors.ErrMessageNotFound)
	})

	t.Run("should let only the author delete", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().GetMessage(original.ID).Return(original, nil).Times(2)
		m.messages.EXPECT().DeleteMessage(original.ID).Return(nil).Times(1)

		req.ErrorIs(service.Delete(ctx, original.ID.String(), "bob"), errors.ErrNotMessageOwner)
		req.NoError(service.Delete(ctx, original.ID.String(), "alice"))
	})

	t.Run("should keep status notices out of reach of the participant they mention", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)
		arrival := domain.NewStatusMessage(domain.Participant{Name: "alice"}, domain.ArrivalText, now)

		m.messages.EXPECT().GetMessage(arrival.ID).Return(arrival, nil).Times(2)
		m.messages.EXPECT().UpdateMessage(gomock.Any()).Times(0)
		m.messages.EXPECT().DeleteMessage(gomock.Any()).Times(0)

		req.ErrorIs(service.Edit(ctx, arrival.ID.String(), "alice", draft), errors.ErrNotMessageOwner)
		req.ErrorIs(service.Delete(ctx, arrival.ID.String(), "alice"), errors.ErrNotMessageOwner)
	})
}

func TestMessageService_EmitDeparture(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 30, 0, time.UTC)
	carol := domain.Participant{ID: uuid.New(), Name: "carol", LastSeen: now.Add(-time.Minute)}

	t.Run("should store a broadcast status and notify the sink", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().StoreMessage(gomock.Any()).
			DoAndReturn(func(message domain.Message) error {
				req.Equal("carol", message.From)
				req.Equal(domain.BroadcastRecipient, message.To)
				req.Equal(domain.DepartureText, message.Text)
				req.Equal(domain.KindStatus, message.Kind)
				req.Equal("10:00:30", message.Time)
				return nil
			}).Times(1)
		m.sink.EXPECT().Consume(gomock.Any(), event.PresenceChanged{Type: event.ParticipantLeft, Name: "carol", At: now}).
			Return(nil).Times(1)

		req.NoError(service.EmitDeparture(ctx, carol))
	})

	t.Run("should not fail when the sink is down", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		m.sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(fmt.Errorf("nats: connection closed")).Times(1)

		req.NoError(service.EmitDeparture(ctx, carol))
	})

	t.Run("should not notify the sink when the message is lost", func(t *testing.T) {
		req := require.New(t)
		service, m := newMockedMessageService(t, now)

		m.messages.EXPECT().StoreMessage(gomock.Any()).Return(errors.ErrStoreUnavailable).Times(1)
		m.sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Times(0)

		req.ErrorIs(service.EmitDeparture(ctx, carol), errors.ErrStoreUnavailable)
	})
}

func TestMessageService_ListVisibleTo(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newBadgerServices(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.presence.Register(ctx, name)
		req.NoError(err)
	}
	post := func(from, to string, kind domain.Kind, text string) domain.Message {
		message, err := s.messages.Post(ctx, from, domain.MessageDraft{To: to, Text: text, Kind: kind})
		req.NoError(err)
		return message
	}
	texts := func(messages []domain.Message) []string {
		return lo.Map(messages, func(m domain.Message, _ int) string { return m.Text })
	}

	post("alice", domain.BroadcastRecipient, domain.KindBroadcast, "hi")
	secret := post("alice", "bob", domain.KindPrivate, "secret")
	post("carol", "alice", domain.KindPrivate, "hey alice")

	t.Run("should show private messages to both ends only", func(t *testing.T) {
		req := require.New(t)
		bob, err := s.messages.ListVisibleTo(ctx, "bob", 0)
		req.NoError(err)
		req.Equal([]string{domain.ArrivalText, domain.ArrivalText, domain.ArrivalText, "hi", "secret"}, texts(bob))

		carol, err := s.messages.ListVisibleTo(ctx, "carol", 0)
		req.NoError(err)
		req.Equal([]string{domain.ArrivalText, domain.ArrivalText, domain.ArrivalText, "hi", "hey alice"}, texts(carol))

		alice, err := s.messages.ListVisibleTo(ctx, "alice", 0)
		req.NoError(err)
		req.Len(alice, 6)
	})

	t.Run("should keep the last visible messages in chronological order", func(t *testing.T) {
		req := require.New(t)
		bob, err := s.messages.ListVisibleTo(ctx, "bob", 2)
		req.NoError(err)
		req.Equal([]string{"hi", "secret"}, texts(bob))

		all, err := s.messages.ListVisibleTo(ctx, "bob", 100)
		req.NoError(err)
		req.Len(all, 5)
	})

	t.Run("should show broadcasts to a viewer that never registered", func(t *testing.T) {
		req := require.New(t)
		stranger, err := s.messages.ListVisibleTo(ctx, "dave", 0)
		req.NoError(err)
		req.Equal([]string{domain.ArrivalText, domain.ArrivalText, domain.ArrivalText, "hi"}, texts(stranger))
	})

	t.Run("should hide an edited private message from its former recipient", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.messages.Edit(ctx, secret.ID.String(), "alice",
			domain.MessageDraft{To: "carol", Text: "secret for carol", Kind: domain.KindPrivate}))

		bob, err := s.messages.ListVisibleTo(ctx, "bob", 0)
		req.NoError(err)
		req.NotContains(texts(bob), "secret for carol")
		carol, err := s.messages.ListVisibleTo(ctx, "carol", 0)
		req.NoError(err)
		req.Contains(texts(carol), "secret for carol")
	})

	t.Run("should drop a deleted message for everyone", func(t *testing.T) {
		req := require.New(t)
		req.NoError(s.messages.Delete(ctx, secret.ID.String(), "alice"))
		req.ErrorIs(s.messages.Delete(ctx, secret.ID.String(), "alice"), errors.ErrMessageNotFound)

		alice, err := s.messages.ListVisibleTo(ctx, "alice", 0)
		req.NoError(err)
		req.NotContains(texts(alice), "secret for carol")
	})
}
