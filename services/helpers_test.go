package services

import (
	"log/slog"
	"presence-chat/observability"
	"presence-chat/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type badgerServices struct {
	presence *PresenceService
	messages *MessageService
	clock    *fixedClock
}

// newBadgerServices wires both services on a throwaway Badger store.
func newBadgerServices(t *testing.T) badgerServices {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	messageRepository, err := repositories.NewMessageRepository(db, log)
	req.NoError(err)
	t.Cleanup(func() {
		_ = messageRepository.Close()
		_ = db.Close()
	})

	clock := newFixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	monitoring := observability.NewMonitoringManager(log)
	participantRepository := repositories.NewParticipantRepository(db)
	messages := NewMessageService(log, messageRepository, participantRepository, clock, monitoring)
	presence := NewPresenceService(log, participantRepository, messages, clock, monitoring)
	return badgerServices{presence: presence, messages: messages, clock: clock}
}
