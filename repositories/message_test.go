package repositories

import (
	"fmt"
	"log/slog"
	"presence-chat/domain"
	"presence-chat/errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openMessageRepository(t *testing.T) *MessageRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	repository, err := NewMessageRepository(db, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repository.Close()
		_ = db.Close()
	})
	return repository
}

func newMessage(from, to, text string, at time.Time) domain.Message {
	return domain.NewMessage(from, domain.MessageDraft{To: to, Text: text, Kind: domain.KindPrivate}, at)
}

func texts(messages []domain.Message) []string {
	res := make([]string, 0, len(messages))
	for _, m := range messages {
		res = append(res, m.Text)
	}
	return res
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	// Same timestamp on purpose: creation order must still be preserved
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []domain.Message{
		newMessage("Alice", "Bob", "first", at),
		newMessage("Bob", "Alice", "second", at),
		newMessage("Clara", domain.BroadcastRecipient, "third", at),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Equal([]string{"first", "second", "third"}, texts(fetched))
	req.Equal(messages[1].ID, fetched[1].ID)
	req.Equal("Bob", fetched[1].From)
	req.Equal(domain.KindPrivate, fetched[1].Kind)
	req.Equal("12:00:00", fetched[1].Time)
	req.True(at.Equal(fetched[1].CreatedAt))
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	at := time.Now()
	for i, text := range []string{"a", "b", "c", "d", "e"} {
		to := "Bob"
		if i%2 == 0 {
			to = domain.BroadcastRecipient
		}
		req.NoError(repository.StoreMessage(newMessage("Alice", to, text, at.Add(time.Duration(i)*time.Second))))
	}

	broadcastOnly := func(m domain.Message) bool { return m.To == domain.BroadcastRecipient }

	fetched, err := repository.GetMessages(broadcastOnly, 2)
	req.NoError(err)
	req.Equal([]string{"c", "e"}, texts(fetched))

	fetched, err = repository.GetMessages(broadcastOnly, 10)
	req.NoError(err)
	req.Equal([]string{"a", "c", "e"}, texts(fetched))

	fetched, err = repository.GetMessages(nil, 2)
	req.NoError(err)
	req.Equal([]string{"d", "e"}, texts(fetched))
}

func Test_Empty_Log(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Empty(fetched)
}

func Test_Update_And_Delete_Message(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	at := time.Now()
	first := newMessage("Alice", "Bob", "hi", at)
	second := newMessage("Bob", "Alice", "hello", at.Add(time.Second))
	req.NoError(repository.StoreMessage(first))
	req.NoError(repository.StoreMessage(second))

	edited := first.Amend(domain.MessageDraft{To: domain.BroadcastRecipient, Text: "hi all", Kind: domain.KindBroadcast})
	req.NoError(repository.UpdateMessage(edited))

	got, err := repository.GetMessage(first.ID)
	req.NoError(err)
	req.Equal("hi all", got.Text)
	req.Equal(domain.BroadcastRecipient, got.To)
	req.Equal(domain.KindBroadcast, got.Kind)

	// An edited message keeps its place in the log
	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Equal([]string{"hi all", "hello"}, texts(fetched))

	req.NoError(repository.DeleteMessage(first.ID))
	_, err = repository.GetMessage(first.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
	req.ErrorIs(repository.DeleteMessage(first.ID), errors.ErrMessageNotFound)

	fetched, err = repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Equal([]string{"hello"}, texts(fetched))
}

func Test_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	_, err := repository.GetMessage(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
	req.ErrorIs(repository.UpdateMessage(newMessage("Alice", "Bob", "x", time.Now())), errors.ErrMessageNotFound)
}

func Test_Sequence_Survives_Reopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	repository, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	req.NoError(repository.StoreMessage(newMessage("Alice", "Bob", "before restart", time.Now())))
	req.NoError(repository.Close())
	req.NoError(db.Close())

	db, err = badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	repository, err = NewMessageRepository(db, slog.Default())
	req.NoError(err)
	defer repository.Close()
	req.NoError(repository.StoreMessage(newMessage("Alice", "Bob", "after restart", time.Now())))

	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Equal([]string{"before restart", "after restart"}, texts(fetched))
}

func Test_Concurrent_Edits_Of_Same_Message(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	original := newMessage("Alice", "Bob", "draft", time.Now())
	req.NoError(repository.StoreMessage(original))

	const edits = 50
	var wg sync.WaitGroup
	results := make(chan error, edits)
	for i := 0; i < edits; i++ {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			results <- repository.UpdateMessage(original.Amend(domain.MessageDraft{To: "Bob", Text: text, Kind: domain.KindPrivate}))
		}(fmt.Sprintf("edit %d", i))
	}
	wg.Wait()
	close(results)

	// An existing message is never reported missing because another edit won the race
	for err := range results {
		req.NoError(err)
	}

	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal(original.ID, fetched[0].ID)
	req.Contains(fetched[0].Text, "edit ")
}

func Test_Concurrent_Deletes_Of_Same_Message(t *testing.T) {
	req := require.New(t)
	repository := openMessageRepository(t)

	message := newMessage("Alice", "Bob", "bye", time.Now())
	req.NoError(repository.StoreMessage(message))

	const deletes = 20
	var wg sync.WaitGroup
	results := make(chan error, deletes)
	for i := 0; i < deletes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repository.DeleteMessage(message.ID)
		}()
	}
	wg.Wait()
	close(results)

	deleted := 0
	for err := range results {
		if err == nil {
			deleted++
			continue
		}
		req.ErrorIs(err, errors.ErrMessageNotFound)
	}
	req.Equal(1, deleted)

	fetched, err := repository.GetMessages(nil, 0)
	req.NoError(err)
	req.Empty(fetched)
}
