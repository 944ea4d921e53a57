//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"presence-chat/domain"
	"presence-chat/errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	MessagePrefix      = "msg:"
	MessageIndexPrefix = "msgid:"
	messageSequenceKey = "seq:msg"
	sequenceBandwidth  = 100
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id uuid.UUID) (domain.Message, error)
	UpdateMessage(message domain.Message) error
	DeleteMessage(id uuid.UUID) error
	GetMessages(filter func(domain.Message) bool, limit int) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
	seq *badger.Sequence
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte(messageSequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, log: log, seq: seq}, nil
}

// Close hands the leased sequence range back to Badger.
func (m *MessageRepository) Close() error {
	return m.seq.Release()
}

type DiskMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Kind      string `json:"type"`
	Time      string `json:"time"`
	CreatedAt int64  `json:"created_at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{sequence}" with 20-digit zero padding so that a
// lexicographical scan returns messages in creation order, even when two of them
// share the same timestamp. A "msgid:{uuid}" index points back to that key.
func (m *MessageRepository) StoreMessage(message domain.Message) error {
	next, err := m.seq.Next()
	if err != nil {
		return storeError(err)
	}
	key := []byte(fmt.Sprintf("%s%020d", MessagePrefix, next))
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(messageIndexKey(message.ID), key)
	})
	return storeError(err)
}

func (m *MessageRepository) GetMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		_, msg, err := readMessage(txn, id)
		message = msg
		return err
	})
	return message, storeError(err)
}

// UpdateMessage overwrites the stored message in place, keeping its position in the log.
// Concurrent edits of the same message are applied one after the other, last one wins.
func (m *MessageRepository) UpdateMessage(message domain.Message) error {
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = updateWithRetry(m.db, func(txn *badger.Txn) error {
		key, _, err := readMessage(txn, message.ID)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	return storeError(err)
}

func (m *MessageRepository) DeleteMessage(id uuid.UUID) error {
	err := updateWithRetry(m.db, func(txn *badger.Txn) error {
		key, _, err := readMessage(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIndexKey(id))
	})
	return storeError(err)
}

// GetMessages walks the log from the newest message backwards, keeping those
// accepted by filter, and stops once limit of them are found (limit <= 0 keeps all).
// The result is returned oldest first.
func (m *MessageRepository) GetMessages(filter func(domain.Message) bool, limit int) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MessagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// 0xFF sorts after every digit: the first key visited is the newest message.
		seekKey := append([]byte(MessagePrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				break
			}
			err := it.Item().Value(func(val []byte) error {
				message, err := decodeMessage(val)
				if err != nil {
					return err
				}
				if filter == nil || filter(message) {
					messages = append(messages, message)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	slices.Reverse(messages)
	return messages, nil
}

func messageIndexKey(id uuid.UUID) []byte {
	return []byte(MessageIndexPrefix + id.String())
}

// readMessage resolves the index entry of id and returns the primary key with the message.
func readMessage(txn *badger.Txn, id uuid.UUID) ([]byte, domain.Message, error) {
	indexItem, err := txn.Get(messageIndexKey(id))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.Message{}, errors.ErrMessageNotFound
		}
		return nil, domain.Message{}, err
	}
	key, err := indexItem.ValueCopy(nil)
	if err != nil {
		return nil, domain.Message{}, err
	}
	item, err := txn.Get(key)
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.Message{}, errors.ErrMessageNotFound
		}
		return nil, domain.Message{}, err
	}
	var message domain.Message
	err = item.Value(func(val []byte) error {
		message, err = decodeMessage(val)
		return err
	})
	return key, message, err
}

func decodeMessage(val []byte) (domain.Message, error) {
	var disk DiskMessage
	if err := json.Unmarshal(val, &disk); err != nil {
		return domain.Message{}, fmt.Errorf("unmarshal failed: %w", err)
	}
	return toMessage(disk)
}

func fromMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:        message.ID.String(),
		From:      message.From,
		To:        message.To,
		Text:      message.Text,
		Kind:      string(message.Kind),
		Time:      message.Time,
		CreatedAt: message.CreatedAt.UnixNano(),
	}
}

func toMessage(disk DiskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		From:      disk.From,
		To:        disk.To,
		Text:      disk.Text,
		Kind:      domain.Kind(disk.Kind),
		Time:      disk.Time,
		CreatedAt: time.Unix(0, disk.CreatedAt),
	}, nil
}
