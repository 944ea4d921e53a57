//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"presence-chat/domain"
	"presence-chat/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const ParticipantPrefix = "participant:"

type IParticipantRepository interface {
	CreateParticipant(participant domain.Participant) error
	GetParticipant(name string) (domain.Participant, error)
	TouchParticipant(name string, at time.Time) error
	ListParticipants() ([]domain.Participant, error)
	DeleteParticipant(name string) error
}

type ParticipantRepository struct {
	db *badger.DB
}

func NewParticipantRepository(db *badger.DB) IParticipantRepository {
	return &ParticipantRepository{db: db}
}

// DiskParticipant is the stored form of a participant.
type DiskParticipant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastSeen int64  `json:"last_seen"`
}

func participantKey(name string) []byte {
	return []byte(ParticipantPrefix + name)
}

// CreateParticipant inserts the participant unless its name is already taken.
// The read and the write share one transaction: when two registrations race on
// the same name, Badger aborts the second commit with ErrConflict.
func (r ParticipantRepository) CreateParticipant(participant domain.Participant) error {
	data, err := json.Marshal(fromParticipant(participant))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := participantKey(participant.Name)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return errors.ErrParticipantAlreadyExists
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrParticipantAlreadyExists
	}
	return storeError(err)
}

func (r ParticipantRepository) GetParticipant(name string) (domain.Participant, error) {
	var participant domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		p, err := readParticipant(txn, name)
		participant = p
		return err
	})
	return participant, storeError(err)
}

// TouchParticipant records a heartbeat. LastSeen never moves backwards.
// Concurrent heartbeats of the same participant are retried, not rejected.
func (r ParticipantRepository) TouchParticipant(name string, at time.Time) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		participant, err := readParticipant(txn, name)
		if err != nil {
			return err
		}
		if at.After(participant.LastSeen) {
			participant.LastSeen = at
		}
		data, err := json.Marshal(fromParticipant(participant))
		if err != nil {
			return err
		}
		return txn.Set(participantKey(name), data)
	})
	return storeError(err)
}

func (r ParticipantRepository) ListParticipants() ([]domain.Participant, error) {
	participants := make([]domain.Participant, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(ParticipantPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				participant, err := decodeParticipant(val)
				if err != nil {
					return err
				}
				participants = append(participants, participant)
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
	return participants, nil
}

// DeleteParticipant removes the participant and reports ErrParticipantNotFound
// when it was already gone, so that a departure is only announced once.
// It is not retried: a conflict means the key was written meanwhile, by another
// eviction or by a heartbeat, and in both cases the participant must be left alone.
func (r ParticipantRepository) DeleteParticipant(name string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := participantKey(name)
		if _, err := txn.Get(key); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrParticipantNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrParticipantNotFound
	}
	return storeError(err)
}

func readParticipant(txn *badger.Txn, name string) (domain.Participant, error) {
	item, err := txn.Get(participantKey(name))
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Participant{}, errors.ErrParticipantNotFound
		}
		return domain.Participant{}, err
	}
	var participant domain.Participant
	err = item.Value(func(val []byte) error {
		participant, err = decodeParticipant(val)
		return err
	})
	return participant, err
}

func decodeParticipant(val []byte) (domain.Participant, error) {
	var disk DiskParticipant
	if err := json.Unmarshal(val, &disk); err != nil {
		return domain.Participant{}, fmt.Errorf("unmarshal failed: %w", err)
	}
	return toParticipant(disk)
}

func fromParticipant(participant domain.Participant) DiskParticipant {
	return DiskParticipant{
		ID:       participant.ID.String(),
		Name:     participant.Name,
		LastSeen: participant.LastSeen.UnixNano(),
	}
}

func toParticipant(disk DiskParticipant) (domain.Participant, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Participant{}, err
	}
	return domain.Participant{
		ID:       parsedID,
		Name:     disk.Name,
		LastSeen: time.Unix(0, disk.LastSeen),
	}, nil
}
