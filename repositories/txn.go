package repositories

import (
	stderrors "errors"
	"math/rand/v2"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const maxUpdateAttempts = 50

// updateWithRetry runs fn in a read-write transaction and starts over on a
// fresh snapshot when Badger aborts the commit with ErrConflict, i.e. when a
// concurrent transaction wrote a key fn had read. fn must re-read what it
// depends on, so that a key deleted in between is reported as missing.
func updateWithRetry(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		if err = db.Update(fn); !stderrors.Is(err, badger.ErrConflict) {
			return err
		}
		// Jitter spreads the retries of writers that collided on the same key
		time.Sleep(time.Duration(rand.IntN(attempt*100)+1) * time.Microsecond)
	}
	return err
}
