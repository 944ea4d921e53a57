package repositories

import (
	stderrors "errors"
	"fmt"
	"presence-chat/errors"
)

// storeError lets domain errors through and tags everything else as a storage failure.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrParticipantAlreadyExists),
		stderrors.Is(err, errors.ErrParticipantNotFound),
		stderrors.Is(err, errors.ErrMessageNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
}
