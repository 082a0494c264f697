package lock

import (
	"context"
	"fmt"
	"os"

	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
)

// Acquire claims the named lock in the given mode and returns the token
// that proves ownership.
//
// The precondition is checked against a fresh clone and re-checked after
// every stale push, because an accepted remote commit may have claimed the
// lock in the meantime. A genuine conflict on the marker file means another
// client won the race and surfaces as ErrAcquiredByOthers; the token is
// returned only after a push has actually been accepted.
func (m *Manager) Acquire(ctx context.Context, name string, mode Mode) (string, error) {
	token := m.newToken()
	conflictErr := errors.NewLockError(name, "", errors.ErrAcquiredByOthers)

	err := m.pushUpdate(ctx, conflictErr, func(root string) (string, error) {
		kind, err := declaredKind(root, name)
		if err != nil {
			return "", err
		}
		if err := checkMode(name, kind, mode); err != nil {
			return "", err
		}

		st, err := readLockState(root, name)
		if err != nil {
			return "", err
		}

		if mode == ModeRead {
			return applyReadAcquire(root, name, st, token)
		}
		return applyWriteAcquire(root, name, st, token)
	})
	if err != nil {
		return "", err
	}

	m.logger.Success("Acquired %s claim on %s", mode, name)
	return token, nil
}

// applyWriteAcquire takes exclusive ownership: the marker slot must be free
// and no read claims may exist.
func applyWriteAcquire(root, name string, st lockState, token string) (string, error) {
	if st.markerExists || st.hasReaders() {
		return "", errors.NewLockError(name, "", errors.ErrLockAlreadyHeld)
	}

	if err := os.WriteFile(markerPath(root, name), []byte(token+"\n"), 0644); err != nil {
		return "", errors.Wrapf(err, "cannot write marker for lock %s", name)
	}
	return fmt.Sprintf("acquire lock %s: %s", name, token), nil
}

// applyReadAcquire adds a shared claim. Any marker content other than the
// read sentinel means an active writer and blocks the claim; the first
// reader installs the sentinel to block future writers.
func applyReadAcquire(root, name string, st lockState, token string) (string, error) {
	if st.markerExists && !st.sentinelActive() {
		return "", errors.NewLockError(name, "", errors.ErrLockAlreadyHeld)
	}

	if err := os.WriteFile(readClaimPath(root, name, token), []byte(token+"\n"), 0644); err != nil {
		return "", errors.Wrapf(err, "cannot write read claim for lock %s", name)
	}
	if !st.sentinelActive() {
		if err := os.WriteFile(markerPath(root, name), []byte(constants.ReadSentinel+"\n"), 0644); err != nil {
			return "", errors.Wrapf(err, "cannot write sentinel for lock %s", name)
		}
	}
	return fmt.Sprintf("acquire read lock %s: %s", name, token), nil
}
