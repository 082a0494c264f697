package lock

import (
	"context"
	"fmt"
	"os"

	"github.com/slig-dev/slig/internal/errors"
)

// Release removes a claim on the named lock.
//
// Normal release requires the token recorded at acquire time; force skips
// token verification but still requires the claim to exist. A genuine
// conflict after a matching precondition can only mean the claim invariants
// were broken out-of-protocol, so it surfaces as ErrSetupCorrupted rather
// than a contention error and is not retried.
func (m *Manager) Release(ctx context.Context, name string, mode Mode, token string, force bool) error {
	conflictErr := errors.NewLockError(name, token, errors.ErrSetupCorrupted)

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
			return applyReadRelease(root, name, st, token, force)
		}
		return applyWriteRelease(root, name, st, token, force)
	})
	if err != nil {
		return err
	}

	m.logger.Success("Released %s claim on %s", mode, name)
	return nil
}

// applyWriteRelease clears the marker slot of a simple or write claim. A
// marker holding the read sentinel is not a write claim: the lock belongs
// to its readers.
func applyWriteRelease(root, name string, st lockState, token string, force bool) (string, error) {
	if !st.markerExists || st.sentinelActive() {
		return "", errors.NewLockError(name, token, errors.ErrLockNotHeld)
	}
	if !force && st.markerValue != token {
		return "", errors.NewLockError(name, token, errors.ErrTokenMismatch)
	}

	if err := os.Remove(markerPath(root, name)); err != nil {
		return "", errors.Wrapf(err, "cannot remove marker for lock %s", name)
	}
	return fmt.Sprintf("release lock %s", name), nil
}

// applyReadRelease removes one read claim, or with force and no token every
// read claim. The last departing reader clears the sentinel so the marker
// slot returns to free.
func applyReadRelease(root, name string, st lockState, token string, force bool) (string, error) {
	if !st.hasReaders() {
		return "", errors.NewLockError(name, token, errors.ErrLockNotHeld)
	}

	if force && token == "" {
		for _, t := range st.readTokens {
			if err := os.Remove(readClaimPath(root, name, t)); err != nil {
				return "", errors.Wrapf(err, "cannot remove read claim for lock %s", name)
			}
		}
		if err := clearSentinel(root, name, st); err != nil {
			return "", err
		}
		return fmt.Sprintf("force release read locks %s", name), nil
	}

	if !st.hasReadToken(token) {
		if force {
			return "", errors.NewLockError(name, token, errors.ErrLockNotHeld)
		}
		return "", errors.NewLockError(name, token, errors.ErrTokenMismatch)
	}

	if err := os.Remove(readClaimPath(root, name, token)); err != nil {
		return "", errors.Wrapf(err, "cannot remove read claim for lock %s", name)
	}
	if len(st.readTokens) == 1 {
		if err := clearSentinel(root, name, st); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("release read lock %s: %s", name, token), nil
}

// clearSentinel frees the marker slot once no readers remain. A marker
// holding anything other than the sentinel is left alone.
func clearSentinel(root, name string, st lockState) error {
	if !st.sentinelActive() {
		return nil
	}
	if err := os.Remove(markerPath(root, name)); err != nil {
		return errors.Wrapf(err, "cannot clear sentinel for lock %s", name)
	}
	return nil
}
