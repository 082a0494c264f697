package lock

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/slig-dev/slig/internal/common"
	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
	"github.com/slig-dev/slig/internal/registry"
)

// Manager runs the lock protocols and the administrative registry
// operations against one shared remote. It holds no state between calls;
// every operation works on a fresh clone.
type Manager struct {
	transport Transport
	logger    common.Logger
	newToken  func() string
}

// NewManager creates a Manager with default dependencies
func NewManager(transport Transport, logger common.Logger) *Manager {
	return NewManagerWithTokenSource(transport, logger, uuid.NewString)
}

// NewManagerWithTokenSource creates a Manager with a custom token source
func NewManagerWithTokenSource(transport Transport, logger common.Logger, tokenSource func() string) *Manager {
	return &Manager{
		transport: transport,
		logger:    logger,
		newToken:  tokenSource,
	}
}

// pushUpdate clones the remote and repeatedly applies mutate against the
// current tip until the resulting commit is accepted, the resolver reports
// a genuine conflict (returned as conflictErr), or mutate itself fails.
//
// mutate re-runs its precondition check on every attempt, because a stale
// rejection means the tip it validated against is gone. The loop has no
// iteration bound: each pass either wins the push or observes someone
// else's accepted commit.
func (m *Manager) pushUpdate(ctx context.Context, conflictErr error, mutate func(root string) (string, error)) error {
	wc, err := m.transport.CloneLatest(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil {
			m.logger.Warning("Failed to remove working copy: %v", cerr)
		}
	}()

	for attempt := 1; ; attempt++ {
		message, err := mutate(wc.Root())
		if err != nil {
			return err
		}

		if err := wc.Commit(ctx, message); err != nil {
			return err
		}

		err = wc.Push(ctx)
		if err == nil {
			if attempt > 1 {
				m.logger.Info("Push accepted on attempt %d", attempt)
			}
			return nil
		}
		if !errors.Is(err, errors.ErrPushRejected) {
			return err
		}

		res, err := resolveRejectedPush(ctx, wc)
		if err != nil {
			return err
		}
		if res == genuineConflict {
			m.logger.Info("Push attempt %d lost the race", attempt)
			return conflictErr
		}
		m.logger.Info("Stale push on attempt %d, restarting against the new remote tip", attempt)
	}
}

// InitRepo creates the registry record in the remote repository
func (m *Manager) InitRepo(ctx context.Context) error {
	conflictErr := errors.Wrap(errors.ErrAlreadyInitialized, "registry record created concurrently")
	err := m.pushUpdate(ctx, conflictErr, func(root string) (string, error) {
		if _, err := registry.Create(root); err != nil {
			return "", err
		}
		return "initialize slig repository", nil
	})
	if err != nil {
		return err
	}

	m.logger.Success("Initialized repository at schema version %s", constants.SchemaVersion)
	return nil
}

// UpgradeRepo rewrites the registry record at the current schema version
func (m *Manager) UpgradeRepo(ctx context.Context) error {
	err := m.pushUpdate(ctx, adminConflictErr(), func(root string) (string, error) {
		reg, err := registry.Load(root)
		if err != nil {
			return "", err
		}
		reg.SetVersion(constants.SchemaVersion)
		if err := reg.Save(); err != nil {
			return "", err
		}
		return fmt.Sprintf("upgrade slig repository to schema %s", constants.SchemaVersion), nil
	})
	if err != nil {
		return err
	}

	m.logger.Success("Upgraded repository to schema version %s", constants.SchemaVersion)
	return nil
}

// AddLock declares a new lock in the registry
func (m *Manager) AddLock(ctx context.Context, name string, kind registry.Kind) error {
	err := m.pushUpdate(ctx, adminConflictErr(), func(root string) (string, error) {
		reg, err := registry.Load(root)
		if err != nil {
			return "", err
		}
		if err := reg.Add(name, kind); err != nil {
			return "", err
		}
		if err := reg.Save(); err != nil {
			return "", err
		}
		return fmt.Sprintf("add %s lock: %s", kind, name), nil
	})
	if err != nil {
		return err
	}

	m.logger.Success("Added %s lock %s", kind, name)
	return nil
}

// DeleteLock removes a lock declaration. It refuses while the lock is held,
// so a registry entry can never disappear out from under an active claim.
func (m *Manager) DeleteLock(ctx context.Context, name string) error {
	err := m.pushUpdate(ctx, adminConflictErr(), func(root string) (string, error) {
		reg, err := registry.Load(root)
		if err != nil {
			return "", err
		}
		if _, ok := reg.Lookup(name); !ok {
			return "", errors.NewLockError(name, "", errors.ErrLockNotDeclared)
		}

		st, err := readLockState(root, name)
		if err != nil {
			return "", err
		}
		if st.markerExists || st.hasReaders() {
			return "", errors.NewLockError(name, "",
				errors.Wrap(errors.ErrLockAlreadyHeld, "release it before removing"))
		}

		if err := reg.Delete(name); err != nil {
			return "", err
		}
		if err := reg.Save(); err != nil {
			return "", err
		}
		return fmt.Sprintf("remove lock: %s", name), nil
	})
	if err != nil {
		return err
	}

	m.logger.Success("Removed lock %s", name)
	return nil
}

// SetLockKind changes the declared kind of an existing lock. Like
// DeleteLock it refuses while the lock is held.
func (m *Manager) SetLockKind(ctx context.Context, name string, kind registry.Kind) error {
	err := m.pushUpdate(ctx, adminConflictErr(), func(root string) (string, error) {
		reg, err := registry.Load(root)
		if err != nil {
			return "", err
		}
		if _, ok := reg.Lookup(name); !ok {
			return "", errors.NewLockError(name, "", errors.ErrLockNotDeclared)
		}

		st, err := readLockState(root, name)
		if err != nil {
			return "", err
		}
		if st.markerExists || st.hasReaders() {
			return "", errors.NewLockError(name, "",
				errors.Wrap(errors.ErrLockAlreadyHeld, "release it before changing its kind"))
		}

		if err := reg.Set(name, kind); err != nil {
			return "", err
		}
		if err := reg.Save(); err != nil {
			return "", err
		}
		return fmt.Sprintf("set lock %s kind: %s", name, kind), nil
	})
	if err != nil {
		return err
	}

	m.logger.Success("Set lock %s kind to %s", name, kind)
	return nil
}

// ListLocks returns the declared locks from a fresh clone
func (m *Manager) ListLocks(ctx context.Context) ([]registry.Definition, error) {
	wc, err := m.transport.CloneLatest(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil {
			m.logger.Warning("Failed to remove working copy: %v", cerr)
		}
	}()

	reg, err := registry.Load(wc.Root())
	if err != nil {
		return nil, err
	}
	return reg.List(), nil
}

// adminConflictErr is returned when a registry mutation loses a push race.
// Two racing admins are not lock contention; the caller simply retries.
func adminConflictErr() error {
	return errors.Wrap(errors.ErrGitOperationFailed, "registry record changed concurrently, try again")
}
