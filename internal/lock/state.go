package lock

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
	"github.com/slig-dev/slig/internal/registry"
)

// Mode selects which claim flavor an acquire or release operates on.
type Mode int

const (
	// ModeWrite claims exclusive ownership; the only mode simple locks have
	ModeWrite Mode = iota

	// ModeRead claims shared ownership of a readers-writer lock
	ModeRead
)

// String implements fmt.Stringer
func (m Mode) String() string {
	if m == ModeRead {
		return "read"
	}
	return "write"
}

// lockState is the decoded marker state for one lock inside a working copy.
//
// The write marker slot is the file named after the lock; it holds either a
// write-owner token or the read sentinel. Read claims are the files named
// <lock>.read.<token>.
type lockState struct {
	markerExists bool
	markerValue  string
	readTokens   []string
}

// sentinelActive reports whether the write marker holds the read sentinel
func (s lockState) sentinelActive() bool {
	return s.markerExists && s.markerValue == constants.ReadSentinel
}

// hasReaders reports whether any read claim exists
func (s lockState) hasReaders() bool {
	return len(s.readTokens) > 0
}

// hasReadToken reports whether a read claim with the given token exists
func (s lockState) hasReadToken(token string) bool {
	for _, t := range s.readTokens {
		if t == token {
			return true
		}
	}
	return false
}

// markerPath returns the write marker slot for a lock
func markerPath(root, name string) string {
	return filepath.Join(root, name)
}

// readClaimPath returns the read claim file for a token
func readClaimPath(root, name, token string) string {
	return filepath.Join(root, name+constants.ReadClaimSeparator+token)
}

// readLockState decodes the marker files for one lock from a working copy
func readLockState(root, name string) (lockState, error) {
	var st lockState

	data, err := os.ReadFile(markerPath(root, name))
	switch {
	case err == nil:
		st.markerExists = true
		st.markerValue = strings.TrimSpace(string(data))
	case os.IsNotExist(err):
		// free slot
	default:
		return st, errors.Wrapf(err, "cannot read marker for lock %s", name)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return st, errors.Wrap(err, "cannot scan working copy")
	}

	prefix := name + constants.ReadClaimSeparator
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if token, ok := strings.CutPrefix(entry.Name(), prefix); ok && token != "" {
			st.readTokens = append(st.readTokens, token)
		}
	}
	sort.Strings(st.readTokens)

	return st, nil
}

// declaredKind looks a lock name up in the registry record of a working copy
func declaredKind(root, name string) (registry.Kind, error) {
	reg, err := registry.Load(root)
	if err != nil {
		return "", err
	}

	kind, ok := reg.Lookup(name)
	if !ok {
		return "", errors.NewLockError(name, "", errors.ErrLockNotDeclared)
	}
	return kind, nil
}

// checkMode rejects mode/kind combinations that make no sense before any
// state is inspected.
func checkMode(name string, kind registry.Kind, mode Mode) error {
	if mode == ModeRead && kind != registry.KindReadersWriter {
		return errors.NewConfigError("mode", mode.String(),
			errors.Wrapf(errors.ErrInvalidConfiguration, "lock %s is a %s lock", name, kind))
	}
	return nil
}
