package lock

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/slig-dev/slig/internal/errors"
)

// fakeRemote is an in-memory stand-in for the shared remote: a versioned
// file map whose pushes succeed only when based on the current version,
// mirroring git's atomic ref update.
type fakeRemote struct {
	mu      sync.Mutex
	version int
	files   map[string]string
}

func newFakeRemote(files map[string]string) *fakeRemote {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeRemote{files: files}
}

func (r *fakeRemote) snapshot() (int, map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version, copyFiles(r.files)
}

// content returns the trimmed content of a remote file, or "" when absent
func (r *fakeRemote) content(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return trimmed(r.files[name])
}

func (r *fakeRemote) exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.files[name]
	return ok
}

func (r *fakeRemote) currentVersion() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// fakeTransport materializes fakeRemote snapshots into real temporary
// directories so the protocol's filesystem code runs unchanged.
type fakeTransport struct {
	t      *testing.T
	remote *fakeRemote

	// afterClone simulates remote activity that postdates the clone
	afterClone func()

	// beforePush runs before each push attempt, 1-based
	beforePush func(attempt int)
}

func newFakeTransport(t *testing.T, remote *fakeRemote) *fakeTransport {
	return &fakeTransport{t: t, remote: remote}
}

func (ft *fakeTransport) CloneLatest(ctx context.Context) (WorkingCopy, error) {
	dir, err := os.MkdirTemp("", "slig-fake-")
	if err != nil {
		return nil, err
	}

	version, files := ft.remote.snapshot()
	wc := &fakeWorkingCopy{
		transport:   ft,
		dir:         dir,
		baseVersion: version,
		base:        files,
	}
	if err := materialize(dir, files); err != nil {
		return nil, err
	}

	if ft.afterClone != nil {
		ft.afterClone()
	}
	return wc, nil
}

type fakeWorkingCopy struct {
	transport   *fakeTransport
	dir         string
	baseVersion int
	base        map[string]string
	committed   map[string]string
	pushes      int
}

func (wc *fakeWorkingCopy) Root() string { return wc.dir }

func (wc *fakeWorkingCopy) Commit(ctx context.Context, message string) error {
	files, err := snapshotDir(wc.dir)
	if err != nil {
		return err
	}
	wc.committed = files
	return nil
}

func (wc *fakeWorkingCopy) Push(ctx context.Context) error {
	if wc.committed == nil {
		return errors.New("nothing committed")
	}

	wc.pushes++
	if wc.transport.beforePush != nil {
		wc.transport.beforePush(wc.pushes)
	}

	remote := wc.transport.remote
	remote.mu.Lock()
	defer remote.mu.Unlock()

	if remote.version != wc.baseVersion {
		return errors.Wrap(errors.ErrPushRejected, "remote has advanced")
	}

	remote.files = copyFiles(wc.committed)
	remote.version++
	wc.baseVersion = remote.version
	return nil
}

func (wc *fakeWorkingCopy) RebaseOntoRemote(ctx context.Context) (bool, error) {
	remote := wc.transport.remote
	remote.mu.Lock()
	defer remote.mu.Unlock()

	ours := changedFiles(wc.base, wc.committed)
	theirs := changedFiles(wc.base, remote.files)
	for name := range ours {
		if _, clash := theirs[name]; clash {
			return true, nil
		}
	}
	return false, nil
}

func (wc *fakeWorkingCopy) ResetToRemote(ctx context.Context) error {
	version, files := wc.transport.remote.snapshot()
	wc.baseVersion = version
	wc.base = files
	wc.committed = nil
	return materialize(wc.dir, files)
}

func (wc *fakeWorkingCopy) Close() error {
	return os.RemoveAll(wc.dir)
}

// materialize makes dir contain exactly the given files
func materialize(dir string, files map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// snapshotDir reads all top-level regular files of dir into a map
func snapshotDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files[entry.Name()] = string(data)
	}
	return files, nil
}

// changedFiles returns the set of names added, removed, or modified
// between two trees.
func changedFiles(before, after map[string]string) map[string]struct{} {
	changed := map[string]struct{}{}
	for name, content := range after {
		if old, ok := before[name]; !ok || old != content {
			changed[name] = struct{}{}
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changed[name] = struct{}{}
		}
	}
	return changed
}

func copyFiles(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for name, content := range files {
		out[name] = content
	}
	return out
}
