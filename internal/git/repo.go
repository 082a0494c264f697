package git

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/slig-dev/slig/internal/common"
	"github.com/slig-dev/slig/internal/errors"
)

// Client produces ephemeral working copies of a single shared remote.
type Client struct {
	remote   string
	options  []string
	executor CommandExecutor
	logger   common.Logger

	// gitStderr receives git's own diagnostics verbatim
	gitStderr io.Writer
}

// NewClient creates a Client for the given remote with default dependencies
func NewClient(remote string, options []string, logger common.Logger) *Client {
	return NewClientWithDeps(remote, options, logger, NewExecExecutor(), os.Stderr)
}

// NewClientWithDeps creates a Client with custom dependencies
func NewClientWithDeps(remote string, options []string, logger common.Logger, executor CommandExecutor, gitStderr io.Writer) *Client {
	return &Client{
		remote:    remote,
		options:   options,
		executor:  executor,
		logger:    logger,
		gitStderr: gitStderr,
	}
}

// IsAvailable checks that the git binary can be found in PATH
func IsAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// CloneLatest clones the remote into a freshly created temporary directory
// and returns the working copy rooted there.
func (c *Client) CloneLatest(ctx context.Context) (*Repo, error) {
	parent, err := os.MkdirTemp("", "slig-")
	if err != nil {
		return nil, errors.Wrap(err, "cannot create working copy directory")
	}

	cmd := c.command(ctx, parent, "clone", c.remote)
	if err := c.executor.Execute(cmd); err != nil {
		_ = os.RemoveAll(parent)
		return nil, errors.Wrapf(err, "cannot clone remote repository %q", c.remote)
	}

	// The checkout is the single directory git created under parent
	entries, err := os.ReadDir(parent)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		_ = os.RemoveAll(parent)
		return nil, errors.Errorf("cannot find cloned repository under %s", parent)
	}

	repo := &Repo{
		client: c,
		parent: parent,
		path:   filepath.Join(parent, entries[0].Name()),
	}
	c.logger.Info("Cloned %s into %s", c.remote, repo.path)
	return repo, nil
}

// command builds a git invocation with the client's extra options applied
func (c *Client) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	full := append(append([]string{}, c.options...), args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir
	cmd.Stderr = c.gitStderr
	return cmd
}

// Repo is one ephemeral checkout of the shared remote. It is owned by a
// single invocation and discarded with Close.
type Repo struct {
	client *Client
	parent string
	path   string
}

// Root returns the directory the checkout lives in
func (r *Repo) Root() string {
	return r.path
}

// Commit stages the whole tree and records it as a single commit
func (r *Repo) Commit(ctx context.Context, message string) error {
	if err := r.run(ctx, "add", "--all"); err != nil {
		return err
	}
	return r.run(ctx, "commit", "-m", message)
}

// Push publishes local commits. A rejection caused by the remote tip having
// advanced is reported as errors.ErrPushRejected; everything else surfaces
// as a transport error.
func (r *Repo) Push(ctx context.Context) error {
	err := r.run(ctx, "push")
	if err == nil {
		return nil
	}

	var gitErr *errors.GitError
	if errors.As(err, &gitErr) && isRejectedPush(gitErr.Output) {
		return errors.Wrap(errors.ErrPushRejected, "remote has advanced")
	}
	return err
}

// RebaseOntoRemote replays local commits onto the current remote tip.
// conflict reports whether the replay collided with a remote change to the
// same file; the rebase is aborted before returning in that case, leaving
// the local commit intact.
func (r *Repo) RebaseOntoRemote(ctx context.Context) (conflict bool, err error) {
	output, err := r.runWithOutput(ctx, "pull", "--rebase")
	if err == nil {
		return false, nil
	}

	var gitErr *errors.GitError
	if errors.As(err, &gitErr) && isRebaseConflict(output+gitErr.Output) {
		if abortErr := r.run(ctx, "rebase", "--abort"); abortErr != nil {
			r.client.logger.Warning("Failed to abort conflicted rebase: %v", abortErr)
		}
		return true, nil
	}
	return false, err
}

// ResetToRemote discards all local commits and matches the upstream tip
func (r *Repo) ResetToRemote(ctx context.Context) error {
	return r.run(ctx, "reset", "--hard", "@{upstream}")
}

// Close removes the working copy. Removal is best-effort; a leftover
// directory is harmless since every invocation clones afresh.
func (r *Repo) Close() error {
	return os.RemoveAll(r.parent)
}

func (r *Repo) run(ctx context.Context, args ...string) error {
	return r.client.executor.Execute(r.client.command(ctx, r.path, args...))
}

func (r *Repo) runWithOutput(ctx context.Context, args ...string) (string, error) {
	return r.client.executor.ExecuteWithOutput(r.client.command(ctx, r.path, args...))
}

// isRejectedPush recognizes the non-fast-forward rejection git prints when
// the remote tip moved past the pushed history.
func isRejectedPush(output string) bool {
	for _, marker := range []string{"[rejected]", "non-fast-forward", "fetch first"} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

// isRebaseConflict recognizes a content collision while replaying the local
// commit onto the new remote tip.
func isRebaseConflict(output string) bool {
	for _, marker := range []string{"CONFLICT", "could not apply", "Merge conflict"} {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}
