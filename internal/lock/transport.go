package lock

import "context"

// WorkingCopy is one ephemeral checkout of the shared repository, owned by
// a single protocol invocation.
type WorkingCopy interface {
	// Root returns the directory the checkout lives in
	Root() string

	// Commit records the current tree state as exactly one commit
	Commit(ctx context.Context, message string) error

	// Push publishes local commits. It returns errors.ErrPushRejected when
	// the remote tip advanced past the local history; any other failure is
	// an opaque transport error.
	Push(ctx context.Context) error

	// RebaseOntoRemote replays local commits onto the current remote tip.
	// conflict reports a content collision with a remote change to the same
	// file; the local commit survives in either case.
	RebaseOntoRemote(ctx context.Context) (conflict bool, err error)

	// ResetToRemote discards all local commits and matches the remote tip
	ResetToRemote(ctx context.Context) error

	// Close removes the checkout (best-effort)
	Close() error
}

// Transport produces fresh working copies of the shared repository. It is
// the only capability the protocol needs from the underlying store: an
// atomic compare-and-swap on a named ref with mergeable history.
type Transport interface {
	CloneLatest(ctx context.Context) (WorkingCopy, error)
}

// TransportFunc adapts a clone function to the Transport interface
type TransportFunc func(ctx context.Context) (WorkingCopy, error)

// CloneLatest implements Transport
func (f TransportFunc) CloneLatest(ctx context.Context) (WorkingCopy, error) {
	return f(ctx)
}
