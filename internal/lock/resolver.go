package lock

import "context"

// resolution is the semantic meaning of a rejected push.
type resolution int

const (
	// staleRetry: the remote advanced with unrelated history; redo the
	// precondition check against the new tip and recommit
	staleRetry resolution = iota

	// genuineConflict: another client changed the same marker file and won
	// the race
	genuineConflict
)

// resolveRejectedPush converts the transport's binary push-reject signal
// into the semantic signal the protocols need. A clean rebase means the
// rejection was only staleness: the local commit is dropped and the working
// copy is left at the new remote tip, ready for a protocol restart. A
// content collision on the same marker file means real contention.
func resolveRejectedPush(ctx context.Context, wc WorkingCopy) (resolution, error) {
	conflict, err := wc.RebaseOntoRemote(ctx)
	if err != nil {
		return staleRetry, err
	}
	if conflict {
		return genuineConflict, nil
	}

	if err := wc.ResetToRemote(ctx); err != nil {
		return staleRetry, err
	}
	return staleRetry, nil
}
