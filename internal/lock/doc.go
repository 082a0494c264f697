// Package lock implements the acquire and release protocols at the heart
// of slig.
//
// Clients never talk to each other. All coordination happens through the
// shared remote repository: a client clones the latest state, checks its
// precondition against that snapshot, expresses the state transition as
// exactly one commit, and pushes. The remote's atomic ref update is the
// single serialization point: a push is accepted only if the local history
// is a direct descendant of the remote tip.
//
// A rejected push is ambiguous: the remote may have advanced with unrelated
// history (another lock, a registry change), or another client may have
// claimed the same lock. The resolver disambiguates by rebasing the local
// commit onto the new tip: a clean replay means the rejection was only
// staleness and the protocol restarts from its precondition check; a
// content collision on the same marker file means the race was lost.
//
// Lock state is encoded in marker files at the repository root. A simple
// lock is a single file named after the lock whose content is the holder's
// token. A readers-writer lock adds <name>.read.<token> files for read
// claims; while any of those exist the write marker holds the sentinel
// value READ so no writer can claim the slot.
//
// Claims never expire. An abandoned claim stays held until released with
// its token or force-released.
package lock
