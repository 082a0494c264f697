// Package git implements the repository transport by shelling out to the
// git binary.
//
// A Client is bound to one remote address and produces ephemeral working
// copies: each CloneLatest clones the remote into a fresh temporary
// directory, and the resulting Repo exposes the narrow surface the lock
// protocol needs: Commit, Push, RebaseOntoRemote, ResetToRemote, Close.
//
// Push converts git's binary accept/reject signal into a typed outcome: a
// non-fast-forward rejection becomes errors.ErrPushRejected, everything else
// stays an opaque transport error. RebaseOntoRemote similarly distinguishes
// a clean replay from a content collision on the same file, which is the
// signal the protocol layer uses to tell unrelated concurrent activity from
// real lock contention.
//
// Commands are run through the CommandExecutor interface so tests can
// substitute a mock; git's own stderr is mirrored to the process stderr
// verbatim. Commit identity and authentication are whatever the user's git
// configuration provides; extra per-invocation settings can be injected
// with SLIG_GIT_OPTIONS (e.g. -c user.name=ci).
package git
