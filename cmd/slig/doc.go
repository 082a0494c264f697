// Command slig manages distributed locks whose only backing store is a
// shared git remote.
//
// Every operation clones the remote into a fresh temporary directory,
// inspects or mutates marker files, commits, and pushes; git's atomic ref
// update arbitrates races between clients. The remote address comes from
// SLIG_GIT_REPO.
//
// On a successful acquire the claim token is printed to standard output and
// the process exits 0; on any failure a diagnostic goes to standard error
// and the process exits 1. Standard output carries nothing but protocol
// results, so the tool composes in scripts:
//
//	token=$(slig acquire build) || exit 1
//	...
//	slig release build --uuid "$token"
package main
