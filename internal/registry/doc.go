// Package registry manages the versioned lock declarations stored inside the
// shared repository.
//
// Declarations live in slig.ini at the repository root, versioned alongside
// the lock state it governs:
//
//	[locks]
//	build = simple
//	deploy = readers-writer
//
//	[metadata]
//	version = 1.0
//
// A lock name is claimable only if it appears in this record. The record is
// mutated only by the administrative commands (repo init/upgrade, locks
// add/delete/set), never by acquire or release.
package registry
