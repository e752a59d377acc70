// Package flock provides cross-platform file locking utilities.
//
// grove uses an advisory lock file next to the database to keep a second
// grove process from interleaving multi-statement operations (moves,
// cascading deletes, YAML imports) with another writer. Locks are
// exclusive and non-blocking on both Unix and Windows.
//
// Usage:
//
//	guard, err := flock.Acquire(lockPath)
//	if err != nil {
//	    // Lock not acquired - another grove process is running
//	}
//	defer guard.Release()
package flock
