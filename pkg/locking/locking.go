// Package locking provides process-wide mutual exclusion keyed by
// canonical root path. Two independently constructed container handles
// over the same path share one lock, so their operations serialize even
// though the handles know nothing about each other.
package locking

import (
	"sync"
)

// pathLocks is the process-wide lock table. Entries are created on first
// use and never removed; a mutex is small and the set of distinct root
// paths in one process stays bounded.
var pathLocks = struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: make(map[string]*sync.Mutex),
}

// ForPath returns the lock guarding the container rooted at the given
// canonical path. Callers must canonicalize the path first (see
// paths.Canonicalize); the table matches by exact string.
func ForPath(canonical string) *sync.Mutex {
	pathLocks.mu.Lock()
	defer pathLocks.mu.Unlock()

	if l, ok := pathLocks.locks[canonical]; ok {
		return l
	}
	l := &sync.Mutex{}
	pathLocks.locks[canonical] = l
	return l
}
