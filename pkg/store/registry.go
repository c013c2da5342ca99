package store

import (
	"strings"
	"sync"
)

// handles is the process-wide registry of live container cores keyed by
// canonical root path. It exists so that (a) two opens of the same path
// share one core and therefore one set of caches, and (b) destroying or
// moving a tree can find every live handle underneath it.
//
// The registry mutex is a leaf lock: nothing acquires a root-path lock
// while holding it.
var handles = struct {
	mu sync.Mutex
	m  map[string]*coll
}{m: make(map[string]*coll)}

// lookupOrBuild returns the registered core for canon, building and
// registering a fresh one when absent. build runs with the registry
// mutex held, so concurrent opens of one path converge on a single core.
func lookupOrBuild(canon string, build func() (*coll, error)) (*coll, error) {
	handles.mu.Lock()
	defer handles.mu.Unlock()

	if c, ok := handles.m[canon]; ok {
		return c, nil
	}

	c, err := build()
	if err != nil {
		return nil, err
	}
	handles.m[canon] = c
	return c, nil
}

// invalidateTree invalidates the core registered at canon and every core
// registered beneath it, and drops them from the registry. Their handles
// keep existing but fail every subsequent operation with ErrInvalidated.
func invalidateTree(canon string) {
	handles.mu.Lock()
	defer handles.mu.Unlock()

	prefix := canon + "/"
	for p, c := range handles.m {
		if p == canon || strings.HasPrefix(p, prefix) {
			c.valid.Store(false)
			delete(handles.m, p)
		}
	}
}

