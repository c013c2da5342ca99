package store

// presenceCache tracks per-container membership knowledge: keys confirmed
// present on disk and keys confirmed absent. A key lives in at most one
// side at a time; a key in neither has unknown status and must be
// resolved against the backend.
//
// Both sides are bounded. At capacity an arbitrary existing entry is
// evicted before insert; correctness never depends on what is cached,
// only on never caching something false.
type presenceCache struct {
	present    map[string]struct{}
	absent     map[string]struct{}
	presentCap int
	absentCap  int
}

func newPresenceCache(presentCap, absentCap int) *presenceCache {
	return &presenceCache{
		present:    make(map[string]struct{}),
		absent:     make(map[string]struct{}),
		presentCap: presentCap,
		absentCap:  absentCap,
	}
}

// markPresent records that canon has a backing entry. It always removes
// canon from the absent side, even when the present side is full or
// disabled.
func (p *presenceCache) markPresent(canon string) {
	delete(p.absent, canon)
	if p.presentCap == 0 {
		return
	}
	if _, ok := p.present[canon]; ok {
		return
	}
	if len(p.present) >= p.presentCap {
		evictOne(p.present)
	}
	p.present[canon] = struct{}{}
}

// markAbsent records that canon has no backing entry.
func (p *presenceCache) markAbsent(canon string) {
	delete(p.present, canon)
	if p.absentCap == 0 {
		return
	}
	if _, ok := p.absent[canon]; ok {
		return
	}
	if len(p.absent) >= p.absentCap {
		evictOne(p.absent)
	}
	p.absent[canon] = struct{}{}
}

func (p *presenceCache) isPresent(canon string) bool {
	_, ok := p.present[canon]
	return ok
}

func (p *presenceCache) isAbsent(canon string) bool {
	_, ok := p.absent[canon]
	return ok
}

// clear drops all membership knowledge.
func (p *presenceCache) clear() {
	p.present = make(map[string]struct{})
	p.absent = make(map[string]struct{})
}

// evictOne removes an arbitrary entry. Map iteration order makes the
// choice; the cache is advisory so any victim is acceptable.
func evictOne(m map[string]struct{}) {
	for k := range m {
		delete(m, k)
		return
	}
}
