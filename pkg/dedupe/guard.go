// Package dedupe tracks which upstream place ids have already been claimed,
// within one import run and against what the store already holds.
package dedupe

import "sync"

// Guard is a run-scoped set of claimed external place ids. Seed it with every
// id already persisted so re-runs are safe. All methods are safe for
// concurrent use; TryClaim makes check-then-claim atomic per id so two
// workers discovering the same place cannot both pass.
//
// An absent id (empty string) is never deduplicated: uniqueness cannot be
// established without the key, matching the store's partial unique index.
type Guard struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewGuard creates a Guard pre-seeded with already-claimed ids.
func NewGuard(seed []string) *Guard {
	claimed := make(map[string]struct{}, len(seed))
	for _, id := range seed {
		if id != "" {
			claimed[id] = struct{}{}
		}
	}
	return &Guard{claimed: claimed}
}

// IsNew reports whether the id is non-empty and not yet claimed.
func (g *Guard) IsNew(externalID string) bool {
	if externalID == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, seen := g.claimed[externalID]
	return !seen
}

// Claim marks the id as seen. Idempotent; claiming an empty id is a no-op.
func (g *Guard) Claim(externalID string) {
	if externalID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.claimed[externalID] = struct{}{}
}

// TryClaim claims the id and reports whether this call was the first to do
// so. Empty ids always return false.
func (g *Guard) TryClaim(externalID string) bool {
	if externalID == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, seen := g.claimed[externalID]; seen {
		return false
	}
	g.claimed[externalID] = struct{}{}
	return true
}

// Release undoes a claim, for rolling back after a failed persist.
func (g *Guard) Release(externalID string) {
	if externalID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, externalID)
}

// Len returns the number of claimed ids.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.claimed)
}
