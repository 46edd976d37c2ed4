package alert

import (
	"sync"

	"github.com/quvondiq/pricebot/internal/domain"
)

// Registry holds every user's outstanding conditions. Per owner the
// order is insertion order. All three operations take the same lock, so
// a condition is never observed as both fired and still present.
type Registry struct {
	mu         sync.Mutex
	conditions map[int64][]domain.Condition
}

func NewRegistry() *Registry {
	return &Registry{conditions: make(map[int64][]domain.Condition)}
}

func (r *Registry) Add(cond domain.Condition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[cond.OwnerID] = append(r.conditions[cond.OwnerID], cond)
}

// ListFor returns a copy of one owner's conditions in insertion order.
func (r *Registry) ListFor(ownerID int64) []domain.Condition {
	r.mu.Lock()
	defer r.mu.Unlock()

	series := r.conditions[ownerID]
	if len(series) == 0 {
		return nil
	}
	out := make([]domain.Condition, len(series))
	copy(out, series)
	return out
}

// RemoveMatching atomically extracts every condition the predicate
// matches, across all owners. Matched conditions are gone from the
// registry by the time they are returned.
func (r *Registry) RemoveMatching(match func(domain.Condition) bool) []domain.Condition {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []domain.Condition
	for ownerID, series := range r.conditions {
		kept := series[:0:0]
		for _, cond := range series {
			if match(cond) {
				removed = append(removed, cond)
				continue
			}
			kept = append(kept, cond)
		}
		if len(kept) == 0 {
			delete(r.conditions, ownerID)
			continue
		}
		r.conditions[ownerID] = kept
	}
	return removed
}
