package alert

import (
	"github.com/quvondiq/pricebot/internal/domain"
)

// Evaluator scans the registry against a snapshot. Matched conditions
// are removed as part of the same registry operation, so a condition
// cannot fire twice even with concurrent evaluation passes.
type Evaluator struct {
	registry *Registry
}

func NewEvaluator(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

func (e *Evaluator) Evaluate(snap *domain.Snapshot) []domain.FiredAlert {
	if snap == nil {
		return nil
	}

	removed := e.registry.RemoveMatching(func(cond domain.Condition) bool {
		quote, ok := snap.Quotes[cond.Symbol]
		if !ok || quote.Price == nil {
			return false
		}
		cmp := quote.Price.Cmp(cond.TargetPrice)
		if cond.Direction == domain.Below {
			return cmp <= 0
		}
		return cmp >= 0
	})

	fired := make([]domain.FiredAlert, 0, len(removed))
	for _, cond := range removed {
		fired = append(fired, domain.FiredAlert{
			OwnerID:       cond.OwnerID,
			Symbol:        cond.Symbol,
			TargetPrice:   cond.TargetPrice,
			Direction:     cond.Direction,
			ObservedPrice: *snap.Quotes[cond.Symbol].Price,
		})
	}
	return fired
}
