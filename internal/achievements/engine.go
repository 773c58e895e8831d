package achievements

import "github.com/amaumene/trackarr/internal/stats"

// Engine evaluates the achievement catalog against stats snapshots. The
// catalog is fixed at construction and never mutated.
type Engine struct {
	catalog []Definition
	byID    map[string]Definition
}

// NewEngine creates an engine over the given catalog
func NewEngine(catalog []Definition) *Engine {
	byID := make(map[string]Definition, len(catalog))
	for _, def := range catalog {
		byID[def.ID] = def
	}
	return &Engine{
		catalog: catalog,
		byID:    byID,
	}
}

// Catalog returns the full catalog in definition order
func (e *Engine) Catalog() []Definition {
	return e.catalog
}

// EvaluateUnlocks returns the definitions whose predicate is satisfied by the
// snapshot, preserving catalog order. Pure: identical snapshots yield
// identical results.
func (e *Engine) EvaluateUnlocks(snapshot stats.Snapshot) []Definition {
	var unlocked []Definition
	for _, def := range e.catalog {
		if def.UnlockWhen(snapshot) {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

// LookupByID returns the definition with the given id
func (e *Engine) LookupByID(id string) (Definition, bool) {
	def, ok := e.byID[id]
	return def, ok
}

// FindNewlyUnlocked returns the first unlocked definition whose id is not in
// the seen set. Only one achievement surfaces per evaluation pass; the rest
// follow on later passes once the first is marked seen.
func FindNewlyUnlocked(unlocked []Definition, seen map[string]bool) (Definition, bool) {
	for _, def := range unlocked {
		if !seen[def.ID] {
			return def, true
		}
	}
	return Definition{}, false
}
