package export

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/openlibdev/catalog-export/internal/database/bibs"
	"github.com/openlibdev/catalog-export/internal/database/items"
)

// Registry resolves export type names to strategies. It is populated
// once at startup and read-only after that, so lookups need no
// locking.
type Registry struct {
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds a strategy under its own name. Registering the same
// name twice is a programming error.
func (r *Registry) Register(s Strategy) {
	if _, exists := r.strategies[s.Name()]; exists {
		panic(fmt.Sprintf("export type %q registered twice", s.Name()))
	}
	r.strategies[s.Name()] = s
}

// Get looks an export type up by name.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown export type %q", name)
	}
	return s, nil
}

// Names lists the registered export types, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry wires the standard export types against one
// database and the bib and item index sinks.
func DefaultRegistry(db *gorm.DB, bibSink, itemSink Sink) *Registry {
	bibRepo := bibs.NewRepository(db)
	itemRepo := items.NewRepository(db)

	r := NewRegistry()
	r.Register(NewBibsToSolr(bibRepo, bibSink))
	r.Register(NewItemsToSolr(itemRepo, itemSink))
	r.Register(NewBibsAndAttachedToSolr(bibRepo, itemRepo, bibSink, itemSink))
	return r
}
