package fixture

import (
	"sort"

	"fixture-check/internal/errs"
)

// Registry maps fixture identifiers to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for id.
func (r *Registry) Register(id string, f Factory) {
	r.factories[id] = f
}

// RegisterFixture registers a fixture value built in code.
func (r *Registry) RegisterFixture(fx *Fixture) {
	r.Register(fx.Name, func() (*Fixture, error) { return fx, nil })
}

// Resolve builds the fixture registered under id. Unknown identifiers fail
// with a NotFound error.
func (r *Registry) Resolve(id string) (*Fixture, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "fixture %s is not registered", id)
	}
	fx, err := f()
	if err != nil {
		if errs.KindOf(err) == errs.ErrKindUnknown {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "load fixture "+id, err)
		}
		return nil, err
	}
	return fx, nil
}

// Names returns the registered identifiers in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for id := range r.factories {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// LoadDir discovers fixture files in dir and registers a lazy file loader
// for each. It returns the identifiers it registered.
func (r *Registry) LoadDir(dir, plugin string) ([]string, error) {
	entries, err := scan(dir, plugin)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e := e
		r.Register(e.id, func() (*Fixture, error) {
			return LoadFile(e.id, e.path)
		})
		ids = append(ids, e.id)
	}
	return ids, nil
}
