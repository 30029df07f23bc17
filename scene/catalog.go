package scene

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateFactory = errors.New("entity factory already registered")
	ErrUnknownFactory   = errors.New("entity factory not registered")
)

// Factory constructs a fresh, unowned entity.
type Factory func() Entity

// Catalog maps names to entity factories so scenes can be populated from data.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register binds name to f. A name can be bound once.
func (c *Catalog) Register(name string, f Factory) error {
	if _, exists := c.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, name)
	}
	c.factories[name] = f
	return nil
}

// Has reports whether name is bound.
func (c *Catalog) Has(name string) bool {
	_, ok := c.factories[name]
	return ok
}

// Names returns the bound names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Spawn constructs the entity bound to name and adds it to s.
func (c *Catalog) Spawn(s *Scene, name string) (Entity, error) {
	f, ok := c.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, name)
	}
	e := f()
	if _, err := s.AddEntity(e); err != nil {
		return nil, fmt.Errorf("spawn %q: %w", name, err)
	}
	return e, nil
}

// CatalogRegistry declares a set of factories into a Catalog during the
// registry Init phase. It satisfies registry.Registry.
type CatalogRegistry struct {
	Catalog   *Catalog
	Factories map[string]Factory
}

// Init registers every factory, in name order.
func (r *CatalogRegistry) Init() error {
	names := make([]string, 0, len(r.Factories))
	for name := range r.Factories {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := r.Catalog.Register(name, r.Factories[name]); err != nil {
			return err
		}
	}
	return nil
}

// Load does nothing; factories need no second phase.
func (r *CatalogRegistry) Load() error {
	return nil
}
