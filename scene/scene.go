// Package scene manages the lifecycle of entities within a scene and drives
// their ordered per-frame callbacks.
package scene

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

var (
	// ErrEntityNotFound is returned when an identifier is not present in the Scene.
	// It always indicates a stale or fabricated identifier in calling code.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrSceneInactive is returned by the Scheduler when driving a Scene that
	// is not initialized or has been disposed.
	ErrSceneInactive = errors.New("scene is not active")
)

// Scene owns a set of entities keyed by identifier.
// A Scene is not safe for concurrent use; all calls belong to the frame loop.
type Scene struct {
	name     string
	entities *intmap.Map[EntityId, Entity]
	order    []EntityId
	nextId   EntityId
	active   bool
}

// NewScene creates an inactive, empty scene.
func NewScene(name string) *Scene {
	return &Scene{
		name:     name,
		entities: intmap.New[EntityId, Entity](64),
	}
}

func (s *Scene) Name() string { return s.name }

// Active reports whether Init has been called.
func (s *Scene) Active() bool { return s.active }

// Len returns the number of live entities.
func (s *Scene) Len() int { return len(s.order) }

// Init marks the scene active. It must be called exactly once.
func (s *Scene) Init() {
	if s.active {
		panic("scene " + s.name + " initialized twice")
	}
	s.active = true
}

// AddEntity assigns the next identifier to e, runs its Init hook and makes it
// live. The identifier is consumed even when Init fails, so identifiers are
// never reissued.
//
// Adding an entity that already belongs to a scene panics.
func (s *Scene) AddEntity(e Entity) (EntityId, error) {
	b := e.base()
	if b.owner != nil {
		panic(fmt.Sprintf("entity %d already belongs to scene %q", b.id, b.owner.name))
	}

	id := s.nextId
	s.nextId++

	b.id = id
	b.owner = s
	if err := e.Init(s); err != nil {
		b.owner = nil
		return id, fmt.Errorf("init entity %d: %w", id, err)
	}
	b.initialized = true

	s.entities.Put(id, e)
	// Init may itself add entities, so the new id is not necessarily the largest.
	pos, _ := slices.BinarySearch(s.order, id)
	s.order = slices.Insert(s.order, pos, id)
	return id, nil
}

// RemoveEntity disposes the entity with the given identifier and erases it.
// The entity is erased even when Dispose fails; the failure is returned.
func (s *Scene) RemoveEntity(id EntityId) error {
	e, ok := s.entities.Get(id)
	if !ok {
		return fmt.Errorf("remove entity %d from scene %q: %w", id, s.name, ErrEntityNotFound)
	}

	b := e.base()
	if b.disposed {
		// Already being removed further up the stack.
		return nil
	}
	b.disposed = true
	err := e.Dispose()
	b.initialized = false
	s.erase(id)

	if err != nil {
		return fmt.Errorf("dispose entity %d: %w", id, err)
	}
	return nil
}

// RemoveEntityRef removes e, which must be live in this scene. A reference
// that outlived its entity never removes another entity issued the same id
// after the scene was disposed.
func (s *Scene) RemoveEntityRef(e Entity) error {
	cur, ok := s.entities.Get(e.ID())
	if e.base().owner != s || !ok || cur != e {
		return fmt.Errorf("remove entity %d from scene %q: %w", e.ID(), s.name, ErrEntityNotFound)
	}
	return s.RemoveEntity(e.ID())
}

// HasEntity reports whether id refers to a live entity.
func (s *Scene) HasEntity(id EntityId) bool {
	_, ok := s.entities.Get(id)
	return ok
}

// GetEntity returns the entity with the given identifier.
func (s *Scene) GetEntity(id EntityId) (Entity, error) {
	e, ok := s.entities.Get(id)
	if !ok {
		return nil, fmt.Errorf("get entity %d from scene %q: %w", id, s.name, ErrEntityNotFound)
	}
	return e, nil
}

// GetEntities returns a snapshot of all live entities in identifier order.
// Later additions and removals do not affect the returned slice.
func (s *Scene) GetEntities() []Entity {
	out := make([]Entity, 0, len(s.order))
	for _, id := range s.order {
		e, _ := s.entities.Get(id)
		out = append(out, e)
	}
	return out
}

// GetEntitiesWithTag returns an iterator over the entities whose tag equals
// tag. The entity set is captured when iteration starts; entities removed
// before they are reached are skipped.
func (s *Scene) GetEntitiesWithTag(tag string) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range s.GetEntities() {
			if e.base().disposed || e.Tag() != tag {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Update runs the Update hook of every live entity.
func (s *Scene) Update(frame *Frame) {
	s.sweep(func(e Entity) { e.Update(frame) })
}

// AfterUpdate runs the AfterUpdate hook of every live entity.
func (s *Scene) AfterUpdate(frame *Frame) {
	s.sweep(func(e Entity) { e.AfterUpdate(frame) })
}

// FixedUpdate runs the FixedUpdate hook of every live entity.
// It is called by a fixed-timestep driver such as Scheduler, never by the Scene itself.
func (s *Scene) FixedUpdate(frame *Frame) {
	s.sweep(func(e Entity) { e.FixedUpdate(frame) })
}

// Draw runs the Draw hook of every live entity.
func (s *Scene) Draw(frame *Frame) {
	s.sweep(func(e Entity) { e.Draw(frame) })
}

// sweep iterates a snapshot so callbacks may add or remove entities.
// Entities removed earlier in the same sweep are skipped.
func (s *Scene) sweep(fn func(Entity)) {
	for _, e := range s.GetEntities() {
		if e.base().disposed {
			continue
		}
		fn(e)
	}
}

// Dispose disposes every entity, empties the scene and resets the identifier
// counter. Every entity is disposed even if some fail; the failures are joined.
// Entities added by a Dispose hook are disposed as well before Dispose returns.
func (s *Scene) Dispose() error {
	var errs []error
	for s.Len() > 0 {
		for _, e := range s.GetEntities() {
			b := e.base()
			if !b.disposed {
				b.disposed = true
				if err := e.Dispose(); err != nil {
					errs = append(errs, fmt.Errorf("dispose entity %d: %w", b.id, err))
				}
				b.initialized = false
			}
			s.erase(b.id)
		}
	}

	s.entities.Clear()
	s.order = nil
	s.nextId = 0
	s.active = false
	return errors.Join(errs...)
}

func (s *Scene) erase(id EntityId) {
	s.entities.Del(id)
	if pos, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, pos, pos+1)
	}
}
