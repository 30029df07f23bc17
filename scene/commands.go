package scene

import (
	"errors"
	"fmt"
)

// Commands buffers structural changes requested from inside entity hooks.
// The Scheduler flushes the buffer after each phase sweep. Direct calls to
// Scene.AddEntity and Scene.RemoveEntity from a hook are also safe; Commands
// exists for hooks that want their changes to land between phases.
type Commands struct {
	spawns  []Entity
	removes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues e to be added to the scene.
func (c *Commands) Spawn(e Entity) {
	c.spawns = append(c.spawns, e)
}

// Remove queues the entity with the given identifier for removal.
// Queuing the same identifier more than once removes it once.
func (c *Commands) Remove(id EntityId) {
	c.removes = append(c.removes, id)
}

// Defer queues fn to run after the structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.removes) + len(c.defers)
}

// Flush applies the queued operations to s in the order removes, spawns,
// defers. Every operation is attempted; failures are joined.
func (c *Commands) Flush(s *Scene) error {
	removes, spawns, defers := c.removes, c.spawns, c.defers
	c.removes, c.spawns, c.defers = nil, nil, nil

	var errs []error

	removed := make(map[EntityId]bool, len(removes))
	for _, id := range removes {
		if removed[id] {
			continue
		}
		removed[id] = true
		if err := s.RemoveEntity(id); err != nil {
			errs = append(errs, err)
		}
	}

	for _, e := range spawns {
		if _, err := s.AddEntity(e); err != nil {
			errs = append(errs, fmt.Errorf("spawn: %w", err))
		}
	}

	// Operations queued by defers stay buffered for the next flush.
	for _, fn := range defers {
		fn()
	}

	return errors.Join(errs...)
}
