package main

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/plus3/stagekit/content"
	"github.com/plus3/stagekit/scene"
)

// Mesh is a synthetic asset whose size depends on its path.
type Mesh struct {
	Vertices []scene.Vec3
}

// meshProcessor generates meshes and counts processor calls.
type meshProcessor struct {
	loads   atomic.Int64
	unloads atomic.Int64
}

func (p *meshProcessor) Load(path string) (*Mesh, error) {
	p.loads.Add(1)
	n := 64 + len(path)*16
	mesh := &Mesh{Vertices: make([]scene.Vec3, n)}
	for i := range mesh.Vertices {
		mesh.Vertices[i] = scene.Vec3{X: float32(i), Y: float32(i % 7), Z: float32(i % 13)}
	}
	return mesh, nil
}

func (p *meshProcessor) Unload(*Mesh) error {
	p.unloads.Add(1)
	return nil
}

func meshPath(i int) string {
	return fmt.Sprintf("meshes/%04d.mesh", i)
}

// Mover drifts with a constant velocity and bounces inside a cube.
type Mover struct {
	scene.Base
	Velocity scene.Vec3
}

func (m *Mover) Update(frame *scene.Frame) {
	m.Translate(m.Velocity.Scale(float32(frame.DeltaTime)))
}

func (m *Mover) FixedUpdate(*scene.Frame) {
	p := m.Position()
	if p.X < -100 || p.X > 100 {
		m.Velocity.X = -m.Velocity.X
	}
	if p.Y < -100 || p.Y > 100 {
		m.Velocity.Y = -m.Velocity.Y
	}
	if p.Z < -100 || p.Z > 100 {
		m.Velocity.Z = -m.Velocity.Z
	}
}

// Prop holds a mesh reference for as long as it is in the scene.
type Prop struct {
	scene.Base
	pipeline *content.Pipeline
	asset    content.Type[*Mesh]
	mesh     *content.Handle[*Mesh]
}

func (p *Prop) Init(*scene.Scene) error {
	h, err := content.Load(p.pipeline, p.asset)
	if err != nil {
		return err
	}
	p.mesh = h
	return nil
}

func (p *Prop) Dispose() error {
	return content.Unload(p.pipeline, p.mesh)
}

// Churner removes and spawns props every frame so the scene and the content
// cache never settle.
type Churner struct {
	scene.Base
	PerFrame int
	Catalog  *scene.Catalog
	rng      *rand.Rand
	spawned  int64
	removed  int64
}

func (c *Churner) Update(frame *scene.Frame) {
	props := make([]scene.EntityId, 0, c.PerFrame)
	for e := range frame.Scene.GetEntitiesWithTag("prop") {
		props = append(props, e.ID())
	}
	c.rng.Shuffle(len(props), func(i, j int) { props[i], props[j] = props[j], props[i] })

	for _, id := range props[:min(c.PerFrame, len(props))] {
		frame.Commands.Remove(id)
		c.removed++
	}
	for range c.PerFrame {
		frame.Commands.Defer(func() {
			if _, err := c.Catalog.Spawn(frame.Scene, "prop"); err == nil {
				c.spawned++
			}
		})
	}
}
