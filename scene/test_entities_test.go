package scene_test

import (
	"github.com/plus3/stagekit/scene"
)

// recorder records every hook invocation.
type recorder struct {
	scene.Base
	name string
	log  *[]string

	initErr    error
	disposeErr error
	onInit     func(p *recorder, s *scene.Scene)
	onUpdate   func(p *recorder, frame *scene.Frame)
	onDispose  func(p *recorder)

	inits, updates, afterUpdates, fixedUpdates, draws, disposals int
}

func newRecorder(name, tag string) *recorder {
	return &recorder{
		Base: scene.NewBase(tag, scene.Vec3{}),
		name: name,
	}
}

func (p *recorder) record(hook string) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+"."+hook)
	}
}

func (p *recorder) Init(s *scene.Scene) error {
	p.inits++
	p.record("Init")
	if p.onInit != nil {
		p.onInit(p, s)
	}
	return p.initErr
}

func (p *recorder) Update(frame *scene.Frame) {
	p.updates++
	p.record("Update")
	if p.onUpdate != nil {
		p.onUpdate(p, frame)
	}
}

func (p *recorder) AfterUpdate(frame *scene.Frame) {
	p.afterUpdates++
	p.record("AfterUpdate")
}

func (p *recorder) FixedUpdate(frame *scene.Frame) {
	p.fixedUpdates++
	p.record("FixedUpdate")
}

func (p *recorder) Draw(frame *scene.Frame) {
	p.draws++
	p.record("Draw")
}

func (p *recorder) Dispose() error {
	p.disposals++
	p.record("Dispose")
	if p.onDispose != nil {
		p.onDispose(p)
	}
	return p.disposeErr
}

// mover only overrides FixedUpdate.
type mover struct {
	scene.Base
	Velocity scene.Vec3
}

func (m *mover) FixedUpdate(frame *scene.Frame) {
	m.Translate(m.Velocity.Scale(float32(frame.DeltaTime)))
}

func ids(entities []scene.Entity) []scene.EntityId {
	out := make([]scene.EntityId, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID())
	}
	return out
}
