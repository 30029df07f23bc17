package scene

// EntityId identifies an entity within its owning Scene.
// Identifiers are issued in increasing order starting at zero and are never
// reused for the lifetime of the Scene.
type EntityId uint64

// Vec3 is a position in world space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v * f.
func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Entity is a unit of per-frame behavior owned by exactly one Scene.
//
// Implementations embed Base, which supplies identity, tag, position and
// no-op defaults for every hook, and override the hooks they need:
//
//	type Player struct {
//		scene.Base
//		Speed float32
//	}
//
//	func (p *Player) Update(frame *scene.Frame) { ... }
type Entity interface {
	ID() EntityId
	Tag() string

	// Init is called once by Scene.AddEntity after the identifier is assigned.
	// A non-nil error keeps the entity out of the Scene.
	Init(s *Scene) error
	Update(frame *Frame)
	AfterUpdate(frame *Frame)
	FixedUpdate(frame *Frame)
	Draw(frame *Frame)
	// Dispose releases whatever the entity acquired in Init. It is called
	// exactly once, by RemoveEntity or by Scene.Dispose.
	Dispose() error

	base() *Base
}

// Base carries the state the Scene manages for every entity.
type Base struct {
	id          EntityId
	tag         string
	position    Vec3
	owner       *Scene
	initialized bool
	disposed    bool
}

// NewBase returns a Base with the given tag and position.
func NewBase(tag string, position Vec3) Base {
	return Base{tag: tag, position: position}
}

func (b *Base) base() *Base { return b }

// ID returns the identifier assigned by the owning Scene.
// It is meaningless until the entity has been added.
func (b *Base) ID() EntityId { return b.id }

func (b *Base) Tag() string { return b.tag }
func (b *Base) SetTag(tag string) { b.tag = tag }
func (b *Base) Position() Vec3 { return b.position }
func (b *Base) SetPosition(p Vec3) { b.position = p }
func (b *Base) Translate(d Vec3) { b.position = b.position.Add(d) }
func (b *Base) Scene() *Scene { return b.owner }
func (b *Base) Initialized() bool { return b.initialized }
func (b *Base) Disposed() bool { return b.disposed }
func (b *Base) Init(s *Scene) error { return nil }
func (b *Base) Update(*Frame) {}
func (b *Base) AfterUpdate(*Frame) {}
func (b *Base) FixedUpdate(*Frame) {}
func (b *Base) Draw(*Frame) {}
func (b *Base) Dispose() error { return nil }
