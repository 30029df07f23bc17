package scene

// Frame is passed to every entity hook during a phase sweep.
type Frame struct {
	// DeltaTime is the elapsed time in seconds. During FixedUpdate it is the fixed step.
	DeltaTime float64
	// Tick counts frames driven by the Scheduler; FixedTick counts fixed steps.
	Tick      uint64
	FixedTick uint64
	// Alpha is the fraction of a fixed step left in the accumulator, for interpolating Draw.
	Alpha float64
	// Surface is the render target supplied by the host during Draw (for example an *ebiten.Image).
	Surface  any
	Commands *Commands
	Scene    *Scene
}

// NewFrame creates a frame for driving s by hand, outside a Scheduler.
func NewFrame(s *Scene, dt float64) *Frame {
	return &Frame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Scene:     s,
	}
}
