package scene

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Phase identifies one of the per-frame entity sweeps.
type Phase int

const (
	PhaseUpdate Phase = iota
	PhaseAfterUpdate
	PhaseFixedUpdate
	PhaseDraw
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "Update"
	case PhaseAfterUpdate:
		return "AfterUpdate"
	case PhaseFixedUpdate:
		return "FixedUpdate"
	case PhaseDraw:
		return "Draw"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SchedulerConfig configures the fixed-timestep accumulator.
type SchedulerConfig struct {
	// FixedStep is the logical tick length of FixedUpdate.
	FixedStep time.Duration
	// MaxFixedSteps caps FixedUpdate calls per frame. Accumulated time beyond
	// the cap is dropped so a slow frame cannot snowball into slower frames.
	MaxFixedSteps int
}

// DefaultSchedulerConfig returns a 60 Hz fixed step with at most 5 catch-up steps per frame.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		FixedStep:     time.Second / 60,
		MaxFixedSteps: 5,
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	FrameCount int64
	FixedTicks int64
	Phases     []PhaseStats
}

// PhaseStats provides execution statistics for a single phase.
type PhaseStats struct {
	Phase          Phase
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type phaseStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (ps *phaseStatsInternal) record(d time.Duration) {
	ps.executionCount++
	ps.lastDuration = d
	ps.totalDuration += d
	if d < ps.minDuration {
		ps.minDuration = d
	}
	if d > ps.maxDuration {
		ps.maxDuration = d
	}
}

// Scheduler drives a Scene: variable-rate Update and AfterUpdate every frame,
// FixedUpdate at the configured cadence from an accumulator, and Draw on demand.
type Scheduler struct {
	scene       *Scene
	config      SchedulerConfig
	step        float64
	accumulator float64
	frames      uint64
	fixedTicks  uint64
	stats       [phaseCount]*phaseStatsInternal
}

// NewScheduler creates a scheduler for s. Non-positive config values fall back to the defaults.
func NewScheduler(s *Scene, config SchedulerConfig) *Scheduler {
	def := DefaultSchedulerConfig()
	if config.FixedStep <= 0 {
		config.FixedStep = def.FixedStep
	}
	if config.MaxFixedSteps <= 0 {
		config.MaxFixedSteps = def.MaxFixedSteps
	}

	sch := &Scheduler{
		scene:  s,
		config: config,
		step:   config.FixedStep.Seconds(),
	}
	for i := range sch.stats {
		sch.stats[i] = &phaseStatsInternal{minDuration: time.Duration(1<<63 - 1)}
	}
	return sch
}

// Scene returns the driven scene.
func (s *Scheduler) Scene() *Scene { return s.scene }

// Config returns the effective configuration.
func (s *Scheduler) Config() SchedulerConfig { return s.config }

// Alpha returns the fraction of a fixed step currently accumulated, in [0, 1).
func (s *Scheduler) Alpha() float64 {
	return s.accumulator / s.step
}

// Once advances the scene by dt seconds: Update, AfterUpdate, then as many
// FixedUpdate steps as the accumulator holds. Queued commands are flushed
// after every sweep.
func (s *Scheduler) Once(dt float64) error {
	if !s.scene.Active() {
		return ErrSceneInactive
	}

	s.frames++
	frame := s.newFrame(dt)

	var errs []error
	errs = append(errs, s.runPhase(PhaseUpdate, frame, s.scene.Update))
	errs = append(errs, s.runPhase(PhaseAfterUpdate, frame, s.scene.AfterUpdate))

	s.accumulator += dt
	steps := 0
	for s.accumulator >= s.step && steps < s.config.MaxFixedSteps {
		s.fixedTicks++
		frame.DeltaTime = s.step
		frame.FixedTick = s.fixedTicks
		errs = append(errs, s.runPhase(PhaseFixedUpdate, frame, s.scene.FixedUpdate))
		s.accumulator -= s.step
		steps++
	}
	if s.accumulator >= s.step {
		s.accumulator = math.Mod(s.accumulator, s.step)
	}

	return errors.Join(errs...)
}

// Draw runs the Draw sweep with the given render target.
func (s *Scheduler) Draw(surface any) error {
	if !s.scene.Active() {
		return ErrSceneInactive
	}

	frame := s.newFrame(0)
	frame.Surface = surface
	return s.runPhase(PhaseDraw, frame, s.scene.Draw)
}

// Run advances and draws the scene at the given interval until the context
// is cancelled. A non-positive interval runs at the fixed step. It returns nil
// on cancellation and the first frame error otherwise.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = s.config.FixedStep
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.Once(dt); err != nil {
				return err
			}
			if err := s.Draw(nil); err != nil {
				return err
			}
		}
	}
}

func (s *Scheduler) newFrame(dt float64) *Frame {
	frame := NewFrame(s.scene, dt)
	frame.Tick = s.frames
	frame.FixedTick = s.fixedTicks
	frame.Alpha = s.Alpha()
	return frame
}

func (s *Scheduler) runPhase(phase Phase, frame *Frame, sweep func(*Frame)) error {
	start := time.Now()
	sweep(frame)
	s.stats[phase].record(time.Since(start))

	if err := frame.Commands.Flush(s.scene); err != nil {
		return fmt.Errorf("%s: %w", phase, err)
	}
	return nil
}

// GetStats returns statistics about phase execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		FrameCount: int64(s.frames),
		FixedTicks: int64(s.fixedTicks),
		Phases:     make([]PhaseStats, 0, phaseCount),
	}

	for phase, internal := range s.stats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Phases = append(stats.Phases, PhaseStats{
			Phase:          Phase(phase),
			Name:           Phase(phase).String(),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
	}

	return stats
}
