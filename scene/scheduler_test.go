package scene_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/stagekit/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveScene(t *testing.T, entities ...scene.Entity) *scene.Scene {
	t.Helper()
	s := scene.NewScene("test")
	s.Init()
	for _, e := range entities {
		_, err := s.AddEntity(e)
		require.NoError(t, err)
	}
	return s
}

func TestScheduler(t *testing.T) {
	config := scene.SchedulerConfig{FixedStep: 100 * time.Millisecond, MaxFixedSteps: 4}

	t.Run("phase order within a frame", func(t *testing.T) {
		var log []string
		p := newRecorder("p", "")
		p.log = &log
		s := newActiveScene(t, p)
		log = nil

		scheduler := scene.NewScheduler(s, config)
		require.NoError(t, scheduler.Once(0.1))
		require.NoError(t, scheduler.Draw(nil))

		assert.Equal(t, []string{"p.Update", "p.AfterUpdate", "p.FixedUpdate", "p.Draw"}, log)
	})

	t.Run("fixed update cadence", func(t *testing.T) {
		p := newRecorder("p", "")
		scheduler := scene.NewScheduler(newActiveScene(t, p), config)

		require.NoError(t, scheduler.Once(0.05))
		assert.Equal(t, 1, p.updates)
		assert.Equal(t, 0, p.fixedUpdates)
		assert.InDelta(t, 0.5, scheduler.Alpha(), 1e-9)

		require.NoError(t, scheduler.Once(0.06))
		assert.Equal(t, 1, p.fixedUpdates)

		require.NoError(t, scheduler.Once(0.25))
		assert.Equal(t, 3, p.fixedUpdates)
		assert.Equal(t, 3, p.updates)
	})

	t.Run("excess accumulated time is dropped", func(t *testing.T) {
		p := newRecorder("p", "")
		scheduler := scene.NewScheduler(newActiveScene(t, p), config)

		require.NoError(t, scheduler.Once(1.05))
		assert.Equal(t, 4, p.fixedUpdates)
		assert.Less(t, scheduler.Alpha(), 1.0)

		require.NoError(t, scheduler.Once(0.0))
		assert.Equal(t, 4, p.fixedUpdates)
	})

	t.Run("fixed update receives the fixed step", func(t *testing.T) {
		m := &mover{Base: scene.NewBase("", scene.Vec3{}), Velocity: scene.Vec3{X: 10}}
		scheduler := scene.NewScheduler(newActiveScene(t, m), config)

		require.NoError(t, scheduler.Once(0.2))
		assert.InDelta(t, 2.0, m.Position().X, 1e-5)
	})

	t.Run("inactive scene", func(t *testing.T) {
		scheduler := scene.NewScheduler(scene.NewScene("idle"), config)
		assert.ErrorIs(t, scheduler.Once(0.1), scene.ErrSceneInactive)
		assert.ErrorIs(t, scheduler.Draw(nil), scene.ErrSceneInactive)
	})

	t.Run("defaults for zero config", func(t *testing.T) {
		scheduler := scene.NewScheduler(newActiveScene(t), scene.SchedulerConfig{})
		assert.Equal(t, scene.DefaultSchedulerConfig(), scheduler.Config())
	})

	t.Run("commands flush between phases", func(t *testing.T) {
		spawned := newRecorder("spawned", "")
		var spawnedSeenInAfterUpdate bool
		spawner := newRecorder("spawner", "")
		spawner.onUpdate = func(p *recorder, frame *scene.Frame) {
			if p.updates == 1 {
				frame.Commands.Spawn(spawned)
				frame.Commands.Defer(func() {
					spawnedSeenInAfterUpdate = frame.Scene.HasEntity(spawned.ID())
				})
			}
		}

		s := newActiveScene(t, spawner)
		scheduler := scene.NewScheduler(s, config)
		require.NoError(t, scheduler.Once(0.01))

		assert.True(t, spawnedSeenInAfterUpdate)
		assert.Equal(t, 0, spawned.updates)
		assert.Equal(t, 1, spawned.afterUpdates, "spawned entity joins the next phase")
	})

	t.Run("flush errors are reported with the phase", func(t *testing.T) {
		p := newRecorder("p", "")
		p.onUpdate = func(p *recorder, frame *scene.Frame) {
			frame.Commands.Remove(999)
		}
		scheduler := scene.NewScheduler(newActiveScene(t, p), config)

		err := scheduler.Once(0.01)
		require.Error(t, err)
		assert.ErrorIs(t, err, scene.ErrEntityNotFound)
		assert.Contains(t, err.Error(), "Update")
	})

	t.Run("stats", func(t *testing.T) {
		scheduler := scene.NewScheduler(newActiveScene(t, newRecorder("p", "")), config)
		require.NoError(t, scheduler.Once(0.2))
		require.NoError(t, scheduler.Once(0.01))
		require.NoError(t, scheduler.Draw(nil))

		stats := scheduler.GetStats()
		assert.Equal(t, int64(2), stats.FrameCount)
		assert.Equal(t, int64(2), stats.FixedTicks)
		require.Len(t, stats.Phases, 4)

		counts := map[string]int64{}
		for _, ps := range stats.Phases {
			counts[ps.Name] = ps.ExecutionCount
			assert.LessOrEqual(t, ps.MinDuration, ps.MaxDuration)
		}
		assert.Equal(t, map[string]int64{
			"Update":      2,
			"AfterUpdate": 2,
			"FixedUpdate": 2,
			"Draw":        1,
		}, counts)
	})

	t.Run("draw surface", func(t *testing.T) {
		var seen any
		d := &surfaceRecorder{seen: &seen}
		scheduler := scene.NewScheduler(newActiveScene(t, d), config)

		require.NoError(t, scheduler.Draw("screen"))
		assert.Equal(t, "screen", seen)
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		p := newRecorder("p", "")
		scheduler := scene.NewScheduler(newActiveScene(t, p), config)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- scheduler.Run(ctx, time.Millisecond)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}
	})

	t.Run("run stops on frame error", func(t *testing.T) {
		boom := errors.New("boom")
		bad := newRecorder("bad", "")
		bad.initErr = boom
		p := newRecorder("p", "")
		p.onUpdate = func(p *recorder, frame *scene.Frame) {
			frame.Commands.Spawn(bad)
		}
		scheduler := scene.NewScheduler(newActiveScene(t, p), config)

		err := scheduler.Run(context.Background(), time.Millisecond)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("run with non-positive interval uses the fixed step", func(t *testing.T) {
		p := newRecorder("p", "")
		scheduler := scene.NewScheduler(newActiveScene(t, p), scene.SchedulerConfig{FixedStep: time.Millisecond})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		require.NotPanics(t, func() {
			assert.NoError(t, scheduler.Run(ctx, 0))
		})
		assert.Positive(t, p.updates)
	})
}

type surfaceRecorder struct {
	scene.Base
	seen *any
}

func (d *surfaceRecorder) Draw(frame *scene.Frame) {
	*d.seen = frame.Surface
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Update", scene.PhaseUpdate.String())
	assert.Equal(t, "Draw", scene.PhaseDraw.String())
	assert.Equal(t, "Phase(9)", scene.Phase(9).String())
}
