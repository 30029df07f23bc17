package scene_test

import (
	"errors"
	"testing"

	"github.com/plus3/stagekit/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	t.Run("spawn and remove", func(t *testing.T) {
		s := scene.NewScene("commands")
		old := newRecorder("old", "")
		_, err := s.AddEntity(old)
		require.NoError(t, err)

		frame := scene.NewFrame(s, 0)
		fresh := newRecorder("fresh", "")
		frame.Commands.Spawn(fresh)
		frame.Commands.Remove(old.ID())
		assert.Equal(t, 2, frame.Commands.Len())

		// Nothing happens until flush.
		assert.True(t, s.HasEntity(old.ID()))
		assert.Equal(t, 0, fresh.inits)

		require.NoError(t, frame.Commands.Flush(s))
		assert.False(t, s.HasEntity(old.ID()))
		assert.True(t, s.HasEntity(fresh.ID()))
		assert.Equal(t, 0, frame.Commands.Len())
	})

	t.Run("duplicate removes dispose once", func(t *testing.T) {
		s := scene.NewScene("dupes")
		p := newRecorder("p", "")
		_, err := s.AddEntity(p)
		require.NoError(t, err)

		frame := scene.NewFrame(s, 0)
		frame.Commands.Remove(p.ID())
		frame.Commands.Remove(p.ID())

		require.NoError(t, frame.Commands.Flush(s))
		assert.Equal(t, 1, p.disposals)
	})

	t.Run("failures are joined and every command runs", func(t *testing.T) {
		s := scene.NewScene("failures")
		boom := errors.New("init failed")
		bad := newRecorder("bad", "")
		bad.initErr = boom
		good := newRecorder("good", "")
		deferred := false

		frame := scene.NewFrame(s, 0)
		frame.Commands.Remove(77)
		frame.Commands.Spawn(bad)
		frame.Commands.Spawn(good)
		frame.Commands.Defer(func() { deferred = true })

		err := frame.Commands.Flush(s)
		assert.ErrorIs(t, err, scene.ErrEntityNotFound)
		assert.ErrorIs(t, err, boom)
		assert.True(t, s.HasEntity(good.ID()))
		assert.True(t, deferred)
	})

	t.Run("commands queued by defers wait for the next flush", func(t *testing.T) {
		s := scene.NewScene("chained")
		later := newRecorder("later", "")

		frame := scene.NewFrame(s, 0)
		frame.Commands.Defer(func() {
			frame.Commands.Spawn(later)
		})

		require.NoError(t, frame.Commands.Flush(s))
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 1, frame.Commands.Len())

		require.NoError(t, frame.Commands.Flush(s))
		assert.Equal(t, 1, s.Len())
	})
}
