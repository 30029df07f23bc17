package content_test

import (
	"errors"
	"testing"

	"github.com/plus3/stagekit/content"
	"github.com/plus3/stagekit/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textures is a second registry type, so both can be added to one manager.
type textures struct {
	content.Registry
}

func TestRegistryBindsThenWarms(t *testing.T) {
	p := newPipeline()
	models := newModelProcessor()
	var unloaded []string

	// The model registry warms a texture whose processor is bound by a
	// registry added after it. Two-phase startup makes that order safe.
	modelReg := &content.Registry{
		Pipeline: p,
		Bindings: []content.Binding{content.Bind[*Model](models)},
		Warm: []content.Warmer{
			content.Warm(content.TypeOf[*Model]("player.obj")),
			content.Warm(content.TypeOf[Texture]("player.png")),
		},
	}
	textureReg := &textures{content.Registry{
		Pipeline: p,
		Bindings: []content.Binding{content.Bind[Texture](textureProcessor(&unloaded))},
	}}

	m := registry.NewManager(registry.WithLogger(quietLogger()))
	require.NoError(t, registry.AddType(m, modelReg))
	require.NoError(t, registry.AddType(m, textureReg))
	require.NoError(t, m.Start())

	assert.Equal(t, 1, content.RefCount(p, content.TypeOf[*Model]("player.obj")))
	assert.Equal(t, 1, content.RefCount(p, content.TypeOf[Texture]("player.png")))

	h, err := content.Load(p, content.TypeOf[*Model]("player.obj"))
	require.NoError(t, err)
	assert.Equal(t, 1, models.loadCount("player.obj"), "warmed content is served from the cache")
	require.NoError(t, content.Unload(p, h))

	require.NoError(t, modelReg.Release())
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, []string{"player.png"}, unloaded)
}

func TestRegistryInitDuplicateBinding(t *testing.T) {
	p := newPipeline()
	reg := &content.Registry{
		Pipeline: p,
		Bindings: []content.Binding{
			content.Bind[*Model](newModelProcessor()),
			content.Bind[*Model](newModelProcessor()),
		},
	}
	assert.ErrorIs(t, reg.Init(), content.ErrDuplicateProcessor)
}

func TestRegistryWarmFailureReleasesWarmed(t *testing.T) {
	p := newPipeline()
	models := newModelProcessor()
	boom := errors.New("missing")
	models.loadErr["b.obj"] = boom

	reg := &content.Registry{
		Pipeline: p,
		Bindings: []content.Binding{content.Bind[*Model](models)},
		Warm: []content.Warmer{
			content.Warm(content.TypeOf[*Model]("a.obj")),
			content.Warm(content.TypeOf[*Model]("b.obj")),
		},
	}

	require.NoError(t, reg.Init())
	err := reg.Load()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 1, models.unloadCount("a.obj"))
}
