package main

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/plus3/stagekit/content"
	"github.com/plus3/stagekit/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChurnKeepsCacheConsistent(t *testing.T) {
	pipeline := content.NewPipeline()
	meshes := &meshProcessor{}
	require.NoError(t, content.RegisterProcessor[*Mesh](pipeline, meshes))

	rng := rand.New(rand.NewSource(1))
	catalog := scene.NewCatalog()
	require.NoError(t, catalog.Register("prop", func() scene.Entity {
		return &Prop{
			Base:     scene.NewBase("prop", scene.Vec3{}),
			pipeline: pipeline,
			asset:    content.TypeOf[*Mesh](meshPath(rng.Intn(4))),
		}
	}))

	s := scene.NewScene("churn")
	s.Init()
	for range 20 {
		_, err := catalog.Spawn(s, "prop")
		require.NoError(t, err)
	}
	churner := &Churner{Base: scene.NewBase("churner", scene.Vec3{}), PerFrame: 5, Catalog: catalog, rng: rng}
	_, err := s.AddEntity(churner)
	require.NoError(t, err)

	sch := scene.NewScheduler(s, scene.DefaultSchedulerConfig())
	for range 30 {
		require.NoError(t, sch.Once(1.0/60.0))
	}

	assert.Equal(t, int64(150), churner.removed)
	assert.Equal(t, int64(150), churner.spawned)
	assert.Equal(t, 21, s.Len())

	refs := 0
	for _, st := range pipeline.Stats() {
		refs += st.Refs
	}
	assert.Equal(t, 20, refs)

	require.NoError(t, s.Dispose())
	assert.Equal(t, 0, pipeline.Len())
	assert.Equal(t, meshes.loads.Load(), meshes.unloads.Load())
}

func TestMoverBounces(t *testing.T) {
	m := &Mover{Base: scene.NewBase("mover", scene.Vec3{X: 101}), Velocity: scene.Vec3{X: 1}}
	m.FixedUpdate(nil)
	assert.Equal(t, float32(-1), m.Velocity.X)

	m.Update(&scene.Frame{DeltaTime: 2})
	assert.Equal(t, float32(99), m.Position().X)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration: time.Second,
		Entities: 10,
		Phases:   []scene.PhaseStats{{Name: "Update", ExecutionCount: 3}},
		UpdateTime: Stats{
			Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond},
		},
	}
	report.UpdateTime.Finalize()

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "**Avg:** 2ms")
	assert.Contains(t, buf.String(), "**Update:** 3 runs")
	assert.NotContains(t, buf.String(), "GC Pause Durations")
}
