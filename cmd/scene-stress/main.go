package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/stagekit/content"
	"github.com/plus3/stagekit/registry"
	"github.com/plus3/stagekit/scene"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	propRatio := flag.Float64("props", 0.25, "The fraction of initial entities that hold a mesh.")
	assetCount := flag.Int("assets", 64, "The number of distinct mesh paths props draw from.")
	churn := flag.Int("churn", 16, "Props removed and respawned every frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu, mem, block, mutex or trace.")
	flag.Parse()

	if p := startProfile(*profileMode); p != nil {
		defer p.Stop()
	}

	log.Println("Starting scene stress test...")

	// 1. Declare processors and factories, then run both registry phases
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := content.NewPipeline(content.WithLogger(quiet))
	meshes := &meshProcessor{}
	catalog := scene.NewCatalog()

	warm := make([]content.Warmer, 0, *assetCount)
	for i := range *assetCount {
		warm = append(warm, content.Warm(content.TypeOf[*Mesh](meshPath(i))))
	}

	manager := registry.NewManager(registry.WithLogger(quiet))
	must(registry.AddType(manager, &content.Registry{
		Pipeline: pipeline,
		Bindings: []content.Binding{content.Bind[*Mesh](meshes)},
		Warm:     warm,
	}))
	must(registry.AddType(manager, &scene.CatalogRegistry{
		Catalog: catalog,
		Factories: map[string]scene.Factory{
			"mover": func() scene.Entity {
				return &Mover{
					Base:     scene.NewBase("mover", randomVec(rng, 100)),
					Velocity: randomVec(rng, 10),
				}
			},
			"prop": func() scene.Entity {
				return &Prop{
					Base:     scene.NewBase("prop", randomVec(rng, 100)),
					pipeline: pipeline,
					asset:    content.TypeOf[*Mesh](meshPath(rng.Intn(*assetCount))),
				}
			},
		},
	}))
	must(manager.Start())

	// 2. Populate the scene
	s := scene.NewScene("stress")
	s.Init()
	scheduler := scene.NewScheduler(s, scene.DefaultSchedulerConfig())

	log.Printf("Populating scene with %d entities...\n", *entityCount)
	for range *entityCount {
		name := "mover"
		if rng.Float64() < *propRatio {
			name = "prop"
		}
		_, err := catalog.Spawn(s, name)
		must(err)
	}
	churner := &Churner{
		Base:     scene.NewBase("churner", scene.Vec3{}),
		PerFrame: *churn,
		Catalog:  catalog,
		rng:      rng,
	}
	_, err := s.AddEntity(churner)
	must(err)
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Assets:         *assetCount,
		Churn:          *churn,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime.Seconds()); err != nil {
				log.Printf("Frame %d failed: %v\n", totalUpdates, err)
			}
			if err := scheduler.Draw(nil); err != nil {
				log.Printf("Draw %d failed: %v\n", totalUpdates, err)
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Phases = scheduler.GetStats().Phases
	report.FinalEntities = s.Len()
	report.Spawned = churner.spawned
	report.Removed = churner.removed
	report.CachedAssets = pipeline.Len()
	report.ProcessorLoads = meshes.loads.Load()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Tear down: entities release their meshes, then the warm references go
	if err := s.Dispose(); err != nil {
		log.Printf("Scene dispose failed: %v\n", err)
	}
	if r, ok := registry.Get[*content.Registry](manager); ok {
		if err := r.Release(); err != nil {
			log.Printf("Content release failed: %v\n", err)
		}
	}
	if err := pipeline.Close(); err != nil {
		log.Printf("Pipeline close failed: %v\n", err)
	}
	report.ProcessorUnloads = meshes.unloads.Load()

	// 5. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func startProfile(mode string) interface{ Stop() } {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook}
	switch mode {
	case "":
		return nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "block":
		opts = append(opts, profile.BlockProfile)
	case "mutex":
		opts = append(opts, profile.MutexProfile)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		log.Fatalf("Unknown profile mode %q", mode)
	}
	return profile.Start(opts...)
}

func randomVec(rng *rand.Rand, scale float32) scene.Vec3 {
	return scene.Vec3{
		X: (rng.Float32()*2 - 1) * scale,
		Y: (rng.Float32()*2 - 1) * scale,
		Z: (rng.Float32()*2 - 1) * scale,
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("Setup failed: %v", err)
	}
}
