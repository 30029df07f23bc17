package content_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"

	"github.com/plus3/stagekit/content"
)

type Model struct {
	Path   string
	Serial int
}

type Texture struct {
	Path string
}

// modelProcessor counts calls per path and can be told to fail.
type modelProcessor struct {
	mu        sync.Mutex
	serial    int
	loads     map[string]int
	unloads   map[string]int
	loadErr   map[string]error
	unloadErr error
	gate      chan struct{}
}

func newModelProcessor() *modelProcessor {
	return &modelProcessor{
		loads:   make(map[string]int),
		unloads: make(map[string]int),
		loadErr: make(map[string]error),
	}
}

func (p *modelProcessor) Load(path string) (*Model, error) {
	if p.gate != nil {
		<-p.gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads[path]++
	if err := p.loadErr[path]; err != nil {
		return nil, err
	}
	p.serial++
	return &Model{Path: path, Serial: p.serial}, nil
}

func (p *modelProcessor) Unload(m *Model) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unloads[m.Path]++
	return p.unloadErr
}

func (p *modelProcessor) loadCount(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loads[path]
}

func (p *modelProcessor) unloadCount(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unloads[path]
}

func textureProcessor(unloaded *[]string) content.ProcessorFuncs[Texture] {
	return content.ProcessorFuncs[Texture]{
		LoadFunc: func(path string) (Texture, error) {
			if path == "" {
				return Texture{}, fmt.Errorf("empty path")
			}
			return Texture{Path: path}, nil
		},
		UnloadFunc: func(t Texture) error {
			*unloaded = append(*unloaded, t.Path)
			return nil
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newPipeline(opts ...content.Option) *content.Pipeline {
	return content.NewPipeline(append([]content.Option{content.WithLogger(quietLogger())}, opts...)...)
}
