// Package ebitenhost runs a scene.Scheduler inside an ebiten game loop.
package ebitenhost

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/stagekit/scene"
)

// Overlay is drawn on top of the scene each frame. The ImGui backend in
// debugui/ebiten satisfies it.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Resize(width, height int)
}

// Config controls the logical screen size. A zero size follows the window.
type Config struct {
	Width  int
	Height int
	// QuitKeys end the game with ebiten.Termination when pressed.
	QuitKeys []ebiten.Key
}

// Game implements ebiten.Game by driving a scheduler.
type Game struct {
	scheduler *scene.Scheduler
	config    Config
	overlay   Overlay
	logger    *slog.Logger
	drawErr   error
}

type Option func(*Game)

// WithOverlay draws o after the scene.
func WithOverlay(o Overlay) Option {
	return func(g *Game) { g.overlay = o }
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

func New(scheduler *scene.Scheduler, config Config, opts ...Option) *Game {
	g := &Game{
		scheduler: scheduler,
		config:    config,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Update advances the scene by one tick of ebiten's TPS. An error from the
// previous Draw is returned here, since Draw cannot report one.
func (g *Game) Update() error {
	if err := g.drawErr; err != nil {
		g.drawErr = nil
		return err
	}
	for _, key := range g.config.QuitKeys {
		if ebiten.IsKeyPressed(key) {
			return ebiten.Termination
		}
	}

	if g.overlay != nil {
		g.overlay.BeginFrame()
		defer g.overlay.EndFrame()
	}

	err := g.scheduler.Once(1.0 / float64(ebiten.TPS()))
	if errors.Is(err, scene.ErrSceneInactive) {
		return ebiten.Termination
	}
	return err
}

func (g *Game) Draw(screen *ebiten.Image) {
	err := g.scheduler.Draw(screen)
	if err != nil && !errors.Is(err, scene.ErrSceneInactive) {
		g.logger.Error("draw failed", "scene", g.scheduler.Scene().Name(), "error", err)
		g.drawErr = err
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth, outsideHeight
	if g.config.Width > 0 && g.config.Height > 0 {
		w, h = g.config.Width, g.config.Height
	}
	if g.overlay != nil {
		g.overlay.Resize(w, h)
	}
	return w, h
}
