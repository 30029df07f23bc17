package debugui

import (
	"github.com/plus3/stagekit/content"
	"github.com/plus3/stagekit/registry"
	"github.com/plus3/stagekit/scene"
)

// Sources are the objects the debug windows inspect. Nil fields hide the
// matching window.
type Sources struct {
	Scheduler  *scene.Scheduler
	Pipeline   *content.Pipeline
	Registries *registry.Manager
}

// NewDebugOverlay builds an overlay with every window that src supports.
func NewDebugOverlay(src Sources) *Overlay {
	overlay := NewOverlay()
	if src.Scheduler == nil {
		return overlay
	}
	s := src.Scheduler.Scene()

	browser := NewSceneBrowserPanel(100)
	inspector := NewEntityInspectorPanel()
	tags := NewTagViewerPanel()
	perf := NewPerformanceStatsPanel(120)
	timer := NewFrameTimer()

	overlay.Add(func() {
		browser.Render(s)
		id, ok := browser.GetSelectedEntity()
		inspector.Render(s, id, ok)
		if tag := tags.Render(s); tag != nil {
			browser.FilterByTag(tag)
		}
		perf.Render(src.Scheduler, timer.GetDeltaTime())
	})

	if src.Pipeline != nil {
		inspectorPanel := NewContentInspectorPanel()
		overlay.Add(func() { inspectorPanel.Render(src.Pipeline) })
	}
	if src.Registries != nil {
		viewer := NewRegistryViewerPanel()
		overlay.Add(func() { viewer.Render(src.Registries) })
	}
	return overlay
}

// SpawnDebugUI adds a debug overlay to the scheduler's scene.
func SpawnDebugUI(src Sources) (*Overlay, error) {
	overlay := NewDebugOverlay(src)
	if src.Scheduler == nil {
		return overlay, nil
	}
	if _, err := src.Scheduler.Scene().AddEntity(overlay); err != nil {
		return nil, err
	}
	return overlay, nil
}
