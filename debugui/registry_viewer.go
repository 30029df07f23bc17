package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/registry"
)

// RegistryState describes the lifecycle stage of a manager.
func RegistryState(m *registry.Manager) string {
	switch {
	case m.Failed():
		return "failed"
	case m.Loaded():
		return "loaded"
	case m.Initialized():
		return "initialized"
	default:
		return "pending"
	}
}

func NewRegistryViewerPanel() RegistryViewerPanel {
	return RegistryViewerPanel{}
}

func (rv *RegistryViewerPanel) Render(m *registry.Manager) {
	if !imgui.BeginV("Registries", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("State: " + RegistryState(m))
	imgui.Separator()
	for _, name := range m.Names() {
		imgui.BulletText(name)
	}

	imgui.End()
}
