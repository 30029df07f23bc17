// Package debugui provides Dear ImGui windows for inspecting a running scene,
// its content pipeline and its registries.
//
// The windows are driven by an Overlay entity added to the scene. During the
// Update phase the overlay defers every window's render function, so they run
// between the host's ImGui BeginFrame and EndFrame calls.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/scene"
)

// Item holds a Dear ImGui render function.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Entities should ignore input while the matching field is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is an entity that renders Items each frame.
type Overlay struct {
	scene.Base
	Items []Item
	Input InputState
}

func NewOverlay(items ...Item) *Overlay {
	return &Overlay{
		Base:  scene.NewBase("debugui", scene.Vec3{}),
		Items: items,
	}
}

// Add appends a render function.
func (o *Overlay) Add(render func()) {
	o.Items = append(o.Items, Item{Render: render})
}

// Update refreshes Input and queues all render functions for execution.
func (o *Overlay) Update(frame *scene.Frame) {
	io := imgui.CurrentIO()
	o.Input.WantCaptureMouse = io.WantCaptureMouse()
	o.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range o.Items {
		frame.Commands.Defer(item.Render)
	}
}
