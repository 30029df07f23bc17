package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/content"
)

// FilterStats keeps the entries whose kind is selected. An empty selection keeps everything.
func FilterStats(stats []content.EntryStats, kinds map[string]bool) []content.EntryStats {
	if len(kinds) == 0 {
		return stats
	}
	filtered := make([]content.EntryStats, 0, len(stats))
	for _, s := range stats {
		if kinds[s.Kind] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func NewContentInspectorPanel() ContentInspectorPanel {
	return ContentInspectorPanel{
		selectedKinds: make(map[string]bool),
	}
}

func (ci *ContentInspectorPanel) Render(p *content.Pipeline) {
	if !imgui.BeginV("Content Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Filter Kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		ci.selectedKinds = make(map[string]bool)
	}

	for _, kind := range p.Kinds() {
		selected := ci.selectedKinds[kind]
		if imgui.Checkbox(kind, &selected) {
			if selected {
				ci.selectedKinds[kind] = true
			} else {
				delete(ci.selectedKinds, kind)
			}
		}
	}

	imgui.Separator()

	stats := FilterStats(p.Stats(), ci.selectedKinds)
	totalRefs := 0
	for _, s := range stats {
		totalRefs += s.Refs
	}

	imgui.Text(fmt.Sprintf("Cached Resources: %d", len(stats)))
	imgui.Text(fmt.Sprintf("Live References: %d", totalRefs))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ContentTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Path")
		imgui.TableSetupColumn("Refs")
		imgui.TableHeadersRow()

		for _, s := range stats {
			imgui.TableNextRow()

			imgui.TableSetColumnIndex(0)
			imgui.Text(s.Kind)

			imgui.TableSetColumnIndex(1)
			imgui.Text(s.Path)

			imgui.TableSetColumnIndex(2)
			imgui.Text(fmt.Sprintf("%d", s.Refs))
		}

		imgui.EndTable()
	}

	imgui.End()
}
