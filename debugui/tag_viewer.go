package debugui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/scene"
)

type TagInfo struct {
	Tag         string
	EntityCount int
}

type TagViewerCache struct {
	tags    []TagInfo
	lastLen int
}

// CollectTags counts the entities in s per tag, ordered by tag.
func CollectTags(s *scene.Scene) []TagInfo {
	counts := make(map[string]int)
	for _, e := range s.GetEntities() {
		counts[e.Tag()]++
	}

	tags := make([]TagInfo, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, TagInfo{Tag: tag, EntityCount: n})
	}
	slices.SortFunc(tags, func(a, b TagInfo) int { return cmp.Compare(a.Tag, b.Tag) })
	return tags
}

func NewTagViewerPanel() TagViewerPanel {
	return TagViewerPanel{
		cache:         &TagViewerCache{lastLen: -1},
		sortColumn:    1,
		sortAscending: false,
	}
}

// Render draws the tag table and returns the tag clicked this frame, if any.
func (tv *TagViewerPanel) Render(s *scene.Scene) *string {
	if !imgui.BeginV("Tag Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	if tv.cache.lastLen != s.Len() {
		tv.cache.tags = CollectTags(s)
		tv.cache.lastLen = s.Len()
		tv.sortTags()
	}

	maxEntityCount := 0
	for _, info := range tv.cache.tags {
		maxEntityCount = max(maxEntityCount, info.EntityCount)
	}

	var clickedTag *string

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("TagTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Tag")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			tv.sortColumn = int(spec.ColumnIndex())
			tv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			tv.sortTags()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, info := range tv.cache.tags {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			label := info.Tag
			if label == "" {
				label = "<untagged>"
			}
			isSelected := tv.selectedTag != nil && *tv.selectedTag == info.Tag
			if imgui.SelectableBoolV(label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				tag := info.Tag
				clickedTag = &tag
				tv.selectedTag = &tag
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(info.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clickedTag
}

func (tv *TagViewerPanel) sortTags() {
	slices.SortStableFunc(tv.cache.tags, func(a, b TagInfo) int {
		c := cmp.Compare(a.Tag, b.Tag)
		if tv.sortColumn == 1 {
			c = cmp.Or(cmp.Compare(a.EntityCount, b.EntityCount), c)
		}
		if !tv.sortAscending {
			return -c
		}
		return c
	})
}
