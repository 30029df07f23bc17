package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/scene"
)

type EntityInfo struct {
	ID       scene.EntityId
	Tag      string
	Type     string
	Position scene.Vec3
}

type SceneBrowserCache struct {
	entities      []EntityInfo
	lastLen       int
	sortColumn    int
	sortAscending bool
}

type positioned interface {
	Position() scene.Vec3
}

// CollectEntities describes every entity in s in identifier order.
func CollectEntities(s *scene.Scene) []EntityInfo {
	entities := s.GetEntities()
	infos := make([]EntityInfo, 0, len(entities))
	for _, e := range entities {
		info := EntityInfo{
			ID:   e.ID(),
			Tag:  e.Tag(),
			Type: fmt.Sprintf("%T", e),
		}
		if p, ok := e.(positioned); ok {
			info.Position = p.Position()
		}
		infos = append(infos, info)
	}
	return infos
}

// FilterEntities keeps the entities whose id, tag or type contains text
// (case-insensitive) and, when tag is non-nil, whose tag equals *tag.
func FilterEntities(entities []EntityInfo, text string, tag *string) []EntityInfo {
	if text == "" && tag == nil {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if tag != nil && entity.Tag != *tag {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(strings.ToLower(entity.Tag), filterLower) &&
				!strings.Contains(strings.ToLower(entity.Type), filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

// SortEntities orders entities by column: 0 id, 1 tag, 2 type, 3 distance from the origin.
func SortEntities(entities []EntityInfo, column int, ascending bool) {
	slices.SortStableFunc(entities, func(a, b EntityInfo) int {
		var c int
		switch column {
		case 1:
			c = cmp.Compare(a.Tag, b.Tag)
		case 2:
			c = cmp.Compare(a.Type, b.Type)
		case 3:
			c = cmp.Compare(lengthSq(a.Position), lengthSq(b.Position))
		}
		c = cmp.Or(c, cmp.Compare(a.ID, b.ID))
		if !ascending {
			return -c
		}
		return c
	})
}

func lengthSq(v scene.Vec3) float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func NewSceneBrowserPanel(maxEntitiesPerPage int) SceneBrowserPanel {
	return SceneBrowserPanel{
		cache: &SceneBrowserCache{
			sortColumn:    0,
			sortAscending: true,
			lastLen:       -1,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (sb *SceneBrowserPanel) Render(s *scene.Scene) {
	if !imgui.BeginV("Scene Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sb.rebuildCacheIfNeeded(s)

	imgui.Text(fmt.Sprintf("Scene: %s", s.Name()))
	imgui.InputTextWithHint("##search", "Search...", &sb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		sb.filterText = ""
		sb.filterTag = nil
	}

	filteredEntities := FilterEntities(sb.cache.entities, sb.filterText, sb.filterTag)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Tag")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sb.cache.sortColumn = int(spec.ColumnIndex())
			sb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortEntities(sb.cache.entities, sb.cache.sortColumn, sb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := min(sb.currentPage*sb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+sb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := sb.hasSelection && sb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				sb.selectedEntityId = entity.ID
				sb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Tag)

			imgui.TableNextColumn()
			imgui.Text(entity.Type)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.1f, %.1f, %.1f", entity.Position.X, entity.Position.Y, entity.Position.Z))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > sb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + sb.maxEntitiesPerPage - 1) / sb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", sb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && sb.currentPage > 0 {
			sb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && sb.currentPage < totalPages-1 {
			sb.currentPage++
		}
	} else {
		sb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// FilterByTag restricts the listing to one tag; nil clears the restriction.
func (sb *SceneBrowserPanel) FilterByTag(tag *string) {
	sb.filterTag = tag
	sb.currentPage = 0
}

func (sb *SceneBrowserPanel) rebuildCacheIfNeeded(s *scene.Scene) {
	if sb.cache.lastLen != s.Len() {
		sb.cache.entities = CollectEntities(s)
		sb.cache.lastLen = s.Len()
		SortEntities(sb.cache.entities, sb.cache.sortColumn, sb.cache.sortAscending)
		return
	}
	sb.updatePositions(s)
}

func (sb *SceneBrowserPanel) updatePositions(s *scene.Scene) {
	for i := range sb.cache.entities {
		e, err := s.GetEntity(sb.cache.entities[i].ID)
		if err != nil {
			sb.cache.lastLen = -1
			continue
		}
		if p, ok := e.(positioned); ok {
			sb.cache.entities[i].Position = p.Position()
		}
	}
}

// GetSelectedEntity returns the selected entity id, if any.
func (sb *SceneBrowserPanel) GetSelectedEntity() (scene.EntityId, bool) {
	return sb.selectedEntityId, sb.hasSelection
}
