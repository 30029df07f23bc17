package debugui

import (
	"github.com/plus3/stagekit/scene"
)

type SceneBrowserPanel struct {
	cache              *SceneBrowserCache
	selectedEntityId   scene.EntityId
	hasSelection       bool
	filterText         string
	filterTag          *string
	maxEntitiesPerPage int
	currentPage        int
}

type EntityInspectorPanel struct {
	selectedEntityId scene.EntityId
}

type TagViewerPanel struct {
	cache         *TagViewerCache
	selectedTag   *string
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsPanel struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type ContentInspectorPanel struct {
	selectedKinds map[string]bool
}

type RegistryViewerPanel struct{}
