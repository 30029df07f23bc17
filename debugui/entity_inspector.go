package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/scene"
)

type movable interface {
	positioned
	SetPosition(p scene.Vec3)
}

func NewEntityInspectorPanel() EntityInspectorPanel {
	return EntityInspectorPanel{}
}

func (ei *EntityInspectorPanel) Render(s *scene.Scene, selectedEntityId scene.EntityId, selected bool) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !selected {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	ei.selectedEntityId = selectedEntityId

	entity, err := s.GetEntity(ei.selectedEntityId)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", ei.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", entity.ID()))
	imgui.Text(fmt.Sprintf("Tag: %s", entity.Tag()))
	imgui.Text(fmt.Sprintf("Type: %T", entity))

	if m, ok := entity.(movable); ok {
		pos := m.Position()
		changed := ei.renderFloat("X", &pos.X)
		changed = ei.renderFloat("Y", &pos.Y) || changed
		changed = ei.renderFloat("Z", &pos.Z) || changed
		if changed {
			m.SetPosition(pos)
		}
	}
	imgui.Separator()

	val := reflect.ValueOf(entity)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	if val.Kind() == reflect.Struct {
		for _, field := range globalReflectionCache.GetFields(val.Type()) {
			fieldVal := val.Field(field.Index)
			if field.IsPointer && !fieldVal.IsNil() {
				fieldVal = fieldVal.Elem()
			}
			ei.renderField(field.Name, fieldVal, field)
		}
	}

	imgui.End()
}

func (ei *EntityInspectorPanel) renderFloat(name string, v *float32) bool {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	return imgui.InputFloat(fmt.Sprintf("##pos%s", name), v)
}

func (ei *EntityInspectorPanel) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Pointer && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch field.Widget {
	case WidgetInt:
		v := int32(val.Int())
		if ei.inputInt(name, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case WidgetUint:
		v := int32(val.Uint())
		if ei.inputInt(name, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case WidgetFloat:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case WidgetBool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case WidgetString:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case WidgetStruct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ei.renderField(name+"."+nf.Name, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case WidgetLen:
		imgui.Text(fmt.Sprintf("%s: %s[%d items]", name, val.Kind(), val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		}
	}
}

func (ei *EntityInspectorPanel) inputInt(name string, v *int32) bool {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	return imgui.InputInt(fmt.Sprintf("##%s", name), v)
}
