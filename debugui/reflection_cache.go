package debugui

import (
	"reflect"
	"sync"
)

// Widget selects the ImGui control used to edit a field.
type Widget int

const (
	WidgetText Widget = iota
	WidgetInt
	WidgetUint
	WidgetFloat
	WidgetBool
	WidgetString
	WidgetStruct
	WidgetLen
)

func widgetFor(k reflect.Kind) Widget {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return WidgetInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return WidgetUint
	case reflect.Float32, reflect.Float64:
		return WidgetFloat
	case reflect.Bool:
		return WidgetBool
	case reflect.String:
		return WidgetString
	case reflect.Struct:
		return WidgetStruct
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return WidgetLen
	default:
		return WidgetText
	}
}

// FieldInfo describes one exported field of an entity struct.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	Widget    Widget
}

// ReflectionCache memoizes the inspectable fields of entity struct types.
// Embedded fields such as scene.Base, and the fields they promote, are skipped.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for _, field := range reflect.VisibleFields(t) {
			if !field.IsExported() || field.Anonymous || len(field.Index) != 1 {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Pointer
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     field.Index[0],
				IsPointer: isPointer,
				Widget:    widgetFor(fieldType.Kind()),
			})
		}
	}

	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

var globalReflectionCache = NewReflectionCache()
