// Package content loads assets through per-kind processors and shares the
// loaded resources between callers with reference counting.
//
// A kind is a Go type: the type a Processor produces. Descriptors, processors
// and handles are all parameterized by that type, so dispatch is resolved by
// the compiler and the pipeline never inspects resources at runtime.
package content

import (
	"fmt"

	"github.com/plus3/stagekit/internal/typekey"
)

// Kind identifies a content kind.
type Kind struct {
	key typekey.Key
}

// KindOf returns the Kind of resources of type T.
func KindOf[T any]() Kind {
	return Kind{key: typekey.Of[T]()}
}

func (k Kind) String() string {
	return k.key.String()
}

// Type describes a piece of content: a source path and, through T, its kind.
// Paths are not checked until the content is loaded.
type Type[T any] struct {
	Path string
}

// TypeOf returns the descriptor for the content of kind T at path.
func TypeOf[T any](path string) Type[T] {
	return Type[T]{Path: path}
}

// Kind returns the descriptor's kind.
func (t Type[T]) Kind() Kind {
	return KindOf[T]()
}

func (t Type[T]) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind(), t.Path)
}

// Processor loads and releases resources of one kind.
// Implementations hold no per-asset state and must tolerate concurrent calls
// for different paths.
type Processor[T any] interface {
	Load(path string) (T, error)
	Unload(resource T) error
}

// ProcessorFuncs adapts a pair of functions to Processor.
// A nil UnloadFunc releases nothing.
type ProcessorFuncs[T any] struct {
	LoadFunc   func(path string) (T, error)
	UnloadFunc func(resource T) error
}

func (p ProcessorFuncs[T]) Load(path string) (T, error) {
	return p.LoadFunc(path)
}

func (p ProcessorFuncs[T]) Unload(resource T) error {
	if p.UnloadFunc == nil {
		return nil
	}
	return p.UnloadFunc(resource)
}

type cacheKey struct {
	kind Kind
	path string
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s(%s)", k.kind, k.path)
}

// Handle is a reference to a loaded resource. Every successful Load returns
// a Handle that must be passed to Unload exactly once. Loads of the same
// descriptor return the same *Handle while the resource stays cached.
type Handle[T any] struct {
	key   cacheKey
	value T
}

// Value returns the loaded resource.
func (h *Handle[T]) Value() T { return h.value }

// Path returns the path the resource was loaded from.
func (h *Handle[T]) Path() string { return h.key.path }

// Kind returns the resource kind.
func (h *Handle[T]) Kind() Kind { return h.key.kind }
