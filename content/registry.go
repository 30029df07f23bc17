package content

import (
	"errors"
	"fmt"
)

// Binding registers a processor with a pipeline.
type Binding func(p *Pipeline) error

// Bind returns a Binding for proc.
func Bind[T any](proc Processor[T]) Binding {
	return func(p *Pipeline) error {
		return RegisterProcessor(p, proc)
	}
}

// Warmer loads content ahead of first use and returns the matching release.
type Warmer func(p *Pipeline) (release func() error, err error)

// Warm returns a Warmer that keeps one reference to t until released.
func Warm[T any](t Type[T]) Warmer {
	return func(p *Pipeline) (func() error, error) {
		h, err := Load(p, t)
		if err != nil {
			return nil, err
		}
		return func() error { return Unload(p, h) }, nil
	}
}

// Registry binds processors during the registry Init phase and warms content
// during Load, when every registry's processors are bound. It satisfies
// registry.Registry.
type Registry struct {
	Pipeline *Pipeline
	Bindings []Binding
	Warm     []Warmer

	releases []func() error
}

// Init registers every binding and stops at the first failure.
func (r *Registry) Init() error {
	for _, bind := range r.Bindings {
		if err := bind(r.Pipeline); err != nil {
			return err
		}
	}
	return nil
}

// Load warms every declared descriptor. A failure unloads what was already
// warmed by this call.
func (r *Registry) Load() error {
	for i, warm := range r.Warm {
		release, err := warm(r.Pipeline)
		if err != nil {
			return errors.Join(fmt.Errorf("warm content %d: %w", i, err), r.Release())
		}
		r.releases = append(r.releases, release)
	}
	return nil
}

// Release drops the references taken by Load.
func (r *Registry) Release() error {
	var errs []error
	for _, release := range r.releases {
		if err := release(); err != nil {
			errs = append(errs, err)
		}
	}
	r.releases = nil
	return errors.Join(errs...)
}
