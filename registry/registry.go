// Package registry coordinates the startup of extension points that declare
// domain types (entity factories, content processors) before the frame loop runs.
//
// Startup is two-phase. Init is called on every registry in registration
// order, then Load is called on every registry in the same order. A registry's
// Load may therefore rely on declarations made by any other registry's Init.
// A failed phase leaves the manager failed; it cannot be restarted, because
// registries that already ran Init would declare their types twice.
//
// Registries are unique by concrete type. AddType takes the type from its type
// parameter, so it must be called with a concrete type:
//
//	registry.AddType(m, &content.Registry{...}) // R is *content.Registry
//
// A value held only as a Registry interface has no static concrete type. Add
// such values with AddKeyed, which makes them unique by an explicit name:
//
//	for name, r := range plugins { // map[string]registry.Registry
//		registry.AddKeyed(m, name, r)
//	}
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/plus3/stagekit/internal/typekey"
)

var (
	// ErrDuplicateRegistry is returned by AddType when a registry of the same
	// concrete type is already present. The rejection is not fatal.
	ErrDuplicateRegistry  = errors.New("registry type already added")
	ErrNotInitialized     = errors.New("registries not initialized")
	ErrAlreadyInitialized = errors.New("registries already initialized")
	ErrAlreadyLoaded      = errors.New("registries already loaded")
	// ErrStartupFailed is returned by Init and Load after an earlier phase failed.
	ErrStartupFailed = errors.New("registry startup failed")
)

// Registry is an extension point registered at startup.
type Registry interface {
	// Init declares types. It must not depend on other registries.
	Init() error
	// Load finishes setup and may use anything declared during Init.
	Load() error
}

type state int

const (
	statePending state = iota
	stateInitialized
	stateLoaded
	stateFailed
)

type entry struct {
	key      typekey.Key
	registry Registry
}

// Manager holds the registries of one process (or one test).
// It is not safe for concurrent use; all calls happen during startup.
type Manager struct {
	logger  *slog.Logger
	entries []entry
	keys    map[typekey.Key]struct{}
	state   state
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.Default(),
		keys:   make(map[typekey.Key]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddType appends r unless a registry of type R was already added.
// Rejected duplicates are logged and reported with ErrDuplicateRegistry; the
// manager is left unchanged.
//
// R must be a concrete type. Passing a value typed as an interface panics,
// because the concrete type would be lost; use AddKeyed for such values.
func AddType[R Registry](m *Manager, r R) error {
	if typekey.IsInterface[R]() {
		panic("registry.AddType: type parameter must be a concrete registry type, got an interface; use AddKeyed")
	}
	return m.add(typekey.Of[R](), r)
}

// AddKeyed appends r under name unless that name was already added. Keyed
// registries are not visible to Has and Get, which look up by type.
func AddKeyed(m *Manager, name string, r Registry) error {
	if r == nil {
		return fmt.Errorf("add registry %q: nil registry", name)
	}
	return m.add(typekey.Named(name), r)
}

func (m *Manager) add(key typekey.Key, r Registry) error {
	if _, exists := m.keys[key]; exists {
		m.logger.Error("registry rejected: type already added", "registry", key.String())
		return fmt.Errorf("%w: %s", ErrDuplicateRegistry, key)
	}

	m.keys[key] = struct{}{}
	m.entries = append(m.entries, entry{key: key, registry: r})
	m.logger.Info("registry added", "registry", key.String(), "count", len(m.entries))
	return nil
}

// Has reports whether a registry of type R was added.
func Has[R Registry](m *Manager) bool {
	_, ok := m.keys[typekey.Of[R]()]
	return ok
}

// Get returns the registry of type R, if added.
func Get[R Registry](m *Manager) (R, bool) {
	key := typekey.Of[R]()
	for _, e := range m.entries {
		if e.key == key {
			return e.registry.(R), true
		}
	}
	var zero R
	return zero, false
}

// Len returns the number of registries.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Names returns the registry type names in registration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.key.String()
	}
	return names
}

// Initialized reports whether Init completed.
func (m *Manager) Initialized() bool {
	return m.state == stateInitialized || m.state == stateLoaded
}

// Loaded reports whether Load completed.
func (m *Manager) Loaded() bool {
	return m.state == stateLoaded
}

// Failed reports whether Init or Load returned an error.
func (m *Manager) Failed() bool {
	return m.state == stateFailed
}

// Init calls Init on every registry in registration order and stops at the first failure.
func (m *Manager) Init() error {
	switch m.state {
	case stateFailed:
		return fmt.Errorf("init: %w", ErrStartupFailed)
	case stateInitialized, stateLoaded:
		return fmt.Errorf("init: %w", ErrAlreadyInitialized)
	}

	for _, e := range m.entries {
		if err := e.registry.Init(); err != nil {
			m.state = stateFailed
			return fmt.Errorf("init %s: %w", e.key, err)
		}
	}

	m.state = stateInitialized
	m.logger.Debug("registries initialized", "count", len(m.entries))
	return nil
}

// Load calls Load on every registry in registration order and stops at the
// first failure. It requires a completed Init.
func (m *Manager) Load() error {
	switch m.state {
	case statePending:
		return fmt.Errorf("load: %w", ErrNotInitialized)
	case stateLoaded:
		return fmt.Errorf("load: %w", ErrAlreadyLoaded)
	case stateFailed:
		return fmt.Errorf("load: %w", ErrStartupFailed)
	}

	for _, e := range m.entries {
		if err := e.registry.Load(); err != nil {
			m.state = stateFailed
			return fmt.Errorf("load %s: %w", e.key, err)
		}
	}

	m.state = stateLoaded
	m.logger.Debug("registries loaded", "count", len(m.entries))
	return nil
}

// Start runs Init followed by Load.
func (m *Manager) Start() error {
	if err := m.Init(); err != nil {
		return err
	}
	return m.Load()
}
