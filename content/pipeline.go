package content

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUnregisteredKind   = errors.New("no processor registered for content kind")
	ErrDuplicateProcessor = errors.New("processor already registered for content kind")
	// ErrUnknownHandle is returned when unloading a handle the pipeline does
	// not hold: one already fully unloaded, released by Close, or never issued.
	ErrUnknownHandle = errors.New("handle not loaded")
	// ErrLoadFailed matches every *LoadError.
	ErrLoadFailed = errors.New("content load failed")
)

// LoadError reports a processor failure. Nothing is cached for a failed load.
type LoadError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s(%s): %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// binding is a registered processor. Its sequence number keeps singleflight
// keys distinct for kinds whose printed names collide.
type binding struct {
	seq  int
	proc any
}

type entry struct {
	key     cacheKey
	handle  any
	refs    int
	release func() error
}

// Pipeline dispatches loads to the processor registered for each kind and
// caches the results by kind and path with a reference count.
//
// Pipeline is safe for concurrent use. No lock is held while a processor
// runs, so a processor may load other content through the same pipeline.
// A processor must not load the very descriptor it is loading.
type Pipeline struct {
	mu              sync.Mutex
	logger          *slog.Logger
	loadConcurrency int
	processors      map[Kind]binding
	cache           map[cacheKey]*entry
	group           singleflight.Group
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithLoadConcurrency bounds the number of concurrent processor calls made by LoadAll.
func WithLoadConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.loadConcurrency = n
	}
}

// NewPipeline creates a pipeline with no processors.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:          slog.Default(),
		loadConcurrency: 4,
		processors:      make(map[Kind]binding),
		cache:           make(map[cacheKey]*entry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterProcessor binds proc to kind T. Each kind can be bound once.
func RegisterProcessor[T any](p *Pipeline, proc Processor[T]) error {
	kind := KindOf[T]()
	if proc == nil {
		return fmt.Errorf("register processor for %s: nil processor", kind)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.processors[kind]; exists {
		return fmt.Errorf("register processor for %s: %w", kind, ErrDuplicateProcessor)
	}
	p.processors[kind] = binding{seq: len(p.processors), proc: proc}
	p.logger.Debug("content processor registered", "kind", kind.String())
	return nil
}

// HasProcessor reports whether kind T is bound.
func HasProcessor[T any](p *Pipeline) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.processors[KindOf[T]()]
	return ok
}

// Load returns a handle to the content described by t, loading it through the
// kind's processor on a cache miss and taking a reference on a hit.
// Concurrent first loads of the same descriptor call the processor once.
func Load[T any](p *Pipeline, t Type[T]) (*Handle[T], error) {
	key := cacheKey{kind: t.Kind(), path: t.Path}

	for {
		p.mu.Lock()
		b, ok := p.processors[key.kind]
		if !ok {
			p.mu.Unlock()
			return nil, fmt.Errorf("load %s: %w", key, ErrUnregisteredKind)
		}
		if e, hit := p.cache[key]; hit {
			e.refs++
			refs := e.refs
			p.mu.Unlock()
			p.logger.Debug("content cache hit", "content", key.String(), "refs", refs)
			return e.handle.(*Handle[T]), nil
		}
		p.mu.Unlock()

		flightKey := strconv.Itoa(b.seq) + "\x00" + key.path
		v, err, _ := p.group.Do(flightKey, func() (any, error) {
			return loadEntry(p, b.proc.(Processor[T]), key)
		})
		if err != nil {
			return nil, err
		}

		e := v.(*entry)
		p.mu.Lock()
		if p.cache[key] != e {
			// Every other holder unloaded the entry before we took our
			// reference, so its resource is gone. Start over.
			p.mu.Unlock()
			continue
		}
		e.refs++
		p.mu.Unlock()
		return e.handle.(*Handle[T]), nil
	}
}

// loadEntry runs the processor and caches the result with no references.
func loadEntry[T any](p *Pipeline, proc Processor[T], key cacheKey) (*entry, error) {
	p.mu.Lock()
	if e, hit := p.cache[key]; hit {
		p.mu.Unlock()
		return e, nil
	}
	p.mu.Unlock()

	resource, err := proc.Load(key.path)
	if err != nil {
		p.logger.Debug("content load failed", "content", key.String(), "error", err)
		return nil, &LoadError{Kind: key.kind, Path: key.path, Err: err}
	}

	e := &entry{
		key:     key,
		handle:  &Handle[T]{key: key, value: resource},
		release: func() error { return proc.Unload(resource) },
	}

	p.mu.Lock()
	p.cache[key] = e
	p.mu.Unlock()

	p.logger.Debug("content loaded", "content", key.String())
	return e, nil
}

// Unload drops one reference to h. The last reference evicts the entry and
// releases the resource through its processor.
func Unload[T any](p *Pipeline, h *Handle[T]) error {
	if h == nil {
		return fmt.Errorf("unload: nil handle: %w", ErrUnknownHandle)
	}

	p.mu.Lock()
	e, ok := p.cache[h.key]
	if !ok || e.handle != any(h) || e.refs <= 0 {
		p.mu.Unlock()
		return fmt.Errorf("unload %s: %w", h.key, ErrUnknownHandle)
	}

	e.refs--
	if e.refs > 0 {
		p.mu.Unlock()
		return nil
	}
	delete(p.cache, h.key)
	p.mu.Unlock()

	p.logger.Debug("content evicted", "content", h.key.String())
	if err := e.release(); err != nil {
		return fmt.Errorf("unload %s: %w", h.key, err)
	}
	return nil
}

// LoadAll loads every descriptor, running up to the configured number of
// processor calls at once. If any load fails, the handles already obtained
// are unloaded and the first error is returned, joined with any failures to
// release them.
func LoadAll[T any](ctx context.Context, p *Pipeline, types ...Type[T]) ([]*Handle[T], error) {
	handles := make([]*Handle[T], len(types))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.loadConcurrency, 1))
	for i, t := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := Load(p, t)
			if err != nil {
				return err
			}
			handles[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs := []error{err}
		for _, h := range handles {
			if h != nil {
				errs = append(errs, Unload(p, h))
			}
		}
		return nil, errors.Join(errs...)
	}
	return handles, nil
}

// RefCount returns the number of outstanding references to t, zero if not cached.
func RefCount[T any](p *Pipeline, t Type[T]) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.cache[cacheKey{kind: t.Kind(), path: t.Path}]; ok {
		return e.refs
	}
	return 0
}

// EntryStats describes one cached resource.
type EntryStats struct {
	Kind string
	Path string
	Refs int
}

// Stats returns the cached resources ordered by kind and path.
func (p *Pipeline) Stats() []EntryStats {
	p.mu.Lock()
	stats := make([]EntryStats, 0, len(p.cache))
	for key, e := range p.cache {
		stats = append(stats, EntryStats{Kind: key.kind.String(), Path: key.path, Refs: e.refs})
	}
	p.mu.Unlock()

	slices.SortFunc(stats, func(a, b EntryStats) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Path, b.Path))
	})
	return stats
}

// Kinds returns the names of the bound kinds, sorted.
func (p *Pipeline) Kinds() []string {
	p.mu.Lock()
	kinds := make([]string, 0, len(p.processors))
	for kind := range p.processors {
		kinds = append(kinds, kind.String())
	}
	p.mu.Unlock()

	slices.Sort(kinds)
	return kinds
}

// Len returns the number of cached resources.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}

// Close releases every cached resource regardless of reference counts and
// empties the cache. Processors stay registered. Every release is attempted;
// failures are logged and joined.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	entries := make([]*entry, 0, len(p.cache))
	for _, e := range p.cache {
		entries = append(entries, e)
	}
	clear(p.cache)
	p.mu.Unlock()

	slices.SortFunc(entries, func(a, b *entry) int {
		return cmp.Or(cmp.Compare(a.key.kind.String(), b.key.kind.String()), cmp.Compare(a.key.path, b.key.path))
	})

	var errs []error
	for _, e := range entries {
		if err := e.release(); err != nil {
			p.logger.Warn("content release failed", "content", e.key.String(), "error", err)
			errs = append(errs, fmt.Errorf("release %s: %w", e.key, err))
		}
	}
	return errors.Join(errs...)
}
