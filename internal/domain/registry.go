package domain

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

// Registry installs behaviors on named members and composes them into
// chains. Implementations must keep one chain per target.
type Registry interface {
	// Register adds behavior to the chain of target, creating and
	// installing the chain on first use.
	Register(owner string, target string, behavior host.Behavior, mode m.Mode, opts ...RegisterOption) (Handle, error)
}

// ChainInspector exposes the chains a registry owns.
type ChainInspector interface {
	Chain(target string) (m.ChainSnapshot, bool)
	Chains() []m.ChainSnapshot
	Original(target string) (*host.Function, bool)
}

// Handle is returned by Register. Conflict is set when the registration
// shadows an earlier override; it is advisory only.
type Handle struct {
	m.Registration
	Conflict *ChainConflict
}

// RegisterOption customizes a registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	bound   []any
	chained *bool
}

// WithBoundArgs prefixes args to every call of the behavior, after the
// continuation.
func WithBoundArgs(args ...any) RegisterOption {
	return func(c *registerConfig) {
		c.bound = append(c.bound, args...)
	}
}

// WithChain forces (true) or suppresses (false) the continuation regardless
// of mode.
func WithChain(chain bool) RegisterOption {
	return func(c *registerConfig) {
		c.chained = &chain
	}
}

// ShimRegistry is the built-in Registry used when no richer implementation
// is loaded in the process.
type ShimRegistry struct {
	resolver *Resolver
	logger   *slog.Logger
	metrics  adapter.MetricsRecorder

	mu     sync.RWMutex
	chains map[string]*chain
	nextID uint64
}

// ShimOption configures a ShimRegistry.
type ShimOption func(*ShimRegistry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ShimOption {
	return func(r *ShimRegistry) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics adapter.MetricsRecorder) ShimOption {
	return func(r *ShimRegistry) {
		r.metrics = metrics
	}
}

// NewShimRegistry constructs an empty registry resolving targets with
// resolver.
func NewShimRegistry(resolver *Resolver, opts ...ShimOption) *ShimRegistry {
	r := &ShimRegistry{
		resolver: resolver,
		logger:   slog.Default(),
		metrics:  adapter.NopRecorder{},
		chains:   make(map[string]*chain),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.With(slog.String("component", "registry"))

	return r
}

// IsFallback marks the shim so a CompatibilityGuard never prefers it over a
// richer registry.
func (r *ShimRegistry) IsFallback() bool {
	return true
}

// Register implements Registry.
func (r *ShimRegistry) Register(owner string, target string, behavior host.Behavior, mode m.Mode, opts ...RegisterOption) (Handle, error) {
	if behavior == nil {
		return Handle{}, fmt.Errorf("register %s: nil behavior", target)
	}

	if mode < m.ModeWrapper || mode > m.ModeOverride {
		return Handle{}, fmt.Errorf("register %s: invalid mode %s", target, mode)
	}

	cfg := registerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	chained := mode.Chained()
	if cfg.chained != nil {
		chained = *cfg.chained
	}

	path, err := ParseTargetPath(target)
	if err != nil {
		r.metrics.Failed("target_not_found")

		return Handle{}, err
	}

	key := path.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.chains[key]
	if !ok {
		c, err = r.install(target, key)
		if err != nil {
			r.metrics.Failed("target_not_found")
			r.logger.Warn("registration failed", slog.String("owner", owner), slog.String("target", target), slog.String("error", err.Error()))

			return Handle{}, err
		}

		r.chains[key] = c
	}

	r.nextID++
	handle := Handle{Registration: m.Registration{ID: r.nextID, Owner: owner, Target: key, Mode: mode}}

	if !chained {
		if shadowed := c.activeOverrides(); len(shadowed) > 0 {
			handle.Conflict = &ChainConflict{Target: key, Owner: owner, Shadowed: shadowed}
			r.metrics.Conflict(key)
			r.logger.Warn("override shadows earlier override",
				slog.String("target", key),
				slog.String("owner", owner),
				slog.Any("shadowed", shadowed))
		}
	}

	c.add(entry{
		reg:      handle.Registration,
		behavior: behavior,
		bound:    slices.Clone(cfg.bound),
		chained:  chained,
	})

	r.metrics.Registered(key, mode)
	r.logger.Debug("registered", slog.String("owner", owner), slog.String("target", key), slog.String("mode", mode.String()))

	return handle, nil
}

// install resolves the target, captures its current behavior as the
// innermost link, and puts a dispatcher in its place.
func (r *ShimRegistry) install(target, key string) (*chain, error) {
	resolved, err := r.resolver.Resolve(target)
	if err != nil {
		return nil, err
	}

	original, err := resolved.Callable()
	if err != nil {
		return nil, err
	}

	c := &chain{
		key:      key,
		object:   resolved.Owner.Name(),
		member:   resolved.Member,
		original: original,
		metrics:  r.metrics,
	}

	dispatcher := &host.Function{Name: original.Name, Async: original.Async, Fn: c.dispatch}

	desc := resolved.Descriptor

	switch {
	case resolved.IsSetter:
		desc.Set = dispatcher
	case desc.IsAccessor():
		desc.Get = dispatcher
	default:
		desc.Value = dispatcher
	}

	desc.Configurable = true

	if err := resolved.Owner.DefineProperty(resolved.Member, desc); err != nil {
		return nil, &TargetNotFoundError{Target: target, Reason: err.Error()}
	}

	r.logger.Debug("installed dispatcher",
		slog.String("target", key),
		slog.String("object", resolved.Owner.Name()),
		slog.String("defined_on", resolved.DefinedOn.Name()))

	return c, nil
}

// Chain implements ChainInspector.
func (r *ShimRegistry) Chain(target string) (m.ChainSnapshot, bool) {
	path, err := ParseTargetPath(target)
	if err != nil {
		return m.ChainSnapshot{}, false
	}

	r.mu.RLock()
	c, ok := r.chains[path.String()]
	r.mu.RUnlock()

	if !ok {
		return m.ChainSnapshot{}, false
	}

	return c.snapshot(), true
}

// Chains implements ChainInspector. Chains are sorted by target.
func (r *ShimRegistry) Chains() []m.ChainSnapshot {
	r.mu.RLock()
	keys := make([]string, 0, len(r.chains))

	for key := range r.chains {
		keys = append(keys, key)
	}

	r.mu.RUnlock()

	slices.Sort(keys)

	out := make([]m.ChainSnapshot, 0, len(keys))

	for _, key := range keys {
		if snap, ok := r.Chain(key); ok {
			out = append(out, snap)
		}
	}

	return out
}

// Original implements ChainInspector.
func (r *ShimRegistry) Original(target string) (*host.Function, bool) {
	path, err := ParseTargetPath(target)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chains[path.String()]
	if !ok {
		return nil, false
	}

	return c.original, true
}
