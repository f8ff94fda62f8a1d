package domain

import (
	"log/slog"
	"sync"

	"github.com/mouse-blink/interpose/internal/host"
)

// RegistryBinding is the global name under which a registry implementation
// announces itself to other add-ons.
const RegistryBinding = "libWrapper"

type fallbackMarker interface {
	IsFallback() bool
}

// Guard picks the registry every registration goes through. A registry
// bound at RegistryBinding wins when it reports IsFallback() == false; a
// missing marker counts as a fallback. Otherwise the local registry is
// used. The decision is made once.
type Guard struct {
	ns     *host.Namespace
	local  func() Registry
	logger *slog.Logger

	once     sync.Once
	registry Registry
	external bool
}

// NewGuard constructs a Guard. local is only called when no external
// registry qualifies.
func NewGuard(ns *host.Namespace, local func() Registry, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}

	return &Guard{
		ns:     ns,
		local:  local,
		logger: logger.With(slog.String("component", "guard")),
	}
}

// Registry returns the authoritative registry.
func (g *Guard) Registry() Registry {
	g.once.Do(g.bind)

	return g.registry
}

// External reports whether an already loaded registry was adopted.
func (g *Guard) External() bool {
	g.once.Do(g.bind)

	return g.external
}

func (g *Guard) bind() {
	if v, ok := g.ns.Lookup(RegistryBinding); ok {
		registry, isRegistry := v.(Registry)
		marker, hasMarker := v.(fallbackMarker)

		if isRegistry && hasMarker && !marker.IsFallback() {
			g.registry = registry
			g.external = true
			g.logger.Info("using loaded registry", slog.String("binding", RegistryBinding))

			return
		}

		g.logger.Debug("ignoring fallback registry", slog.String("binding", RegistryBinding))
	}

	g.registry = g.local()
}
