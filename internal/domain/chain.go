package domain

import (
	"sync"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

type entry struct {
	reg      m.Registration
	behavior host.Behavior
	bound    []any
	chained  bool
}

// chain is the ordered set of entries for one target, innermost first, with
// the pre-registration behavior below them.
type chain struct {
	key      string
	object   string
	member   string
	original *host.Function
	metrics  adapter.MetricsRecorder

	mu      sync.RWMutex
	entries []entry
}

func (c *chain) add(e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, e)
}

// dispatch is installed on the target. The outermost entry runs first.
func (c *chain) dispatch(this any, args ...any) (any, error) {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	c.metrics.Dispatched(c.key)

	return c.call(entries, len(entries)-1, this, args)
}

func (c *chain) call(entries []entry, i int, this any, args []any) (any, error) {
	if i < 0 {
		return c.original.Call(this, args...)
	}

	e := entries[i]

	callArgs := make([]any, 0, len(e.bound)+len(args))
	callArgs = append(callArgs, e.bound...)
	callArgs = append(callArgs, args...)

	if !e.chained {
		return e.behavior(this, nil, callArgs...)
	}

	next := host.Next(func(nextArgs ...any) (any, error) {
		return c.call(entries, i-1, this, nextArgs)
	})

	return e.behavior(this, next, callArgs...)
}

// activeOverrides lists owners of unchained entries still reachable from
// the outermost link.
func (c *chain) activeOverrides() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var owners []string

	for i := len(c.entries) - 1; i >= 0; i-- {
		if !c.entries[i].chained {
			owners = append(owners, c.entries[i].reg.Owner)

			break
		}
	}

	return owners
}

func (c *chain) snapshot() m.ChainSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := m.ChainSnapshot{
		Target:            c.key,
		Object:            c.object,
		Member:            c.member,
		Original:          c.original.Name,
		OriginalReachable: true,
		Entries:           make([]m.EntrySnapshot, len(c.entries)),
	}

	reachable := true

	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		snap.Entries[i] = m.EntrySnapshot{Registration: e.reg, Reachable: reachable}

		if !e.chained {
			reachable = false
		}
	}

	snap.OriginalReachable = reachable

	return snap
}
