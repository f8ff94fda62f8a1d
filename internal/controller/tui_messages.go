package controller

import (
	m "github.com/mouse-blink/interpose/internal/model"
)

// List item types.
type chainItem struct {
	chain m.ChainSnapshot
}

func (c chainItem) FilterValue() string {
	return c.chain.Target
}

// reachable counts entries that still run when the target is called.
func (c chainItem) reachable() int {
	n := 0

	for _, entry := range c.chain.Entries {
		if entry.Reachable {
			n++
		}
	}

	return n
}
