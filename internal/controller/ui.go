// Package controller provides output adapters for displaying interposition
// targets, feature results and chains.
package controller

import (
	m "github.com/mouse-blink/interpose/internal/model"
)

// UI defines the interface for presenting interposition state.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayTargets(targets []m.TargetInfo) error
	DisplayResults(results []m.FeatureResult) error
	DisplayChains(chains []m.ChainSnapshot) error
	// BrowseChains lets the user explore chains. Non-interactive
	// implementations print them.
	BrowseChains(chains []m.ChainSnapshot) error
	DisplayInvocation(target string, result any, err error) error
	DisplayDump(label string, value any) error
}
