package model

import (
	"fmt"
	"strings"
)

// Mode selects how a registered behavior is dispatched.
type Mode int

const (
	// ModeWrapper receives a continuation and is expected to call it.
	ModeWrapper Mode = iota + 1
	// ModeMixed receives a continuation and may skip it.
	ModeMixed
	// ModeOverride replaces the chain; no continuation is offered.
	ModeOverride
)

// String returns the upper-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeWrapper:
		return "WRAPPER"
	case ModeMixed:
		return "MIXED"
	case ModeOverride:
		return "OVERRIDE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Chained reports whether behaviors in this mode receive a continuation.
func (m Mode) Chained() bool {
	return m != ModeOverride
}

// ParseMode accepts mode names in any case and the numeric forms 1, 2 and 3.
// An empty string yields ModeMixed.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return ModeMixed, nil
	case "WRAPPER", "1":
		return ModeWrapper, nil
	case "MIXED", "2":
		return ModeMixed, nil
	case "OVERRIDE", "3":
		return ModeOverride, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}
