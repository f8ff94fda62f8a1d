package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrTargetNotFound = errors.New("target not found")
	ErrPatchMismatch  = errors.New("patch mismatch")
	ErrPatchCompile   = errors.New("patch compile error")
	ErrChainConflict  = errors.New("chain conflict")
)

// TargetNotFoundError reports a path that does not resolve to a configurable
// member.
type TargetNotFoundError struct {
	Target string
	Reason string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("%q does not exist, could not be found, or has a non-configurable descriptor: %s", e.Target, e.Reason)
}

// Is matches ErrTargetNotFound.
func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// PatchMismatchError reports an anchor whose live content differs from the
// expected text. No edit of the patch set has been applied.
type PatchMismatchError struct {
	Function    string
	Anchor      int
	Expected    string
	Actual      string
	OutOfRange  bool
	Source      string
	Fingerprint string
}

func (e *PatchMismatchError) Error() string {
	actual := e.Actual
	if e.OutOfRange {
		actual = "<no such line>"
	}

	return fmt.Sprintf("cannot patch %s: wrong content at line %d: %q != %q (source %s)",
		e.Function, e.Anchor, actual, e.Expected, e.Fingerprint)
}

// Is matches ErrPatchMismatch.
func (e *PatchMismatchError) Is(target error) bool {
	return target == ErrPatchMismatch
}

// PatchCompileError reports reconstructed text that is not a valid
// standalone callable. Text holds the full reconstructed text.
type PatchCompileError struct {
	Function string
	Text     string
	Err      error
}

func (e *PatchCompileError) Error() string {
	return fmt.Sprintf("cannot compile patched %s: %v\n%s", e.Function, e.Err, e.Text)
}

// Unwrap returns the compiler error.
func (e *PatchCompileError) Unwrap() error {
	return e.Err
}

// Is matches ErrPatchCompile.
func (e *PatchCompileError) Is(target error) bool {
	return target == ErrPatchCompile
}

// ChainConflict is an advisory: an override registration shadows earlier
// overrides on the same target. The registration itself succeeded.
type ChainConflict struct {
	Target   string
	Owner    string
	Shadowed []string
}

func (e *ChainConflict) Error() string {
	return fmt.Sprintf("%s overrides %s, shadowing earlier override(s) by %s",
		e.Owner, e.Target, strings.Join(e.Shadowed, ", "))
}

// Is matches ErrChainConflict.
func (e *ChainConflict) Is(target error) bool {
	return target == ErrChainConflict
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrTargetNotFound):
		return "target_not_found"
	case errors.Is(err, ErrPatchMismatch):
		return "patch_mismatch"
	case errors.Is(err, ErrPatchCompile):
		return "patch_compile"
	default:
		return "other"
	}
}
