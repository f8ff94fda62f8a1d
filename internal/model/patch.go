package model

// AnchorPatch is a verified line-level text substitution. Line is the
// zero-based index of the line (or statement) in the callable's source.
type AnchorPatch struct {
	Line        int
	Expected    string
	Replacement string
	// When optionally limits the anchor to matching host versions.
	When string
}

// StepKind names the action of a manifest step.
type StepKind string

const (
	// StepPatch applies anchored edits to the target and overrides it with
	// the result, or defines the result elsewhere when Step.Define is set.
	StepPatch StepKind = "patch"
	// StepReplace overrides the target with a script.
	StepReplace StepKind = "replace"
	// StepWrap wraps the target with a script that receives a continuation.
	StepWrap StepKind = "wrap"
	// StepDefine installs a script as a new member.
	StepDefine StepKind = "define"
)

// Step is one action of a feature.
type Step struct {
	Kind    StepKind
	Target  string
	Define  string
	Mode    Mode
	Anchors []AnchorPatch
	Script  string
	Bind    []any
}

// Feature groups steps that are activated or disabled together.
type Feature struct {
	Name  string
	When  string
	Steps []Step
}

// Manifest is a set of features contributed by one add-on.
type Manifest struct {
	Location string
	Owner    string
	Features []Feature
}
