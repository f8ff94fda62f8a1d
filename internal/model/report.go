package model

// Registration identifies one behavior registered against a target.
type Registration struct {
	ID     uint64
	Owner  string
	Target string
	Mode   Mode
}

// EntrySnapshot describes one link of a chain. Reachable is false for links
// hidden behind an override.
type EntrySnapshot struct {
	Registration
	Reachable bool
}

// ChainSnapshot is a read-only view of an interposition chain. Entries are
// ordered innermost first, i.e. in registration order.
type ChainSnapshot struct {
	Target            string
	Object            string
	Member            string
	Original          string
	OriginalReachable bool
	Entries           []EntrySnapshot
}

// FeatureResult holds the outcome of activating one manifest feature.
type FeatureResult struct {
	Manifest      string
	Owner         string
	Feature       string
	Skipped       bool
	Registrations []Registration
	Warnings      []string
	Err           error
}

// TargetKind classifies an addressable member.
type TargetKind string

const (
	// KindMethod is a data property holding a function.
	KindMethod TargetKind = "method"
	// KindAccessor is a getter/setter pair.
	KindAccessor TargetKind = "accessor"
	// KindValue is any other data property.
	KindValue TargetKind = "value"
)

// TargetInfo describes an addressable member of the host graph.
type TargetInfo struct {
	Path         string
	Kind         TargetKind
	Async        bool
	Native       bool
	Configurable bool
	Fingerprint  string
}

// RunReport is the persisted outcome of one apply run.
type RunReport struct {
	HostVersion string
	Results     []FeatureResult
	Chains      []ChainSnapshot
}
