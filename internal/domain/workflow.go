package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
)

// Workflow activates manifest features against a host.
type Workflow interface {
	// Apply loads the manifests at locations and applies each of them.
	Apply(ctx context.Context, locations []string) ([]m.FeatureResult, error)
	// ApplyManifest applies the features of one manifest in order. A
	// failing feature is reported in its result and does not stop the
	// others.
	ApplyManifest(manifest m.Manifest) []m.FeatureResult
}

// WorkflowConfig carries the optional collaborators of a Workflow.
type WorkflowConfig struct {
	HostVersion string
	// Owners limits Apply to manifests of these owners. Empty allows all.
	Owners  []string
	Logger  *slog.Logger
	Metrics adapter.MetricsRecorder
}

type workflow struct {
	store    adapter.ManifestStore
	compiler adapter.ScriptCompiler
	registry Registry
	resolver *Resolver
	patcher  *Patcher
	version  string
	owners   []string
	logger   *slog.Logger
	metrics  adapter.MetricsRecorder
}

// NewWorkflow creates a Workflow that registers through registry.
func NewWorkflow(
	store adapter.ManifestStore,
	compiler adapter.ScriptCompiler,
	registry Registry,
	resolver *Resolver,
	cfg WorkflowConfig,
) Workflow {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = adapter.NopRecorder{}
	}

	return &workflow{
		store:    store,
		compiler: compiler,
		registry: registry,
		resolver: resolver,
		patcher:  NewPatcher(compiler, logger),
		version:  cfg.HostVersion,
		owners:   cfg.Owners,
		logger:   logger.With(slog.String("component", "workflow")),
		metrics:  metrics,
	}
}

func (w *workflow) Apply(ctx context.Context, locations []string) ([]m.FeatureResult, error) {
	manifests, err := w.store.Load(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}

	var results []m.FeatureResult

	for _, manifest := range manifests {
		if len(w.owners) > 0 && !slices.Contains(w.owners, manifest.Owner) {
			w.logger.Info("manifest filtered out", slog.String("owner", manifest.Owner), slog.String("location", manifest.Location))

			continue
		}

		results = append(results, w.ApplyManifest(manifest)...)
	}

	return results, nil
}

func (w *workflow) ApplyManifest(manifest m.Manifest) []m.FeatureResult {
	monkey := NewMonkey(manifest.Owner, w.registry, w.resolver, w.patcher)
	results := make([]m.FeatureResult, 0, len(manifest.Features))

	for _, feature := range manifest.Features {
		result := w.applyFeature(monkey, feature)
		result.Manifest = manifest.Location
		results = append(results, result)
	}

	return results
}

// action performs the mutation of one prepared step.
type action func() (*Handle, error)

// applyFeature prepares every step before running any of them, so a feature
// whose assumptions do not hold leaves the host untouched.
func (w *workflow) applyFeature(monkey *Monkey, feature m.Feature) m.FeatureResult {
	result := m.FeatureResult{Owner: monkey.Owner(), Feature: feature.Name}
	logger := w.logger.With(slog.String("owner", monkey.Owner()), slog.String("feature", feature.Name))

	ok, err := MatchVersion(feature.When, w.version)
	if err != nil {
		return w.fail(logger, result, err)
	}

	if !ok {
		logger.Info("feature skipped", slog.String("when", feature.When), slog.String("host_version", w.version))

		result.Skipped = true

		return result
	}

	actions := make([]action, 0, len(feature.Steps))
	defines := make(map[string]bool)

	for i, step := range feature.Steps {
		act, err := w.prepare(monkey, step, defines)
		if err != nil {
			return w.fail(logger, result, fmt.Errorf("step %d (%s %s): %w", i, step.Kind, step.Target, err))
		}

		actions = append(actions, act)
	}

	for i, act := range actions {
		handle, err := act()
		if err != nil {
			return w.fail(logger, result, fmt.Errorf("step %d: %w", i, err))
		}

		if handle == nil {
			continue
		}

		result.Registrations = append(result.Registrations, handle.Registration)

		if handle.Conflict != nil {
			result.Warnings = append(result.Warnings, handle.Conflict.Error())
		}
	}

	logger.Info("feature activated", slog.Int("registrations", len(result.Registrations)))

	return result
}

func (w *workflow) fail(logger *slog.Logger, result m.FeatureResult, err error) m.FeatureResult {
	w.metrics.Failed(errorKind(err))
	logger.Warn("feature disabled", slog.String("error", err.Error()))

	result.Err = err

	return result
}

func (w *workflow) prepare(monkey *Monkey, step m.Step, defines map[string]bool) (action, error) {
	opts := []RegisterOption{WithBoundArgs(step.Bind...)}

	switch step.Kind {
	case m.StepPatch:
		anchors, err := w.activeAnchors(step.Anchors)
		if err != nil {
			return nil, err
		}

		patched, err := monkey.PatchTarget(step.Target, anchors)
		if err != nil {
			return nil, err
		}

		if step.Define != "" {
			if err := checkDefine(monkey, step.Define, defines); err != nil {
				return nil, err
			}

			return defineAction(monkey, step.Define, patched), nil
		}

		return registerAction(monkey, step.Target, Override(patched), m.ModeOverride, opts), nil
	case m.StepReplace, m.StepWrap:
		if _, err := monkey.Current(step.Target); err != nil {
			return nil, err
		}

		fn, err := w.compile(step.Target, step.Script)
		if err != nil {
			return nil, err
		}

		behavior := Override(fn)
		if step.Kind == m.StepWrap {
			behavior = Wrapper(fn)
		}

		return registerAction(monkey, step.Target, behavior, step.Mode, opts), nil
	case m.StepDefine:
		if err := checkDefine(monkey, step.Target, defines); err != nil {
			return nil, err
		}

		fn, err := w.compile(step.Target, step.Script)
		if err != nil {
			return nil, err
		}

		return defineAction(monkey, step.Target, fn), nil
	default:
		return nil, fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (w *workflow) activeAnchors(anchors []m.AnchorPatch) ([]m.AnchorPatch, error) {
	out := make([]m.AnchorPatch, 0, len(anchors))

	for _, anchor := range anchors {
		ok, err := MatchVersion(anchor.When, w.version)
		if err != nil {
			return nil, fmt.Errorf("anchor at line %d: %w", anchor.Line, err)
		}

		if ok {
			out = append(out, anchor)
		}
	}

	return out, nil
}

func (w *workflow) compile(target, script string) (*host.Function, error) {
	path, err := ParseTargetPath(target)
	if err != nil {
		return nil, err
	}

	text := Normalize(script)

	fn, err := w.compiler.Compile(path.Member(), text)
	if err != nil {
		return nil, &PatchCompileError{Function: path.Member(), Text: text, Err: err}
	}

	return fn, nil
}

// checkDefine fails when path cannot take a new member now or was already
// claimed by an earlier define of the same feature.
func checkDefine(monkey *Monkey, path string, defines map[string]bool) error {
	p, _, err := monkey.CheckDefine(path)
	if err != nil {
		return err
	}

	key := p.String()
	if defines[key] {
		return &TargetNotFoundError{Target: path, Reason: "member is defined twice in one feature"}
	}

	defines[key] = true

	return nil
}

func registerAction(monkey *Monkey, target string, behavior host.Behavior, mode m.Mode, opts []RegisterOption) action {
	return func() (*Handle, error) {
		handle, err := monkey.Register(target, behavior, mode, opts...)
		if err != nil {
			return nil, err
		}

		return &handle, nil
	}
}

func defineAction(monkey *Monkey, path string, fn *host.Function) action {
	return func() (*Handle, error) {
		return nil, monkey.Define(path, fn)
	}
}
