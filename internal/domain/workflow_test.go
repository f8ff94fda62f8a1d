package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/adapter/mocks"
	"github.com/mouse-blink/interpose/internal/host"
	m "github.com/mouse-blink/interpose/internal/model"
	"github.com/mouse-blink/interpose/internal/sandbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var exampleManifests = []string{
	"../../examples/context-menu.yaml",
	"../../examples/compendium-audit.yaml",
}

type sandboxRun struct {
	host     *sandbox.Host
	registry *ShimRegistry
	workflow Workflow
	metrics  *prometheus.Registry
}

func newSandboxRun(t *testing.T, store adapter.ManifestStore, compiler adapter.ScriptCompiler, cfg WorkflowConfig) *sandboxRun {
	t.Helper()

	h, err := sandbox.New(yaegi())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	recorder, err := adapter.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	cfg.Metrics = recorder
	resolver := NewResolver(h.Namespace())
	registry := NewShimRegistry(resolver, WithMetrics(recorder))

	return &sandboxRun{
		host:     h,
		registry: registry,
		workflow: NewWorkflow(store, compiler, registry, resolver, cfg),
		metrics:  reg,
	}
}

func (r *sandboxRun) render(t *testing.T, class string) {
	t.Helper()

	v, ok := r.host.Namespace().Lookup(class)
	require.True(t, ok)

	proto, ok := host.PrototypeOf(v.(*host.Object))
	require.True(t, ok)

	_, err := r.host.Invoke(proto, "render")
	require.NoError(t, err)
}

func eventNames(events []sandbox.Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}

	return names
}

func TestWorkflow_ApplyExamplesOnCurrentHost(t *testing.T) {
	run := newSandboxRun(t, adapter.NewManifestStore(), yaegi(), WorkflowConfig{HostVersion: "0.8.9"})

	results, err := run.workflow.Apply(context.Background(), exampleManifests)
	require.NoError(t, err)
	require.Len(t, results, 5)

	byFeature := make(map[string]m.FeatureResult)
	for _, r := range results {
		require.NoError(t, r.Err, r.Feature)
		byFeature[r.Feature] = r
	}

	assert.False(t, byFeature["compendium-entry-context"].Skipped)
	assert.Len(t, byFeature["compendium-entry-context"].Registrations, 1)
	assert.True(t, byFeature["compendium-entry-context-v9"].Skipped)
	assert.Equal(t, "../../examples/context-menu.yaml", byFeature["module-management-context"].Manifest)
	assert.Equal(t, "compendium-audit", byFeature["audit-load"].Owner)

	run.render(t, "Compendium")

	menus := run.host.Menus()
	require.Len(t, menus, 1)
	assert.Equal(t, "Compendium", menus[0].Owner)
	assert.Equal(t, ".directory-item", menus[0].Selector)
	assert.Equal(t, []any{"Import Entry", "Edit Entry", "Delete Entry"}, menus[0].Options)
	assert.Equal(t, []string{"_getCompendiumEntryContext"}, eventNames(run.host.Events()))

	run.render(t, "ModuleManagement")

	menus = run.host.Menus()
	require.Len(t, menus, 2)
	assert.Equal(t, "ModuleManagement", menus[1].Owner)
	assert.Equal(t, ".package", menus[1].Selector)
	assert.Equal(t,
		[]string{"_getCompendiumEntryContext", "moduleListeners", "_getModuleManagementEntryContext"},
		eventNames(run.host.Events()))

	snap, ok := run.registry.Chain("ModuleManagement.prototype.activateListeners")
	require.True(t, ok)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "context-menu-library", snap.Entries[0].Owner)
	assert.Equal(t, "compendium-audit", snap.Entries[1].Owner)
	assert.True(t, snap.OriginalReachable)
}

func TestWorkflow_ApplyExamplesOnNextHost(t *testing.T) {
	run := newSandboxRun(t, adapter.NewManifestStore(), yaegi(), WorkflowConfig{HostVersion: "9.0.0"})

	results, err := run.workflow.Apply(context.Background(), exampleManifests[:1])
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Skipped)
	assert.False(t, results[1].Skipped)
	require.NoError(t, results[1].Err)
	require.Len(t, results[1].Registrations, 1)
	assert.Equal(t, m.ModeOverride, results[1].Registrations[0].Mode)

	run.render(t, "Compendium")

	menus := run.host.Menus()
	require.Len(t, menus, 1)
	assert.Equal(t, []any{"Import Entry", "Edit Entry", "Delete Entry"}, menus[0].Options)

	_, ok := run.registry.Chain("Compendium.prototype.activateListeners")
	assert.False(t, ok)
}

func TestWorkflow_AsyncWrapperKeepsPending(t *testing.T) {
	run := newSandboxRun(t, adapter.NewManifestStore(), yaegi(), WorkflowConfig{HostVersion: sandbox.Version})

	_, err := run.workflow.Apply(context.Background(), exampleManifests[1:])
	require.NoError(t, err)

	v, _ := run.host.Namespace().Lookup("Compendium")
	proto, _ := host.PrototypeOf(v.(*host.Object))

	got, err := run.host.Invoke(proto, "load")
	require.NoError(t, err)
	assert.Equal(t, []any{"Goblin", "Owlbear", "Mimic"}, got)

	events := run.host.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "compendiumLoad", events[0].Name)
	assert.Equal(t, []any{"audit"}, events[0].Args)
}

func TestWorkflow_FailingFeatureLeavesHostUntouched(t *testing.T) {
	run := newSandboxRun(t, nil, yaegi(), WorkflowConfig{HostVersion: sandbox.Version})

	manifest := m.Manifest{
		Owner: "partial",
		Features: []m.Feature{
			{
				Name: "broken",
				Steps: []m.Step{
					{
						Kind:   m.StepWrap,
						Target: "Compendium.prototype.load",
						Mode:   m.ModeWrapper,
						Script: "func(this any, args ...any) (any, error) { return host.Continue(args[0]) }",
					},
					{
						Kind:    m.StepPatch,
						Target:  "Compendium.prototype._contextMenu",
						Mode:    m.ModeOverride,
						Anchors: []m.AnchorPatch{{Line: 1, Expected: "return nil, nil", Replacement: "return 1, nil"}},
					},
				},
			},
			{
				Name: "missing-target",
				Steps: []m.Step{
					{Kind: m.StepReplace, Target: "Compendium.prototype.nothing", Mode: m.ModeOverride, Script: "func(this any, args ...any) (any, error) { return nil, nil }"},
				},
			},
			{
				Name: "working",
				Steps: []m.Step{
					{Kind: m.StepDefine, Target: "Compendium.prototype.count", Script: "func(this any, args ...any) (any, error) { return 3, nil }"},
				},
			},
		},
	}

	results := run.workflow.ApplyManifest(manifest)
	require.Len(t, results, 3)

	require.ErrorIs(t, results[0].Err, ErrPatchMismatch)
	assert.Contains(t, results[0].Err.Error(), "step 1 (patch Compendium.prototype._contextMenu)")
	assert.Empty(t, results[0].Registrations)
	require.ErrorIs(t, results[1].Err, ErrTargetNotFound)
	require.NoError(t, results[2].Err)

	assert.Empty(t, run.registry.Chains())

	v, _ := run.host.Namespace().Lookup("Compendium")
	proto, _ := host.PrototypeOf(v.(*host.Object))

	count, err := run.host.Invoke(proto, "count")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	expected := `
# HELP interpose_failures_total Failed registrations and patches, by error kind.
# TYPE interpose_failures_total counter
interpose_failures_total{kind="patch_mismatch"} 1
interpose_failures_total{kind="target_not_found"} 1
`
	require.NoError(t, testutil.GatherAndCompare(run.metrics, strings.NewReader(expected), "interpose_failures_total"))
}

func TestWorkflow_UndefinableMemberFailsBeforeRegistering(t *testing.T) {
	run := newSandboxRun(t, nil, yaegi(), WorkflowConfig{HostVersion: sandbox.Version})

	v, _ := run.host.Namespace().Lookup("Compendium")
	proto, _ := host.PrototypeOf(v.(*host.Object))
	require.NoError(t, proto.DefineProperty("locked", host.Descriptor{Value: "locked"}))

	wrapLoad := m.Step{
		Kind:   m.StepWrap,
		Target: "Compendium.prototype.load",
		Mode:   m.ModeWrapper,
		Script: "func(this any, args ...any) (any, error) { return host.Continue(args[0]) }",
	}
	extra := m.Step{Kind: m.StepDefine, Target: "Compendium.prototype.extra", Script: "func(this any, args ...any) (any, error) { return nil, nil }"}

	results := run.workflow.ApplyManifest(m.Manifest{
		Owner: "partial",
		Features: []m.Feature{
			{
				Name: "locked-define",
				Steps: []m.Step{
					wrapLoad,
					{Kind: m.StepDefine, Target: "Compendium.prototype.locked", Script: "func(this any, args ...any) (any, error) { return nil, nil }"},
				},
			},
			{
				Name:  "double-define",
				Steps: []m.Step{wrapLoad, extra, extra},
			},
		},
	})
	require.Len(t, results, 2)

	require.ErrorIs(t, results[0].Err, ErrTargetNotFound)
	assert.Contains(t, results[0].Err.Error(), "step 1 (define Compendium.prototype.locked)")
	assert.Contains(t, results[0].Err.Error(), "not configurable")
	assert.Empty(t, results[0].Registrations)

	require.ErrorIs(t, results[1].Err, ErrTargetNotFound)
	assert.Contains(t, results[1].Err.Error(), "step 2 (define Compendium.prototype.extra)")
	assert.Empty(t, results[1].Registrations)

	assert.Empty(t, run.registry.Chains())

	_, defined := proto.OwnProperty("extra")
	assert.False(t, defined)

	expected := `
# HELP interpose_failures_total Failed registrations and patches, by error kind.
# TYPE interpose_failures_total counter
interpose_failures_total{kind="target_not_found"} 2
`
	require.NoError(t, testutil.GatherAndCompare(run.metrics, strings.NewReader(expected), "interpose_failures_total"))
}

func TestWorkflow_CompileFailureDisablesFeature(t *testing.T) {
	compiler := mocks.NewMockScriptCompiler(t)
	compiler.On("Compile", "load", "func (this any, args ...any) (any, error) { return nil }").
		Return(nil, errors.New("too few return values")).Once()

	run := newSandboxRun(t, nil, compiler, WorkflowConfig{HostVersion: sandbox.Version})

	results := run.workflow.ApplyManifest(m.Manifest{Owner: "bad", Features: []m.Feature{{
		Name: "bad-script",
		Steps: []m.Step{{
			Kind:   m.StepReplace,
			Target: "Compendium.prototype.load",
			Mode:   m.ModeOverride,
			Script: "(this any, args ...any) (any, error) { return nil }",
		}},
	}}})
	require.Len(t, results, 1)

	var compileErr *PatchCompileError
	require.ErrorAs(t, results[0].Err, &compileErr)
	assert.Equal(t, "load", compileErr.Function)
	assert.Empty(t, run.registry.Chains())
}

func TestWorkflow_VersionGate(t *testing.T) {
	run := newSandboxRun(t, nil, yaegi(), WorkflowConfig{HostVersion: "1.0.0"})

	results := run.workflow.ApplyManifest(m.Manifest{Owner: "gated", Features: []m.Feature{
		{Name: "old", When: "<1.0.0"},
		{Name: "bogus", When: ">=one"},
		{Name: "empty"},
	}})
	require.Len(t, results, 3)

	assert.True(t, results[0].Skipped)
	require.Error(t, results[1].Err)
	assert.False(t, results[1].Skipped)
	assert.NoError(t, results[2].Err)
	assert.False(t, results[2].Skipped)
}

func TestWorkflow_ApplyFiltersOwners(t *testing.T) {
	store := mocks.NewMockManifestStore(t)
	store.On("Load", mock.Anything, []string{"a.yaml", "b.yaml"}).Return([]m.Manifest{
		{Location: "a.yaml", Owner: "keep", Features: []m.Feature{{Name: "one"}}},
		{Location: "b.yaml", Owner: "drop", Features: []m.Feature{{Name: "two"}}},
	}, nil).Once()

	run := newSandboxRun(t, store, yaegi(), WorkflowConfig{HostVersion: sandbox.Version, Owners: []string{"keep"}})

	results, err := run.workflow.Apply(context.Background(), []string{"a.yaml", "b.yaml"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "keep", results[0].Owner)
	assert.Equal(t, "a.yaml", results[0].Manifest)
}

func TestWorkflow_ApplyLoadError(t *testing.T) {
	store := mocks.NewMockManifestStore(t)
	store.On("Load", mock.Anything, []string{"missing.yaml"}).Return(nil, errors.New("no such file")).Once()

	run := newSandboxRun(t, store, yaegi(), WorkflowConfig{HostVersion: sandbox.Version})

	_, err := run.workflow.Apply(context.Background(), []string{"missing.yaml"})
	require.ErrorContains(t, err, "failed to load manifests: no such file")
}

func TestWorkflow_ConflictBecomesWarning(t *testing.T) {
	run := newSandboxRun(t, nil, yaegi(), WorkflowConfig{HostVersion: sandbox.Version})

	replace := func(name string) m.Manifest {
		return m.Manifest{Owner: name, Features: []m.Feature{{
			Name: "replace-load",
			Steps: []m.Step{{
				Kind:   m.StepReplace,
				Target: "Compendium.prototype.load",
				Mode:   m.ModeOverride,
				Script: `async func(this any, args ...any) (any, error) { return "` + name + `", nil }`,
			}},
		}}}
	}

	first := run.workflow.ApplyManifest(replace("first"))
	require.NoError(t, first[0].Err)
	assert.Empty(t, first[0].Warnings)

	second := run.workflow.ApplyManifest(replace("second"))
	require.NoError(t, second[0].Err)
	require.Len(t, second[0].Warnings, 1)
	assert.Contains(t, second[0].Warnings[0], "shadowing earlier override(s) by first")

	v, _ := run.host.Namespace().Lookup("Compendium")
	proto, _ := host.PrototypeOf(v.(*host.Object))

	got, err := run.host.Invoke(proto, "load")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
