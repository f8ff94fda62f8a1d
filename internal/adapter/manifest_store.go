// Package adapter holds the infrastructure behind the engine: manifest and
// report storage, script compilation, source fingerprints and metrics.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/interpose/internal/model"
)

// ManifestStore retrieves patch manifests from storage.
type ManifestStore interface {
	// Load fetches and decodes every location. The result keeps the order
	// of locations after directory expansion.
	Load(ctx context.Context, locations []string) ([]m.Manifest, error)
}

// AFSManifestStore loads manifests from any URL supported by afs
// (file://, mem://, and the registered remote schemes).
type AFSManifestStore struct {
	fs afs.Service
}

// NewManifestStore constructs a store backed by a fresh afs service.
func NewManifestStore() *AFSManifestStore {
	return &AFSManifestStore{fs: afs.New()}
}

// NewManifestStoreWith constructs a store backed by fs.
func NewManifestStoreWith(fs afs.Service) *AFSManifestStore {
	return &AFSManifestStore{fs: fs}
}

// Load implements ManifestStore. Local directories are expanded first, then
// every location is fetched concurrently.
func (s *AFSManifestStore) Load(ctx context.Context, locations []string) ([]m.Manifest, error) {
	locations, err := ExpandLocations(locations)
	if err != nil {
		return nil, err
	}

	out := make([]m.Manifest, len(locations))

	g, ctx := errgroup.WithContext(ctx)

	for i, location := range locations {
		g.Go(func() error {
			url, err := normalizeLocation(location)
			if err != nil {
				return err
			}

			data, err := s.fs.DownloadWithURL(ctx, url)
			if err != nil {
				return fmt.Errorf("failed to read manifest %s: %w", location, err)
			}

			manifest, err := ParseManifest(data)
			if err != nil {
				return fmt.Errorf("manifest %s: %w", location, err)
			}

			manifest.Location = location
			out[i] = manifest

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func normalizeLocation(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", location, err)
	}

	return "file://" + filepath.ToSlash(abs), nil
}

type manifestYAML struct {
	Owner    string        `yaml:"owner"`
	Features []featureYAML `yaml:"features"`
}

type featureYAML struct {
	Name  string     `yaml:"name"`
	When  string     `yaml:"when,omitempty"`
	Steps []stepYAML `yaml:"steps"`
}

type stepYAML struct {
	Kind    string       `yaml:"kind"`
	Target  string       `yaml:"target"`
	Define  string       `yaml:"define,omitempty"`
	Mode    string       `yaml:"mode,omitempty"`
	Anchors []anchorYAML `yaml:"anchors,omitempty"`
	Script  string       `yaml:"script,omitempty"`
	Bind    []any        `yaml:"bind,omitempty"`
}

type anchorYAML struct {
	Line        int    `yaml:"line"`
	Expected    string `yaml:"expected"`
	Replacement string `yaml:"replacement"`
	When        string `yaml:"when,omitempty"`
}

// ParseManifest decodes and validates a YAML manifest. Unknown fields are
// rejected so typos do not silently disable a patch.
func ParseManifest(data []byte) (m.Manifest, error) {
	var raw manifestYAML

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return m.Manifest{}, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	if raw.Owner == "" {
		return m.Manifest{}, fmt.Errorf("owner is required")
	}

	manifest := m.Manifest{Owner: raw.Owner, Features: make([]m.Feature, 0, len(raw.Features))}

	for fi, rf := range raw.Features {
		if rf.Name == "" {
			return m.Manifest{}, fmt.Errorf("feature %d: name is required", fi)
		}

		feature := m.Feature{Name: rf.Name, When: rf.When, Steps: make([]m.Step, 0, len(rf.Steps))}

		for si, rs := range rf.Steps {
			step, err := convertStep(rs)
			if err != nil {
				return m.Manifest{}, fmt.Errorf("feature %s step %d: %w", rf.Name, si, err)
			}

			feature.Steps = append(feature.Steps, step)
		}

		manifest.Features = append(manifest.Features, feature)
	}

	return manifest, nil
}

func convertStep(rs stepYAML) (m.Step, error) {
	step := m.Step{
		Kind:   m.StepKind(strings.ToLower(rs.Kind)),
		Target: rs.Target,
		Define: rs.Define,
		Script: rs.Script,
		Bind:   rs.Bind,
	}

	if step.Target == "" {
		return m.Step{}, fmt.Errorf("target is required")
	}

	for _, ra := range rs.Anchors {
		step.Anchors = append(step.Anchors, m.AnchorPatch{
			Line:        ra.Line,
			Expected:    ra.Expected,
			Replacement: ra.Replacement,
			When:        ra.When,
		})
	}

	switch step.Kind {
	case m.StepPatch:
		if len(step.Anchors) == 0 {
			return m.Step{}, fmt.Errorf("patch requires anchors")
		}

		step.Mode = m.ModeOverride
	case m.StepReplace:
		step.Mode = m.ModeOverride
	case m.StepWrap:
		mode := m.ModeWrapper

		if rs.Mode != "" {
			var err error

			mode, err = m.ParseMode(rs.Mode)
			if err != nil {
				return m.Step{}, err
			}
		}

		if !mode.Chained() {
			return m.Step{}, fmt.Errorf("wrap cannot use mode %s, use kind replace", mode)
		}

		step.Mode = mode
	case m.StepDefine:
	default:
		return m.Step{}, fmt.Errorf("unknown step kind %q", rs.Kind)
	}

	if step.Kind != m.StepPatch && strings.TrimSpace(step.Script) == "" {
		return m.Step{}, fmt.Errorf("%s requires a script", step.Kind)
	}

	return step, nil
}
