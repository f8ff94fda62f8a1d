package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/interpose/internal/model"
)

const reportFileMode = 0o644

// ReportStore persists and retrieves apply run reports.
type ReportStore interface {
	SaveReport(ctx context.Context, location string, report m.RunReport) error
	LoadReport(ctx context.Context, location string) (m.RunReport, error)
}

// AFSReportStore writes reports as YAML to any afs URL.
type AFSReportStore struct {
	fs afs.Service
}

// NewReportStore constructs a ReportStore backed by a fresh afs service.
func NewReportStore() *AFSReportStore {
	return &AFSReportStore{fs: afs.New()}
}

// NewReportStoreWith constructs a ReportStore backed by fs.
func NewReportStoreWith(fs afs.Service) *AFSReportStore {
	return &AFSReportStore{fs: fs}
}

type reportYAML struct {
	HostVersion string              `yaml:"hostVersion"`
	Features    []featureReportYAML `yaml:"features"`
	Chains      []chainYAML         `yaml:"chains,omitempty"`
}

type featureReportYAML struct {
	Manifest      string             `yaml:"manifest,omitempty"`
	Owner         string             `yaml:"owner"`
	Feature       string             `yaml:"feature"`
	Skipped       bool               `yaml:"skipped,omitempty"`
	Registrations []registrationYAML `yaml:"registrations,omitempty"`
	Warnings      []string           `yaml:"warnings,omitempty"`
	Error         string             `yaml:"error,omitempty"`
}

type registrationYAML struct {
	ID        uint64 `yaml:"id"`
	Owner     string `yaml:"owner"`
	Target    string `yaml:"target"`
	Mode      string `yaml:"mode"`
	Reachable *bool  `yaml:"reachable,omitempty"`
}

type chainYAML struct {
	Target            string             `yaml:"target"`
	Object            string             `yaml:"object"`
	Member            string             `yaml:"member"`
	Original          string             `yaml:"original"`
	OriginalReachable bool               `yaml:"originalReachable"`
	Entries           []registrationYAML `yaml:"entries"`
}

// SaveReport implements ReportStore.
func (s *AFSReportStore) SaveReport(ctx context.Context, location string, report m.RunReport) error {
	url, err := normalizeLocation(location)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(toReportYAML(report))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := s.fs.Upload(ctx, url, reportFileMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", location, err)
	}

	return nil
}

// LoadReport implements ReportStore. Feature errors come back as plain
// errors carrying the recorded message.
func (s *AFSReportStore) LoadReport(ctx context.Context, location string) (m.RunReport, error) {
	url, err := normalizeLocation(location)
	if err != nil {
		return m.RunReport{}, err
	}

	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return m.RunReport{}, fmt.Errorf("failed to read report %s: %w", location, err)
	}

	var raw reportYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return m.RunReport{}, fmt.Errorf("failed to parse report %s: %w", location, err)
	}

	return fromReportYAML(raw)
}

func toReportYAML(report m.RunReport) reportYAML {
	out := reportYAML{HostVersion: report.HostVersion}

	for _, r := range report.Results {
		fr := featureReportYAML{
			Manifest: r.Manifest,
			Owner:    r.Owner,
			Feature:  r.Feature,
			Skipped:  r.Skipped,
			Warnings: r.Warnings,
		}

		if r.Err != nil {
			fr.Error = r.Err.Error()
		}

		for _, reg := range r.Registrations {
			fr.Registrations = append(fr.Registrations, registrationYAML{ID: reg.ID, Owner: reg.Owner, Target: reg.Target, Mode: reg.Mode.String()})
		}

		out.Features = append(out.Features, fr)
	}

	for _, c := range report.Chains {
		cy := chainYAML{
			Target:            c.Target,
			Object:            c.Object,
			Member:            c.Member,
			Original:          c.Original,
			OriginalReachable: c.OriginalReachable,
		}

		for _, e := range c.Entries {
			reachable := e.Reachable
			cy.Entries = append(cy.Entries, registrationYAML{
				ID:        e.ID,
				Owner:     e.Owner,
				Target:    e.Target,
				Mode:      e.Mode.String(),
				Reachable: &reachable,
			})
		}

		out.Chains = append(out.Chains, cy)
	}

	return out
}

func fromReportYAML(raw reportYAML) (m.RunReport, error) {
	report := m.RunReport{HostVersion: raw.HostVersion}

	for _, fr := range raw.Features {
		r := m.FeatureResult{
			Manifest: fr.Manifest,
			Owner:    fr.Owner,
			Feature:  fr.Feature,
			Skipped:  fr.Skipped,
			Warnings: fr.Warnings,
		}

		if fr.Error != "" {
			r.Err = errors.New(fr.Error)
		}

		for _, ry := range fr.Registrations {
			reg, err := fromRegistrationYAML(ry)
			if err != nil {
				return m.RunReport{}, fmt.Errorf("feature %s: %w", fr.Feature, err)
			}

			r.Registrations = append(r.Registrations, reg)
		}

		report.Results = append(report.Results, r)
	}

	for _, cy := range raw.Chains {
		c := m.ChainSnapshot{
			Target:            cy.Target,
			Object:            cy.Object,
			Member:            cy.Member,
			Original:          cy.Original,
			OriginalReachable: cy.OriginalReachable,
		}

		for _, ry := range cy.Entries {
			reg, err := fromRegistrationYAML(ry)
			if err != nil {
				return m.RunReport{}, fmt.Errorf("chain %s: %w", cy.Target, err)
			}

			c.Entries = append(c.Entries, m.EntrySnapshot{Registration: reg, Reachable: ry.Reachable != nil && *ry.Reachable})
		}

		report.Chains = append(report.Chains, c)
	}

	return report, nil
}

func fromRegistrationYAML(ry registrationYAML) (m.Registration, error) {
	mode, err := m.ParseMode(ry.Mode)
	if err != nil {
		return m.Registration{}, err
	}

	return m.Registration{ID: ry.ID, Owner: ry.Owner, Target: ry.Target, Mode: mode}, nil
}
