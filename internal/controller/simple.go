package controller

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	m "github.com/mouse-blink/interpose/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayTargets prints the addressable members of the host.
func (s *SimpleUI) DisplayTargets(targets []m.TargetInfo) error {
	table, buf := newTable([]string{"Target", "Kind", "Async", "Native", "Fingerprint"})

	for _, target := range targets {
		table.Append([]string{
			target.Path,
			string(target.Kind),
			yesNo(target.Async),
			yesNo(target.Native),
			target.Fingerprint,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Targets %d", len(targets)), "", "", "", ""})
	table.Render()
	s.printf("\n%s", buf.String())

	return nil
}

// DisplayResults prints one row per feature followed by its warnings.
func (s *SimpleUI) DisplayResults(results []m.FeatureResult) error {
	table, buf := newTable([]string{"Owner", "Feature", "Status", "Registrations"})

	var notes []string

	active := 0

	for _, result := range results {
		status := featureStatus(result)
		if status == statusActive {
			active++
		}

		table.Append([]string{result.Owner, result.Feature, status, fmt.Sprintf("%d", len(result.Registrations))})

		if result.Err != nil {
			notes = append(notes, fmt.Sprintf("%s/%s: %v", result.Owner, result.Feature, result.Err))
		}

		for _, warning := range result.Warnings {
			notes = append(notes, fmt.Sprintf("%s/%s: warning: %s", result.Owner, result.Feature, warning))
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Features %d", len(results)), "", fmt.Sprintf("%d active", active), ""})
	table.Render()
	s.printf("\n%s", buf.String())

	for _, note := range notes {
		s.printf("%s\n", note)
	}

	return nil
}

// DisplayChains prints every chain, outermost entry first.
func (s *SimpleUI) DisplayChains(chains []m.ChainSnapshot) error {
	table, buf := newTable([]string{"Target", "Order", "Owner", "Mode", "Reachable"})

	for _, chain := range chains {
		for i := len(chain.Entries) - 1; i >= 0; i-- {
			entry := chain.Entries[i]
			table.Append([]string{
				chain.Target,
				fmt.Sprintf("%d", len(chain.Entries)-i),
				entry.Owner,
				entry.Mode.String(),
				yesNo(entry.Reachable),
			})
		}

		table.Append([]string{chain.Target, "-", "original:" + chain.Original, "", yesNo(chain.OriginalReachable)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Chains %d", len(chains)), "", "", "", ""})
	table.Render()
	s.printf("\n%s", buf.String())

	return nil
}

// BrowseChains prints the chains; plain output has nothing to browse.
func (s *SimpleUI) BrowseChains(chains []m.ChainSnapshot) error {
	return s.DisplayChains(chains)
}

// DisplayInvocation prints the outcome of calling a target.
func (s *SimpleUI) DisplayInvocation(target string, result any, err error) error {
	if err != nil {
		s.printf("invoke %s: error: %v\n", target, err)

		return err
	}

	s.printf("invoke %s: %v\n", target, result)

	return nil
}

// DisplayDump prints a deep dump of value.
func (s *SimpleUI) DisplayDump(label string, value any) error {
	s.printf("%s:\n%s", label, dumpConfig.Sdump(value))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                6,
}

const (
	statusActive   = "active"
	statusSkipped  = "skipped"
	statusDisabled = "disabled"
)

func featureStatus(result m.FeatureResult) string {
	switch {
	case result.Err != nil:
		return statusDisabled
	case result.Skipped:
		return statusSkipped
	default:
		return statusActive
	}
}

func newTable(header []string) (*tablewriter.Table, *bytes.Buffer) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	alignments := make([]int, len(header))
	for i := range alignments {
		alignments[i] = tablewriter.ALIGN_LEFT
	}

	table.SetColumnAlignment(alignments)

	return table, &buf
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
