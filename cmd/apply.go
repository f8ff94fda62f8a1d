package cmd

import (
	"fmt"

	"github.com/mouse-blink/interpose/internal/adapter"
	m "github.com/mouse-blink/interpose/internal/model"
	"github.com/spf13/cobra"
)

var applyInvokeFlags []string
var applyMetricsFlag bool
var applyDumpFlag bool
var applyReportFlag string

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [manifests...]",
		Short: "Apply patch manifests to the sandbox host",
		Long: `Apply patch manifests to the sandbox host and print the outcome of every
feature followed by the resulting chains. A feature whose anchors no longer
match the host is disabled on its own; the rest still apply.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, results, err := applyManifests(cmd, args)
			if err != nil {
				return err
			}

			if err := ui.DisplayResults(results); err != nil {
				return err
			}

			if err := ui.DisplayChains(s.chains()); err != nil {
				return err
			}

			return report(cmd, s, results)
		},
	}
	addApplyFlags(cmd)

	return cmd
}

func addApplyFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&applyInvokeFlags, "invoke", "i", nil, "call a target after applying, e.g. Compendium.prototype.render (can be repeated)")
	cmd.Flags().BoolVar(&applyMetricsFlag, "metrics", false, "print engine metrics in Prometheus text format")
	cmd.Flags().BoolVar(&applyDumpFlag, "dump", false, "dump chains and recorded host activity")
	cmd.Flags().StringVar(&applyReportFlag, "report", "", "write a YAML run report to this path or URL")
}

func applyManifests(cmd *cobra.Command, locations []string) (*session, []m.FeatureResult, error) {
	s, err := newSession(sessionConfig{HostVersion: hostVersionFlag, Owners: ownerFlags})
	if err != nil {
		return nil, nil, err
	}

	results, err := s.workflow.Apply(cmd.Context(), locations)
	if err != nil {
		return nil, nil, err
	}

	return s, results, nil
}

func report(cmd *cobra.Command, s *session, results []m.FeatureResult) error {
	for _, target := range applyInvokeFlags {
		result, err := s.invoke(target)
		if err := ui.DisplayInvocation(target, result, err); err != nil {
			return err
		}
	}

	if applyDumpFlag {
		if err := ui.DisplayDump("chains", s.chains()); err != nil {
			return err
		}

		if err := ui.DisplayDump("menus", s.host.Menus()); err != nil {
			return err
		}

		if err := ui.DisplayDump("events", s.host.Events()); err != nil {
			return err
		}
	}

	if applyReportFlag != "" {
		run := m.RunReport{HostVersion: hostVersionFlag, Results: results, Chains: s.chains()}
		if err := s.reports.SaveReport(cmd.Context(), applyReportFlag, run); err != nil {
			return err
		}
	}

	if applyMetricsFlag {
		if err := adapter.WriteMetrics(cmd.OutOrStdout(), s.metrics); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
