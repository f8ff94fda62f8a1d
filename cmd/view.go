package cmd

import (
	"github.com/spf13/cobra"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [manifests...]",
		Short: "Apply manifests and browse the resulting chains",
		Long:  "Apply manifests like apply does, then browse the interposition chains interactively on a terminal.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, results, err := applyManifests(cmd, args)
			if err != nil {
				return err
			}

			if err := ui.DisplayResults(results); err != nil {
				return err
			}

			return ui.BrowseChains(s.chains())
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
