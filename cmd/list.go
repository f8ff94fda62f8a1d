package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List addressable targets of the sandbox host",
		Long: `List every member reachable from the sandbox host's global bindings down to
class prototypes, with its kind, async flag and source fingerprint. Native
members have no source and can only be wrapped or replaced.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newSession(sessionConfig{HostVersion: hostVersionFlag, Owners: ownerFlags})
			if err != nil {
				return err
			}

			return ui.DisplayTargets(s.host.Targets())
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
