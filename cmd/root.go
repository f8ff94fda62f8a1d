// Package cmd provides the root command and CLI setup for interpose.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mouse-blink/interpose/internal/controller"
	"github.com/mouse-blink/interpose/internal/sandbox"
	"github.com/spf13/cobra"
)

var ui controller.UI

var logLevelFlag string
var hostVersionFlag string
var ownerFlags []string

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interpose",
		Short: "Dynamic interposition engine for host application members",
		Long: `Interpose lets independent add-ons change named functions and methods of a
host application. Changes are declared in manifests and applied either as
verified source patches or as links of a shared wrapper chain.

Manifests are read from any location understood by the storage layer:
  - ./patches.yaml          local file
  - ./patches               every manifest in a directory
  - ./patches/...           every manifest below a directory
  - file:///abs/path.yaml   file URL
  - mem://localhost/x.yaml  in-memory (tests)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogging(cmd.ErrOrStderr(), logLevelFlag)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&hostVersionFlag, "host-version", sandbox.Version, "host release used to evaluate 'when' constraints")
	cmd.PersistentFlags().StringArrayVar(&ownerFlags, "owner", nil, "only apply manifests of this owner (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func configureLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))

	return nil
}
