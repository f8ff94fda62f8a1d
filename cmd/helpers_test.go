package cmd

import (
	"bytes"
	"testing"

	"github.com/mouse-blink/interpose/internal/controller"
	"github.com/spf13/cobra"
)

// useUI swaps the global UI for the duration of the test.
func useUI(t *testing.T, replacement controller.UI) {
	t.Helper()

	original := ui
	ui = replacement

	t.Cleanup(func() { ui = original })
}

// useSession swaps the session factory for the duration of the test.
func useSession(t *testing.T, factory func(sessionConfig) (*session, error)) {
	t.Helper()

	original := newSession
	newSession = factory

	t.Cleanup(func() { newSession = original })
}

// newTestRoot builds a root command with sub and a SimpleUI writing to the
// returned buffer.
func newTestRoot(t *testing.T, sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.AddCommand(sub)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	useUI(t, controller.NewSimpleUI(cmd))

	return cmd, &out
}
