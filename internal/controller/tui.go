package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/interpose/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	input   io.Reader
	options []tea.ProgramOption
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// DisplayTargets prints the addressable members of the host.
func (t *TUI) DisplayTargets(targets []m.TargetInfo) error {
	t.printf("%s\n", headingStyle.Render(fmt.Sprintf("Targets (%d)", len(targets))))

	for _, target := range targets {
		flags := string(target.Kind)
		if target.Async {
			flags += " async"
		}

		if target.Native {
			flags += " native"
		}

		t.printf("  %-52s %s %s\n", target.Path, mutedStyle.Render(flags), mutedStyle.Render(target.Fingerprint))
	}

	return nil
}

// DisplayResults prints one line per feature.
func (t *TUI) DisplayResults(results []m.FeatureResult) error {
	t.printf("%s\n", headingStyle.Render(fmt.Sprintf("Features (%d)", len(results))))

	for _, result := range results {
		name := result.Owner + "/" + result.Feature

		switch featureStatus(result) {
		case statusDisabled:
			t.printf("  %s %s: %v\n", errStyle.Render("✗"), name, result.Err)
		case statusSkipped:
			t.printf("  %s %s\n", mutedStyle.Render("-"), name)
		default:
			t.printf("  %s %s (%d registrations)\n", okStyle.Render("✓"), name, len(result.Registrations))
		}

		for _, warning := range result.Warnings {
			t.printf("    %s %s\n", warnStyle.Render("!"), warning)
		}
	}

	return nil
}

// DisplayChains prints every chain, outermost entry first.
func (t *TUI) DisplayChains(chains []m.ChainSnapshot) error {
	t.printf("%s\n", headingStyle.Render(fmt.Sprintf("Chains (%d)", len(chains))))

	for _, chain := range chains {
		t.printf("  %s\n", chain.Target)

		for i := len(chain.Entries) - 1; i >= 0; i-- {
			entry := chain.Entries[i]
			style := okStyle

			if !entry.Reachable {
				style = mutedStyle
			}

			t.printf("    %s\n", style.Render(fmt.Sprintf("#%d %-8s %s", entry.ID, entry.Mode, entry.Owner)))
		}
	}

	return nil
}

// BrowseChains opens the interactive chain browser.
func (t *TUI) BrowseChains(chains []m.ChainSnapshot) error {
	return t.runModel(newChainModel(chains))
}

// DisplayInvocation prints the outcome of calling a target.
func (t *TUI) DisplayInvocation(target string, result any, err error) error {
	if err != nil {
		t.printf("%s %s: %v\n", errStyle.Render("invoke"), target, err)

		return err
	}

	t.printf("%s %s: %v\n", okStyle.Render("invoke"), target, result)

	return nil
}

// DisplayDump prints a deep dump of value.
func (t *TUI) DisplayDump(label string, value any) error {
	t.printf("%s\n%s", headingStyle.Render(label), dumpConfig.Sdump(value))

	return nil
}

func (t *TUI) runModel(model tea.Model) error {
	opts := append([]tea.ProgramOption{tea.WithOutput(t.output)}, t.options...)
	if t.input != nil {
		opts = append(opts, tea.WithInput(t.input))
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("chain browser: %w", err)
	}

	return nil
}

func (t *TUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.output, format, args...)
}
