package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func TestAnimateScroll_Edges(t *testing.T) {
	if got := animateScroll("hello", 0, 0); got != "" {
		t.Fatalf("animateScroll width 0 = %q, want empty", got)
	}

	if got := animateScroll("hi", 5, 0); got != "hi" {
		t.Fatalf("animateScroll short text = %q, want hi", got)
	}

	if got := animateScroll("abcdef", 3, 0); got != "ab…" {
		t.Fatalf("animateScroll pause = %q, want ab…", got)
	}

	got := animateScroll("abcdef", 3, 10)
	if got == "ab…" || len([]rune(got)) != 3 {
		t.Fatalf("animateScroll scrolled = %q, want len 3 and not truncated", got)
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("hello", 0); got != "" {
		t.Fatalf("truncateToWidth width 0 = %q, want empty", got)
	}

	if got := truncateToWidth("hello", 10); got != "hello" {
		t.Fatalf("truncateToWidth no truncation = %q", got)
	}

	if got := truncateToWidth("hello", 2); got != "h…" {
		t.Fatalf("truncateToWidth width 2 = %q, want h…", got)
	}
}

func TestChainModel_View(t *testing.T) {
	cm := newChainModel(sampleChains())
	cm.width = 100
	cm.height = 30

	view := cm.View()
	for _, want := range []string{"Interposition Chains", "Chains: ", "Compendium.prototype._contextMenu", "#2 OVERRIDE", "original _contextMenu"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q\n%s", want, view)
		}
	}

	if cmd := cm.Init(); cmd == nil {
		t.Fatalf("Init() returned nil cmd")
	}
}

func TestChainModel_EmptyView(t *testing.T) {
	cm := newChainModel(nil)
	if cm.lastSelected != -1 {
		t.Fatalf("lastSelected = %d, want -1", cm.lastSelected)
	}

	if view := cm.View(); !strings.Contains(view, "No chains registered") {
		t.Fatalf("View() missing empty notice\n%s", view)
	}
}

func TestChainModel_UpdateBranches(t *testing.T) {
	cm := newChainModel(sampleChains())

	model, cmd := cm.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("expected tick cmd")
	}

	updated := model.(chainModel)
	if updated.animOffset != 1 {
		t.Fatalf("animOffset = %d, want 1", updated.animOffset)
	}

	model, _ = updated.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	updated = model.(chainModel)

	if updated.width != 100 || updated.height != 40 {
		t.Fatalf("window size not applied")
	}

	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	updated = model.(chainModel)

	if updated.lastSelected != 1 || updated.animOffset != 0 {
		t.Fatalf("selection change not tracked: selected=%d offset=%d", updated.lastSelected, updated.animOffset)
	}

	chain, ok := updated.selected()
	if !ok || chain.Target != "ModuleManagement.prototype.activateListeners" {
		t.Fatalf("selected() = %q, %v", chain.Target, ok)
	}

	if _, cmd = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatalf("expected quit cmd")
	}
}

func TestChainDelegate_Render(t *testing.T) {
	delegate := chainDelegate{}
	items := []list.Item{chainItem{chain: sampleChains()[0]}}
	l := list.New(items, delegate, 60, 5)

	var buf bytes.Buffer
	delegate.Render(&buf, l, 0, items[0])

	if !strings.Contains(buf.String(), "1/2") {
		t.Fatalf("render output missing live count\n%s", buf.String())
	}

	buf.Reset()
	delegate.Render(&buf, l, 0, struct{ list.Item }{})

	if buf.Len() != 0 {
		t.Fatalf("render of foreign item wrote %q", buf.String())
	}

	if delegate.Height() != 1 || delegate.Spacing() != 0 {
		t.Fatalf("unexpected delegate geometry")
	}
}

func TestChainItem_FilterValue(t *testing.T) {
	item := chainItem{chain: sampleChains()[0]}
	if got := item.FilterValue(); got != item.chain.Target {
		t.Fatalf("FilterValue() = %q, want %q", got, item.chain.Target)
	}
}
