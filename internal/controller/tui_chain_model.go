package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/interpose/internal/model"
)

type tickMsg time.Time

// chainDelegate renders one chain per line.
type chainDelegate struct {
	offset int
}

func (d chainDelegate) Height() int  { return 1 }
func (d chainDelegate) Spacing() int { return 0 }
func (d chainDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d chainDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	chain, ok := item.(chainItem)
	if !ok {
		return
	}

	isSelected := index == l.Index()

	var pathStyle, countStyle lipgloss.Style

	var displayPath string

	width := l.Width() - 8

	if isSelected {
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(6).
			Align(lipgloss.Right)

		displayPath = animateScroll(chain.chain.Target, width, d.offset)
	} else {
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(6).
			Align(lipgloss.Right)

		displayPath = truncateToWidth(chain.chain.Target, width)
	}

	line := fmt.Sprintf("%s  %s",
		countStyle.Render(fmt.Sprintf("%d/%d", chain.reachable(), len(chain.chain.Entries))),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	// Create the repeating pattern: text + gap
	// We work with runes to handle multi-byte characters correctly
	runes := []rune(text + gap)
	n := len(runes)

	if n == 0 {
		return ""
	}

	start := effectiveStep % n

	// Construct the window
	res := make([]rune, 0, width)
	for i := range width {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// chainModel browses interposition chains: a filterable list of targets and
// the entries of the selected one.
type chainModel struct {
	width        int
	height       int
	chainList    list.Model
	delegate     chainDelegate
	chains       []m.ChainSnapshot
	animOffset   int
	lastSelected int
}

func newChainModel(chains []m.ChainSnapshot) chainModel {
	delegate := chainDelegate{}

	items := make([]list.Item, 0, len(chains))
	for _, chain := range chains {
		items = append(items, chainItem{chain: chain})
	}

	chainList := list.New(items, delegate, 80, 20)
	chainList.SetShowPagination(false)
	chainList.SetShowFilter(true)
	chainList.SetShowHelp(false)
	chainList.SetShowTitle(false)
	chainList.SetShowStatusBar(false)
	chainList.FilterInput.Placeholder = "Filter by target…"

	selected := -1
	if len(items) > 0 {
		selected = 0
	}

	return chainModel{
		chainList:    chainList,
		delegate:     delegate,
		chains:       chains,
		lastSelected: selected,
	}
}

func (cm chainModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (cm chainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cm.width = msg.Width
		cm.height = msg.Height
		cm.chainList.SetWidth(cm.width)

	case tickMsg:
		if cm.chainList.FilterState() == list.Filtering {
			return cm, nil
		}

		cm.animOffset++
		cm.delegate.offset = cm.animOffset
		cm.chainList.SetDelegate(cm.delegate)

		return cm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return cm, tea.Quit
		default:
			cm.chainList, cmd = cm.chainList.Update(msg)

			// Restart the scroll animation on selection change.
			if cm.chainList.Index() != cm.lastSelected {
				cm.lastSelected = cm.chainList.Index()
				cm.animOffset = 0
				cm.delegate.offset = 0
				cm.chainList.SetDelegate(cm.delegate)
			}

			return cm, cmd
		}
	}

	return cm, cmd
}

func (cm chainModel) selected() (m.ChainSnapshot, bool) {
	item, ok := cm.chainList.SelectedItem().(chainItem)
	if !ok {
		return m.ChainSnapshot{}, false
	}

	return item.chain, true
}

func (cm chainModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("Interposition Chains")

	entries := 0
	for _, chain := range cm.chains {
		entries += len(chain.Entries)
	}

	summary := summaryStyle.Render(fmt.Sprintf(
		"Chains: %s   Entries: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(cm.chains))),
		accentStyle.Render(fmt.Sprintf("%d", entries)),
	))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(cm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		cm.renderTable(),
		cm.renderDetail(),
		footer,
	)
}

func (cm chainModel) renderTable() string {
	// Title, summary, detail and footer take roughly half the screen.
	listHeight := cm.height/2 - 4
	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := cm.width - 6
	if listWidth < 20 {
		listWidth = 74
	}

	cm.chainList.SetHeight(listHeight)
	cm.chainList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%6s  %s", "Live", "Target"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			cm.chainList.View(),
		),
	)
}

func (cm chainModel) renderDetail() string {
	chain, ok := cm.selected()
	if !ok {
		return mutedStyle.Padding(0, 2).Render("No chains registered")
	}

	lines := []string{headingStyle.Render(chain.Target)}

	for i := len(chain.Entries) - 1; i >= 0; i-- {
		entry := chain.Entries[i]
		style := okStyle

		if !entry.Reachable {
			style = mutedStyle
		}

		lines = append(lines, style.Render(fmt.Sprintf("#%d %-8s %s", entry.ID, entry.Mode, entry.Owner)))
	}

	origin := okStyle
	if !chain.OriginalReachable {
		origin = mutedStyle
	}

	lines = append(lines, origin.Render("original "+chain.Original))

	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
