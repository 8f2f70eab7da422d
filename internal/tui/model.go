// Package tui provides an interactive leaderboard viewer built on
// bubbletea.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okaimono/sage/internal/ranking"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	standingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// Model holds the leaderboard viewer state.
type Model struct {
	result    *ranking.Result
	requester string
	table     table.Model
	keymap    KeyMap
	width     int
	height    int
	quitting  bool
}

// Config holds the viewer configuration.
type Config struct {
	Result    *ranking.Result
	Requester string
	Width     int
	Height    int
}

func newModel(cfg Config) Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: 24},
		{Title: "Net Saved", Width: 12},
		{Title: "Overpaid", Width: 10},
	}

	rows := make([]table.Row, 0, len(cfg.Result.Rankings))
	cursor := 0
	for i, entry := range cfg.Result.Rankings {
		name := entry.UserID
		if entry.Nickname != nil && *entry.Nickname != "" {
			name = *entry.Nickname
		}
		if entry.UserID == cfg.Requester {
			name += " (you)"
			cursor = i
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", entry.Rank),
			name,
			fmt.Sprintf("%d円", entry.TotalSaved),
			fmt.Sprintf("%d円", entry.TotalOverpaid),
		})
	}

	height := cfg.Height
	if height <= 0 {
		height = 15
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1A1A1A")).
		Background(lipgloss.Color("#4ECDC4")).
		Bold(true)
	t.SetStyles(styles)
	t.SetCursor(cursor)

	return Model{
		result:    cfg.Result,
		requester: cfg.Requester,
		table:     t,
		keymap:    DefaultKeyMap(),
		width:     cfg.Width,
		height:    height,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Home):
			m.table.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.End):
			m.table.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.Me):
			m.jumpToRequester()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) jumpToRequester() {
	for i, entry := range m.result.Rankings {
		if entry.UserID == m.requester {
			m.table.SetCursor(i)
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render("📊 Net Savings Leaderboard")

	standing := ""
	if m.result.MyRank != nil {
		standing = standingStyle.Render(fmt.Sprintf(
			"Your rank: %d (net %d円, overpaid %d円)",
			*m.result.MyRank, m.result.MyTotalSaved, m.result.MyTotalOverpaid))
	} else if m.requester != "" {
		standing = footerStyle.Render("You have no savings records yet.")
	}

	help := footerStyle.Render("↑/↓ move · g/G top/bottom · m my rank · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		baseStyle.Render(m.table.View()),
		standing,
		help,
	)
}
