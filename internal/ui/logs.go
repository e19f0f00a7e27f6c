package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/keeper/internal/logtail"
)

// logState holds the client log overlay.
type logState struct {
	open     bool
	warnOnly bool
	loading  bool
	lines    []string
	err      error
	viewport viewport.Model
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

// openLogs shows the overlay and reads the log file.
func (m *Model) openLogs() tea.Cmd {
	m.logs.open = true
	return m.reloadLogs()
}

func (m *Model) reloadLogs() tea.Cmd {
	path := m.logPath()
	if path == "" {
		m.logs.err = fmt.Errorf("no log file configured")
		m.refreshLogViewport()
		return nil
	}
	m.logs.loading = true
	return readLogCmd(path)
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logs.loading = false
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.lines = msg.lines
	}
	m.refreshLogViewport()
}

// handleLogsKey processes keys while the overlay is open.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		m.logs.open = false
		return m, nil
	case key.Matches(msg, m.keys.ToggleLevel):
		m.logs.warnOnly = !m.logs.warnOnly
		m.refreshLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		cmd := m.reloadLogs()
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

// visibleLogLines applies the warnings-only filter.
func (m Model) visibleLogLines() []string {
	if m.logs.warnOnly {
		return logtail.FilterLevel(m.logs.lines, slog.LevelWarn)
	}
	return m.logs.lines
}

func (m *Model) resizeLogViewport() {
	// Box inner = height - header - cmdbar - status - borders
	m.logs.viewport.Width = max(m.width-4, 0)
	m.logs.viewport.Height = max(m.height-5, 0)
	m.refreshLogViewport()
}

func (m *Model) refreshLogViewport() {
	m.logs.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logs.viewport.SetContent(m.renderLogContent())
	m.logs.viewport.GotoBottom()
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	lines := m.visibleLogLines()
	if len(lines) == 0 {
		return styles.MutedText.Render("No log entries")
	}

	width := max(m.logs.viewport.Width, 10)
	out := make([]string, len(lines))
	for i, line := range lines {
		style := styles.Text
		if level, ok := logtail.Level(line); ok {
			switch {
			case level >= slog.LevelError:
				style = styles.DangerText
			case level >= slog.LevelWarn:
				style = styles.WarningText
			case level < slog.LevelInfo:
				style = styles.FaintText
			}
		}
		out[i] = style.Render(truncate(line, width))
	}
	return strings.Join(out, "\n")
}

// renderLogs renders the overlay box and its status line.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	contentHeight := max(m.height-3, 3)

	title := "Client log"
	if m.logs.warnOnly {
		title += " (warnings)"
	}
	box := m.renderTitledBox(title, m.logs.viewport.View(), m.width, contentHeight, true)

	var status []string
	switch {
	case m.logs.loading:
		status = append(status, bg.Render("Loading...", styles.WarningText))
	case m.logs.err != nil:
		status = append(status, bg.Render(truncate(m.logs.err.Error(), 60), styles.DangerText))
	default:
		status = append(status, bg.Render(fmt.Sprintf("%d lines", len(m.visibleLogLines())), styles.MutedText))
	}
	if path := m.logPath(); path != "" {
		status = append(status, bg.Render(truncateMiddle(path, 50), styles.FaintText))
	}

	line := bg.FillLine(bg.Join(status, "  "), m.width)
	return box + "\n" + line
}
