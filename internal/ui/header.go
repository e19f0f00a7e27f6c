package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/keeper/internal/state"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	collection := m.app.Collection()
	query := m.app.Query()

	var parts []string
	parts = append(parts, bg.Render("keeper", styles.Logo))

	if !compact && m.config != nil {
		parts = append(parts, bg.Render(truncateMiddle(m.config.APIURL, 32), styles.FaintText))
	}

	parts = append(parts,
		bg.Render("Animals:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", collection.Len()), styles.Text),
	)

	// Applied filters, marked when the draft differs
	if summary := filterSummary(query.Applied(), m.app.ZooName); summary != "" || query.DraftDirty() {
		label := summary
		if label == "" {
			label = "none"
		}
		if compact {
			label = fmt.Sprintf("%d", query.Applied().Active())
		}
		if query.DraftDirty() {
			label += " *"
		}
		parts = append(parts,
			bg.Render("Filter:", styles.MutedText)+bg.Space()+
				bg.Render(truncate(label, 48), styles.AccentText),
		)
	}

	if by := query.SortBy(); by != "" {
		parts = append(parts,
			bg.Render("Sort:", styles.MutedText)+bg.Space()+
				bg.Render(columnTitle(by)+query.SortIndicator(by), styles.InfoText),
		)
	}

	switch {
	case collection.Pending():
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	case collection.Loaded():
		parts = append(parts, bg.Render(formatTimestamp(collection.Updated(), time.Now()), styles.MutedText))
	}

	if notice, ok := m.app.Notice(); ok {
		limit := 80
		if compact {
			limit = 40
		}
		badge := styles.NoticeStyle(notice.Level).Render(strings.ToUpper(notice.Level.String()))
		parts = append(parts,
			badge+bg.Space()+bg.Render(truncate(notice.Message, limit), noticeText(styles, notice.Level)),
		)
	}

	return bg.Join(parts, "  ")
}

func noticeText(styles Styles, level state.NoticeLevel) lipgloss.Style {
	switch level {
	case state.NoticeError:
		return styles.DangerText
	case state.NoticeWarn:
		return styles.WarningText
	default:
		return styles.SuccessText
	}
}

// filterSummary describes the non-empty filters, resolving zoo ids to names.
func filterSummary(f state.Filters, zooName func(string) string) string {
	var parts []string
	for _, field := range state.FilterFields {
		value := f.Get(field)
		if value == "" {
			continue
		}
		switch field {
		case state.FilterSpecies:
			parts = append(parts, "species="+value)
		case state.FilterZoo:
			if name := zooName(value); name != "" {
				value = name
			}
			parts = append(parts, "zoo="+value)
		case state.FilterMinAge:
			parts = append(parts, "age≥"+value)
		case state.FilterMaxAge:
			parts = append(parts, "age≤"+value)
		default:
			parts = append(parts, string(field)+"="+value)
		}
	}
	return strings.Join(parts, " ")
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	since := now.Sub(t)
	s := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.logs.open {
		levelLabel := "Warnings"
		if m.logs.warnOnly {
			levelLabel = "All"
		}
		commands = []cmd{
			{"j/k", "Scroll"},
			{"w", levelLabel},
			{"r", "Reload"},
			{"esc", "Back"},
		}
	} else {
		commands = []cmd{
			{"a", "Add"},
			{"e", "Edit"},
			{"x", "Delete"},
			{"f", "Filters"},
			{"1-6", "Sort"},
			{"s/z", "Species/Zoo"},
			{"L", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, sep))
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 5 {
		return string(runes[:limit])
	}
	endLen := (limit - 1) * 2 / 3
	startLen := limit - 1 - endLen
	return string(runes[:startLen]) + "…" + string(runes[len(runes)-endLen:])
}
