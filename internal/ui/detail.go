package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// renderDetailPane renders the species or zoo panel.
func (m Model) renderDetailPane(width, height int) string {
	detail := m.app.Detail()
	innerWidth := max(width-4, 10)

	title := "Details"
	var content string
	switch detail.Kind() {
	case state.DetailSpecies:
		title = "Species"
		content = m.renderSpeciesDetail(*detail.Species(), innerWidth)
	case state.DetailZoo:
		title = "Zoo"
		content = m.renderZooDetail(*detail.Zoo(), detail.Employees(), innerWidth)
	default:
		content = m.renderDetailHint()
	}

	if req, ok := detail.Pending(); ok {
		content = m.renderPendingLine(req) + "\n\n" + content
	}

	return m.renderTitledBox(title, indent(content, 1), width, height, false)
}

func (m Model) detailStyles() Styles {
	return m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
}

func (m Model) renderDetailHint() string {
	styles := m.detailStyles()
	lines := []string{
		styles.MutedText.Render("Nothing selected"),
		"",
		styles.FaintText.Render("s  species of the selected animal"),
		styles.FaintText.Render("z  zoo of the selected animal"),
		styles.FaintText.Render("enter on a species or zoo cell"),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPendingLine(req state.DetailRequest) string {
	styles := m.detailStyles()
	target := req.Species
	if req.Kind == state.DetailZoo {
		target = fmt.Sprintf("zoo #%d", req.ZooID)
	}
	return styles.WarningText.Render("Loading " + target + "...")
}

func (m Model) renderSpeciesDetail(species zoo.SpeciesDetail, width int) string {
	styles := m.detailStyles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(species.Name, width)))
	b.WriteString("\n\n")
	b.WriteString(detailRow(styles, "Food", species.Food, width))
	if h := species.Habitat; h != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Habitat"))
		b.WriteString("\n")
		b.WriteString(detailRow(styles, "Name", h.Name, width))
		b.WriteString("\n")
		b.WriteString(detailRow(styles, "Temp", fmt.Sprintf("%g°C", h.Temperature), width))
		b.WriteString("\n")
		b.WriteString(detailRow(styles, "Humidity", fmt.Sprintf("%g%%", h.Humidity), width))
	}
	return b.String()
}

func (m Model) renderZooDetail(z zoo.ZooDetail, employees []zoo.Employee, width int) string {
	styles := m.detailStyles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(fmt.Sprintf("%s (#%d)", z.Name, z.ID), width)))
	b.WriteString("\n\n")
	b.WriteString(detailRow(styles, "Location", z.Location, width))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Employees (%d)", len(employees))))
	if len(employees) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("none"))
		return b.String()
	}
	for _, e := range employees {
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(truncate(e.FullName(), width)))
		if e.JobTitle != "" {
			b.WriteString("\n  ")
			b.WriteString(styles.MutedText.Render(truncate(e.JobTitle, width-2)))
		}
		if e.JobDescription != "" {
			b.WriteString("\n  ")
			b.WriteString(styles.FaintText.Render(truncate(e.JobDescription, width-2)))
		}
	}
	return b.String()
}

// detailRow renders a "Label  value" line.
func detailRow(styles Styles, label, value string, width int) string {
	const labelWidth = 10
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	return styles.MutedText.Render(padRight(label, labelWidth)) +
		styles.Text.Render(truncate(value, max(width-labelWidth, 1)))
}

// indent prefixes every line with n spaces.
func indent(s string, n int) string {
	pad := lipgloss.NewStyle().Width(n).Render("")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
