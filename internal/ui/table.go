package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// tableColumn is one column of the animal table. Columns with a link kind
// open the detail panel on Enter.
type tableColumn struct {
	title string
	field string
	width int // fixed width, 0 shares the remaining space
	link  state.DetailKind
}

var columns = []tableColumn{
	{title: "ID", field: "animal_id", width: 6},
	{title: "Name", field: "name"},
	{title: "Age", field: "age", width: 7},
	{title: "Gender", field: "gender", width: 9},
	{title: "Species", field: "species_name", link: state.DetailSpecies},
	{title: "Zoo", field: "zoo_id", link: state.DetailZoo},
}

// columnTitle returns the header label for a sort field.
func columnTitle(field string) string {
	for _, c := range columns {
		if c.field == field {
			return c.title
		}
	}
	return field
}

// columnWidths spreads width over the columns, one space between cells.
func columnWidths(width int) []int {
	widths := make([]int, len(columns))
	fixed, flex := 0, 0
	for i, c := range columns {
		if c.width > 0 {
			widths[i] = c.width
			fixed += c.width
		} else {
			flex++
		}
	}
	rest := max(width-fixed-(len(columns)-1), flex*4)
	for i, c := range columns {
		if c.width == 0 {
			widths[i] = rest / flex
		}
	}
	// Give the remainder to the last flexible column.
	for i := len(columns) - 1; i >= 0; i-- {
		if columns[i].width == 0 {
			widths[i] += rest % flex
			break
		}
	}
	return widths
}

// renderContent renders the table, with the detail pane beside it when
// enabled and the terminal is wide enough.
func (m Model) renderContent() string {
	contentHeight := max(m.height-2, 3)

	if !m.showDetail || m.width < LayoutDetailWidth {
		return m.renderTablePane(m.width, contentHeight)
	}

	detailWidth := m.width * 35 / 100
	tableWidth := m.width - detailWidth
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTablePane(tableWidth, contentHeight),
		m.renderDetailPane(detailWidth, contentHeight),
	)
}

// renderTablePane renders the animal table inside a titled box.
func (m Model) renderTablePane(width, height int) string {
	styles := m.theme.Styles()
	innerWidth := max(width-2, 0)
	rows := max(height-3, 0) // borders plus header row

	var body string
	collection := m.app.Collection()
	switch {
	case collection.Len() == 0 && !collection.Loaded():
		body = styles.MutedText.Background(lipgloss.Color(m.theme.FocusBg)).Render("Loading animals...")
	case collection.Len() == 0:
		body = styles.MutedText.Background(lipgloss.Color(m.theme.FocusBg)).Render("No animals match")
	default:
		body = m.renderTableRows(innerWidth, rows)
	}

	content := m.renderTableHeader(innerWidth) + "\n" + body
	return m.renderTitledBox(m.tableTitle(), content, width, height, true)
}

func (m Model) tableTitle() string {
	n := m.app.Collection().Len()
	if active := m.app.Query().Applied().Active(); active > 0 {
		return fmt.Sprintf("Animals (%d, %d filters)", n, active)
	}
	return fmt.Sprintf("Animals (%d)", n)
}

// renderTableHeader renders column titles with the sort arrow.
func (m Model) renderTableHeader(width int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	query := m.app.Query()
	widths := columnWidths(width)

	cells := make([]string, len(columns))
	for i, c := range columns {
		label := fmt.Sprintf("%d %s%s", i+1, c.title, query.SortIndicator(c.field))
		style := m.theme.Styles().MutedText.Bold(true)
		if query.SortBy() == c.field {
			style = m.theme.Styles().AccentText.Bold(true)
		}
		cells[i] = bg.Render(fitCell(label, widths[i]), style)
	}
	return bg.FillLine(strings.Join(cells, bg.Space()), width)
}

// tableWindow returns the first visible row so the selection stays on screen.
func tableWindow(selected, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := selected - rows/2
	start = max(start, 0)
	return min(start, total-rows)
}

// renderTableRows renders the visible slice of animal rows.
func (m Model) renderTableRows(width, rows int) string {
	collection := m.app.Collection()
	widths := columnWidths(width)
	start := tableWindow(m.selectedRow, collection.Len(), rows)
	end := min(start+rows, collection.Len())

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		animal, _ := collection.At(i)
		lines = append(lines, m.renderTableRow(animal, widths, width, i == m.selectedRow))
	}
	return strings.Join(lines, "\n")
}

// renderTableRow formats one animal. The selected row uses the selection
// colors and highlights the cell under the cursor.
func (m Model) renderTableRow(animal zoo.Animal, widths []int, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))

	values := m.cellValues(animal)
	cells := make([]string, len(columns))
	for i, c := range columns {
		text := fitCell(values[i], widths[i])
		var style lipgloss.Style
		switch {
		case selected && i == m.selectedCol:
			style = selText.Bold(true).Underline(c.link != state.DetailNone).Reverse(true)
		case selected:
			style = selText
		case c.link != state.DetailNone:
			style = styles.Link
		case c.field == "gender":
			style = styles.GenderStyle(string(animal.Gender))
		case c.field == "animal_id":
			style = styles.MutedText
		default:
			style = styles.Text
		}
		cells[i] = lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Inherit(style).Render(text)
	}
	return bg.FillLine(strings.Join(cells, bg.Space()), width)
}

// cellValues returns the display text of each column for animal.
func (m Model) cellValues(animal zoo.Animal) []string {
	zooName := animal.ZooName
	if zooName == "" {
		zooName = m.app.ZooName(strconv.FormatInt(animal.ZooID, 10))
	}
	if zooName == "" {
		zooName = fmt.Sprintf("#%d", animal.ZooID)
	}
	return []string{
		fmt.Sprintf("%d", animal.ID),
		animal.Name,
		fmt.Sprintf("%d", animal.Age),
		string(animal.Gender),
		animal.SpeciesName,
		zooName,
	}
}
