package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// filtersAppliedMsg asks the Model to promote the values and re-fetch.
type filtersAppliedMsg struct{ values map[string]string }

// filtersDraftMsg carries edits kept in the draft without applying them.
type filtersDraftMsg struct{ values map[string]string }

// filterModal edits the draft filters. Enter applies, Esc keeps the draft.
type filterModal struct {
	fields fieldSet
}

func newFilterModal(draft state.Filters, species []string, zoos []zoo.ZooSummary) (filterModal, tea.Cmd) {
	anyOpt := option{value: "", label: "any"}

	speciesOpts := []option{anyOpt}
	for _, name := range species {
		speciesOpts = append(speciesOpts, option{value: name, label: name})
	}
	zooOpts := []option{anyOpt}
	for _, z := range zoos {
		zooOpts = append(zooOpts, option{value: strconv.FormatInt(z.ID, 10), label: z.Name})
	}
	genderOpts := []option{anyOpt}
	for _, g := range zoo.Genders {
		genderOpts = append(genderOpts, option{value: string(g), label: string(g)})
	}

	m := filterModal{fields: fieldSet{fields: []inputField{
		newInputField(string(state.FilterSpecies), "Species", "any species", speciesOpts),
		newInputField(string(state.FilterZoo), "Zoo", "any zoo id", zooOpts),
		newInputField(string(state.FilterMinAge), "Min age", "e.g. 2", nil),
		newInputField(string(state.FilterMaxAge), "Max age", "e.g. 12", nil),
		newInputField(string(state.FilterGender), "Gender", "any gender", genderOpts),
	}}}
	for _, field := range state.FilterFields {
		m.fields.setValue(string(field), draft.Get(field))
	}
	return m, m.fields.focusAt(0)
}

// Width implements Modal.
func (f filterModal) Width() int { return filterModalWidth }

// Update implements Modal.
func (f filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd := f.fields.update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(km, keys.Escape):
		return f, emit(filtersDraftMsg{values: f.fields.values()}), true
	case key.Matches(km, keys.Confirm):
		return f, emit(filtersAppliedMsg{values: f.fields.values()}), true
	case key.Matches(km, keys.Clear):
		f.fields.clear()
		return f, nil, false
	case key.Matches(km, keys.Next):
		return f, f.fields.next(), false
	case key.Matches(km, keys.Prev):
		return f, f.fields.prev(), false
	case key.Matches(km, keys.PickPrev):
		if f.fields.cycle(-1) {
			return f, nil, false
		}
	case key.Matches(km, keys.PickNext):
		if f.fields.cycle(1) {
			return f, nil, false
		}
	}

	cmd := f.fields.update(km)
	return f, cmd, false
}

// View implements Modal.
func (f filterModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(width-6, 10))))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Leave blank for no constraint."))
	b.WriteString("\n\n")
	b.WriteString(f.fields.view(styles, nil))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Keep draft  •  Ctrl+R: Clear"))
	return b.String()
}
