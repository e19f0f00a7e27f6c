package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// formSubmittedMsg asks the Model to validate and submit the form values.
type formSubmittedMsg struct{ values map[string]string }

// formCancelledMsg discards in-progress edits.
type formCancelledMsg struct{}

// formModal edits one animal. It stays open while its submission is in
// flight and closes only once the server confirms.
type formModal struct {
	fields   fieldSet
	animalID int64
	editing  bool
	problems map[string]string
	token    uint64
}

func newFormModal(form state.Form, species []string, zoos []zoo.ZooSummary) (formModal, tea.Cmd) {
	speciesOpts := make([]option, 0, len(species))
	for _, name := range species {
		speciesOpts = append(speciesOpts, option{value: name, label: name})
	}
	zooOpts := make([]option, 0, len(zoos))
	for _, z := range zoos {
		zooOpts = append(zooOpts, option{value: strconv.FormatInt(z.ID, 10), label: z.Name})
	}
	genderOpts := make([]option, 0, len(zoo.Genders))
	for _, g := range zoo.Genders {
		genderOpts = append(genderOpts, option{value: string(g), label: string(g)})
	}

	m := formModal{fields: fieldSet{fields: []inputField{
		newInputField(string(state.FieldName), "Name", "e.g. Dot", nil),
		newInputField(string(state.FieldAge), "Age", "years", nil),
		newInputField(string(state.FieldGender), "Gender", "Male or Female", genderOpts),
		newInputField(string(state.FieldSpecies), "Species", "species name", speciesOpts),
		newInputField(string(state.FieldZoo), "Zoo", "zoo id", zooOpts),
	}}}
	for _, field := range state.FormFields {
		m.fields.setValue(string(field), form.Value(field))
	}
	m.animalID, m.editing = form.AnimalID()
	return m, m.fields.focusAt(0)
}

// Width implements Modal.
func (f formModal) Width() int { return formModalWidth }

// saving reports whether a submission is awaiting the server.
func (f formModal) saving() bool { return f.token != 0 }

// Update implements Modal.
func (f formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd := f.fields.update(msg)
		return f, cmd, false
	}

	switch {
	case key.Matches(km, keys.Escape):
		return f, emit(formCancelledMsg{}), true
	case key.Matches(km, keys.Save):
		if f.saving() {
			return f, nil, false
		}
		return f, emit(formSubmittedMsg{values: f.fields.values()}), false
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

	if f.saving() {
		return f, nil, false
	}
	cmd := f.fields.update(km)
	return f, cmd, false
}

// View implements Modal.
func (f formModal) View(theme Theme, width, _ int) string {
	styles := theme.Styles()

	title := "New animal"
	if f.editing {
		title = fmt.Sprintf("Edit animal #%d", f.animalID)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(width-6, 10))))
	b.WriteString("\n\n")
	b.WriteString(f.fields.view(styles, f.problems))
	b.WriteString("\n")
	if f.saving() {
		b.WriteString(styles.WarningText.Render("Saving..."))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Ctrl+S: Save  •  Esc: Cancel  •  ◀ ▶: Pick"))
	return b.String()
}

// problemsFrom converts a validation error into per-field messages.
func problemsFrom(err *state.ValidationError) map[string]string {
	if err == nil {
		return nil
	}
	out := make(map[string]string, len(err.Fields))
	for field, reason := range err.Fields {
		out[string(field)] = reason
	}
	return out
}

// deleteConfirmedMsg asks the Model to delete the animal.
type deleteConfirmedMsg struct{ animal zoo.Animal }

// confirmModal asks before deleting an animal.
type confirmModal struct {
	animal zoo.Animal
}

// Width implements Modal.
func (c confirmModal) Width() int { return confirmModalWidth }

// Update implements Modal.
func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		return c, emit(deleteConfirmedMsg{animal: c.animal}), true
	case key.Matches(km, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

// View implements Modal.
func (c confirmModal) View(theme Theme, _, _ int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete animal"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(fmt.Sprintf("Delete %s (#%d)?", c.animal.Name, c.animal.ID)))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y: Delete  •  n/Esc: Keep"))
	return b.String()
}
