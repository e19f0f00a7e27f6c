package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// option is one choice of a picker field.
type option struct {
	value string
	label string
}

// inputField is a labelled text input. Fields with options act as pickers:
// left/right cycle through the options, typing still works.
type inputField struct {
	key     string
	label   string
	input   textinput.Model
	options []option
}

func newInputField(key, label, placeholder string, options []option) inputField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 64
	in.Width = 30
	in.Prompt = ""
	return inputField{key: key, label: label, input: in, options: options}
}

// choice returns the label of the option matching the current value.
func (f inputField) choice() (string, bool) {
	value := strings.TrimSpace(f.input.Value())
	for _, opt := range f.options {
		if opt.value == value {
			return opt.label, true
		}
	}
	return "", false
}

// fieldSet is an ordered group of inputs with one focused.
type fieldSet struct {
	fields []inputField
	focus  int
}

func (s *fieldSet) focusAt(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	s.fields[s.focus].input.Blur()
	s.focus = (i + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].input.Focus()
}

func (s *fieldSet) next() tea.Cmd { return s.focusAt(s.focus + 1) }

func (s *fieldSet) prev() tea.Cmd { return s.focusAt(s.focus - 1) }

// focused returns the focused field.
func (s *fieldSet) focused() *inputField {
	if len(s.fields) == 0 {
		return nil
	}
	return &s.fields[s.focus]
}

// cycle moves the focused picker by delta options. It reports false for
// free-text fields so the key can go to the input instead.
func (s *fieldSet) cycle(delta int) bool {
	f := s.focused()
	if f == nil || len(f.options) == 0 {
		return false
	}
	current := strings.TrimSpace(f.input.Value())
	idx := -1
	for i, opt := range f.options {
		if opt.value == current {
			idx = i
			break
		}
	}
	n := len(f.options)
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+delta)%n + n) % n
	}
	f.input.SetValue(f.options[idx].value)
	f.input.CursorEnd()
	return true
}

func (s *fieldSet) update(msg tea.Msg) tea.Cmd {
	f := s.focused()
	if f == nil {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (s *fieldSet) setValue(key, value string) {
	for i := range s.fields {
		if s.fields[i].key == key {
			s.fields[i].input.SetValue(value)
			s.fields[i].input.CursorEnd()
		}
	}
}

func (s *fieldSet) clear() {
	for i := range s.fields {
		s.fields[i].input.SetValue("")
	}
}

// values returns the raw text of every field by key.
func (s fieldSet) values() map[string]string {
	out := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		out[f.key] = f.input.Value()
	}
	return out
}

// view renders one line per field plus an error line where problems exist.
func (s fieldSet) view(styles Styles, problems map[string]string) string {
	labelWidth := 0
	for _, f := range s.fields {
		labelWidth = max(labelWidth, len(f.label)+2)
	}

	var b strings.Builder
	for i, f := range s.fields {
		label := padRight(f.label+":", labelWidth)
		if i == s.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(f.input.View())
		if len(f.options) > 0 {
			hint := "◀ ▶"
			if label, ok := f.choice(); ok && label != f.input.Value() {
				hint = label + "  " + hint
			}
			b.WriteString("  ")
			b.WriteString(styles.FaintText.Render(hint))
		}
		b.WriteString("\n")
		if reason, ok := problems[f.key]; ok {
			b.WriteString(strings.Repeat(" ", labelWidth))
			b.WriteString(styles.DangerText.Render(reason))
			b.WriteString("\n")
		}
		if i < len(s.fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
