package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// Theme is a named palette. Every field is a hex color.
type Theme struct {
	Name string

	Background string // terminal fill behind everything
	Surface    string // header, command bar, table
	SurfaceAlt string // detail pane, modals
	FocusBg    string // active input, log viewport

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// GenderColors tints the gender column, keyed by zoo.Gender value.
	GenderColors map[string]string
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Link     lipgloss.Style

	genderColors map[string]string
	noticeColors map[state.NoticeLevel]string
	background   string
	muted        string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func panel(bg, text string) lipgloss.Style {
	return fg(text).Background(lipgloss.Color(bg))
}

// Styles derives the style set for t.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    panel(t.Surface, t.Text),
		SurfaceAlt: panel(t.SurfaceAlt, t.Text),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   panel(t.Surface, t.Text).Padding(0, 1),
		Footer:   panel(t.Surface, t.Muted).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: panel(t.SelectionBg, t.SelectionText),
		Link:     fg(t.Info).Underline(true),

		genderColors: t.GenderColors,
		noticeColors: map[state.NoticeLevel]string{
			state.NoticeInfo:  t.Success,
			state.NoticeWarn:  t.Warning,
			state.NoticeError: t.Danger,
		},
		background: t.Background,
		muted:      t.Muted,
	}
}

// GenderStyle returns the foreground style for a gender value.
func (s Styles) GenderStyle(gender string) lipgloss.Style {
	color := s.genderColors[gender]
	if color == "" {
		color = s.muted
	}
	return fg(color)
}

// NoticeStyle returns a badge style for a notice level.
func (s Styles) NoticeStyle(level state.NoticeLevel) lipgloss.Style {
	color := s.noticeColors[level]
	if color == "" {
		color = s.muted
	}
	return panel(color, s.background).Bold(true).Padding(0, 1)
}

// WithBackground returns a copy of s where every style paints bgColor
// instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Background, &out.Surface, &out.SurfaceAlt,
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo, &out.Selected, &out.Link,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Gruvbox"}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Gruvbox":  gruvboxTheme(),
}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

func genderPalette(male, female string) map[string]string {
	return map[string]string{
		string(zoo.GenderMale):   male,
		string(zoo.GenderFemale): female,
	}
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		GenderColors:  genderPalette("#719cd6", "#d67ad2"),
	}
}

// https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		GenderColors:  genderPalette("#7E9CD8", "#D27E99"),
	}
}

// https://github.com/morhetz/gruvbox (dark, medium contrast)
func gruvboxTheme() Theme {
	return Theme{
		Name:          "Gruvbox",
		Background:    "#1d2021",
		Surface:       "#282828",
		SurfaceAlt:    "#3c3836",
		FocusBg:       "#504945",
		SelectionBg:   "#458588",
		SelectionText: "#fbf1c7",
		Border:        "#665c54",
		BorderFocus:   "#83a598",
		Text:          "#ebdbb2",
		Muted:         "#a89984",
		Faint:         "#7c6f64",
		Accent:        "#83a598",
		Success:       "#b8bb26",
		Warning:       "#fabd2f",
		Danger:        "#fb4934",
		Info:          "#8ec07c",
		GenderColors:  genderPalette("#83a598", "#d3869b"),
	}
}
