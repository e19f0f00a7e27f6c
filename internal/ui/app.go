package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/keeper/internal/config"
	"github.com/five82/keeper/internal/prefs"
	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     zoo.API
	State      *state.App
	Config     *config.Config
	Logger     *slog.Logger
	ThemeName  string
	PrefsPath  string
	ShowDetail bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    zoo.API
	app       *state.App
	config    *config.Config
	logger    *slog.Logger
	prefsPath string
	keys      keyMap

	// UI state
	theme      Theme
	width      int
	height     int
	ready      bool
	showHelp   bool
	showDetail bool

	// Table cursor
	selectedRow int
	selectedCol int

	// Active modal, if any
	modal Modal

	// Client log overlay
	logs logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	app := opts.State
	if app == nil {
		app = state.New(state.WithLogger(logger), state.WithNoticeTTL(cfg.NoticeTTL))
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:        ctx,
		client:     opts.Client,
		app:        app,
		config:     cfg,
		logger:     logger,
		prefsPath:  prefsPath,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.ThemeName),
		showDetail: opts.ShowDetail,
		logs:       logState{viewport: viewport.New(0, 0)},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if m.client != nil {
		if m.app.BeginReferenceLoad() {
			cmds = append(cmds, loadReferenceCmd(m.ctx, m.client))
		}
		cmds = append(cmds, fetchAnimalsCmd(m.ctx, m.client, m.app.Refresh()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m, tickCmd(DefaultUIInterval)

	case speciesListMsg:
		m.app.ApplySpeciesList(msg.names, msg.err)
		return m, nil

	case zooListMsg:
		m.app.ApplyZooList(msg.zoos, msg.err)
		return m, nil

	case animalsMsg:
		selectedID := m.selectedAnimalID()
		if m.app.ApplyAnimals(msg.seq, msg.animals, msg.err) && msg.err == nil {
			m.restoreSelection(selectedID)
		}
		return m, nil

	case mutationMsg:
		return m.handleMutation(msg)

	case speciesDetailMsg:
		m.app.ApplySpeciesDetail(msg.req, msg.detail, msg.err)
		return m, nil

	case zooDetailMsg:
		if m.app.ApplyZooDetail(msg.req, msg.detail, msg.err) {
			return m, employeesCmd(m.ctx, m.client, msg.req)
		}
		return m, nil

	case employeesMsg:
		m.app.ApplyEmployees(msg.req, msg.roster, msg.err)
		return m, nil

	case filtersAppliedMsg:
		m.setDraftFilters(msg.values)
		req := m.app.ApplyFilters()
		m.selectedRow = 0
		return m, m.fetch(req)

	case filtersDraftMsg:
		m.setDraftFilters(msg.values)
		return m, nil

	case formSubmittedMsg:
		return m.handleFormSubmit(msg)

	case formCancelledMsg:
		m.app.Cancel()
		return m, nil

	case deleteConfirmedMsg:
		mutation, err := m.app.Delete(msg.animal)
		if err != nil {
			m.app.Notify(state.NoticeWarn, err.Error())
			return m, nil
		}
		return m, mutationCmd(m.ctx, m.client, mutation)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	// Non-key messages (cursor blink) belong to the open modal.
	if m.modal != nil {
		updated, cmd, _ := m.modal.Update(msg, m.keys)
		m.modal = updated
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		width := m.modal.Width()
		return m.placeModal(m.modal.View(m.theme, width, m.height), width)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.logs.open {
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderContent())
	}
	return b.String()
}

// handleKey routes keyboard input to the help overlay, the open modal,
// the log overlay, or the table in that order. ctrl+c always quits.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from anywhere, including open modals and overlays.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		updated, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = updated
		}
		return m, cmd
	}

	if m.logs.open {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetail):
		m.showDetail = !m.showDetail
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		cmd := m.openLogs()
		return m, cmd
	}

	return m.handleTableKey(msg)
}

// handleTableKey processes keys for the animal table.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.app.Collection().Len()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(count-1, 0)
	case key.Matches(msg, m.keys.Left):
		if m.selectedCol > 0 {
			m.selectedCol--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selectedCol < len(columns)-1 {
			m.selectedCol++
		}

	case key.Matches(msg, m.keys.Sort):
		idx := int(msg.String()[0] - '1')
		req, err := m.app.SetSort(columns[idx].field)
		if err != nil {
			m.logger.Warn("sort rejected", "field", columns[idx].field, "error", err)
			return m, nil
		}
		return m, m.fetch(req)

	case key.Matches(msg, m.keys.Reload):
		return m, m.fetch(m.app.Refresh())

	case key.Matches(msg, m.keys.Filters):
		modal, cmd := newFilterModal(m.app.Query().Draft(), m.app.Species(), m.app.Zoos())
		m.modal = modal
		return m, cmd

	case key.Matches(msg, m.keys.New):
		m.app.StartCreate()
		return m.openForm()

	case key.Matches(msg, m.keys.Edit):
		if animal, ok := m.selectedAnimal(); ok {
			m.app.StartEdit(animal)
			return m.openForm()
		}

	case key.Matches(msg, m.keys.Delete):
		if animal, ok := m.selectedAnimal(); ok {
			m.modal = confirmModal{animal: animal}
		}

	case key.Matches(msg, m.keys.SpeciesDetail):
		if animal, ok := m.selectedAnimal(); ok {
			return m, m.selectSpecies(animal.SpeciesName)
		}

	case key.Matches(msg, m.keys.ZooDetail):
		if animal, ok := m.selectedAnimal(); ok {
			return m, m.selectZoo(animal.ZooID)
		}

	case key.Matches(msg, m.keys.ClearDetail):
		m.app.ClearDetail()

	case key.Matches(msg, m.keys.Open):
		animal, ok := m.selectedAnimal()
		if !ok {
			return m, nil
		}
		switch columns[m.selectedCol].link {
		case state.DetailSpecies:
			return m, m.selectSpecies(animal.SpeciesName)
		case state.DetailZoo:
			return m, m.selectZoo(animal.ZooID)
		default:
			m.app.StartEdit(animal)
			return m.openForm()
		}
	}

	return m, nil
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	modal, cmd := newFormModal(m.app.Form(), m.app.Species(), m.app.Zoos())
	m.modal = modal
	return m, cmd
}

func (m Model) handleFormSubmit(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	for _, field := range state.FormFields {
		if err := m.app.SetField(field, msg.values[string(field)]); err != nil {
			m.logger.Error("form field rejected", "field", field, "error", err)
		}
	}

	mutation, err := m.app.Submit()
	form, isForm := m.modal.(formModal)

	var verr *state.ValidationError
	switch {
	case errors.As(err, &verr):
		if isForm {
			form.problems = problemsFrom(verr)
			m.modal = form
		}
		return m, nil
	case err != nil:
		return m, nil
	}

	if isForm {
		form.problems = nil
		form.token = mutation.Token
		m.modal = form
	}
	return m, mutationCmd(m.ctx, m.client, mutation)
}

func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	req, ok := m.app.ApplyMutation(msg.mutation, msg.err)

	if form, isForm := m.modal.(formModal); isForm && form.token == msg.mutation.Token {
		if ok {
			m.modal = nil
		} else {
			form.token = 0
			m.modal = form
		}
	}

	if !ok {
		return m, nil
	}
	return m, m.fetch(req)
}

func (m *Model) setDraftFilters(values map[string]string) {
	for _, field := range state.FilterFields {
		if err := m.app.SetFilter(field, values[string(field)]); err != nil {
			m.logger.Error("filter rejected", "field", field, "error", err)
		}
	}
}

func (m Model) fetch(req state.FetchRequest) tea.Cmd {
	if m.client == nil {
		return nil
	}
	return fetchAnimalsCmd(m.ctx, m.client, req)
}

func (m Model) selectSpecies(name string) tea.Cmd {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return detailCmd(m.ctx, m.client, m.app.SelectSpecies(name))
}

func (m Model) selectZoo(id int64) tea.Cmd {
	if id <= 0 {
		return nil
	}
	return detailCmd(m.ctx, m.client, m.app.SelectZoo(id))
}

func (m Model) selectedAnimal() (zoo.Animal, bool) {
	return m.app.Collection().At(m.selectedRow)
}

func (m Model) selectedAnimalID() int64 {
	if animal, ok := m.selectedAnimal(); ok {
		return animal.ID
	}
	return 0
}

// restoreSelection keeps the cursor on the same animal across reloads,
// clamping when it disappeared.
func (m *Model) restoreSelection(id int64) {
	c := m.app.Collection()
	if id > 0 {
		for i := 0; i < c.Len(); i++ {
			if animal, _ := c.At(i); animal.ID == id {
				m.selectedRow = i
				return
			}
		}
	}
	if m.selectedRow >= c.Len() {
		m.selectedRow = max(c.Len()-1, 0)
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowDetail: m.showDetail}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
