package ui

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/keeper/internal/config"
	"github.com/five82/keeper/internal/prefs"
	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// fakeAPI is an in-memory zoo.API.
type fakeAPI struct {
	mu        sync.Mutex
	animals   []zoo.Animal
	nextID    int64
	queries   []zoo.AnimalQuery
	created   []zoo.AnimalInput
	deleted   []int64
	createErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextID: 3,
		animals: []zoo.Animal{
			{ID: 1, Name: "Leo", Age: 5, Gender: zoo.GenderMale, SpeciesName: "Lion", ZooID: 10, ZooName: "Metro Zoo"},
			{ID: 2, Name: "Stripes", Age: 3, Gender: zoo.GenderFemale, SpeciesName: "Zebra", ZooID: 2},
		},
	}
}

func (f *fakeAPI) ListAnimals(_ context.Context, q zoo.AnimalQuery) ([]zoo.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	var out []zoo.Animal
	for _, a := range f.animals {
		if q.SpeciesName != "" && !strings.Contains(a.SpeciesName, q.SpeciesName) {
			continue
		}
		if q.Gender != "" && string(a.Gender) != q.Gender {
			continue
		}
		out = append(out, a)
	}
	less := func(i, j int) bool { return out[i].ID < out[j].ID }
	switch q.SortBy {
	case "name":
		less = func(i, j int) bool { return out[i].Name < out[j].Name }
	case "age":
		less = func(i, j int) bool { return out[i].Age < out[j].Age }
	}
	if q.SortOrder == zoo.SortDesc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(out, less)
	return out, nil
}

func (f *fakeAPI) CreateAnimal(_ context.Context, in zoo.AnimalInput) (zoo.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return zoo.Animal{}, f.createErr
	}
	f.created = append(f.created, in)
	a := zoo.Animal{ID: f.nextID, Name: in.Name, Age: in.Age, Gender: in.Gender, SpeciesName: in.SpeciesName, ZooID: in.ZooID}
	f.nextID++
	f.animals = append(f.animals, a)
	return a, nil
}

func (f *fakeAPI) UpdateAnimal(_ context.Context, id int64, in zoo.AnimalInput) (zoo.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.animals {
		if a.ID == id {
			f.animals[i] = zoo.Animal{ID: id, Name: in.Name, Age: in.Age, Gender: in.Gender, SpeciesName: in.SpeciesName, ZooID: in.ZooID}
			return f.animals[i], nil
		}
	}
	return zoo.Animal{}, &zoo.StatusError{Code: 404, Message: "Animal not found"}
}

func (f *fakeAPI) DeleteAnimal(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.animals {
		if a.ID == id {
			f.animals = append(f.animals[:i], f.animals[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return &zoo.StatusError{Code: 404, Message: "Animal not found"}
}

func (f *fakeAPI) ListSpecies(context.Context) ([]string, error) {
	return []string{"Lion", "Zebra"}, nil
}

func (f *fakeAPI) GetSpecies(_ context.Context, name string) (zoo.SpeciesDetail, error) {
	return zoo.SpeciesDetail{Name: name, Food: "Meat", Habitat: &zoo.Habitat{Name: "Savanna", Temperature: 30, Humidity: 20}}, nil
}

func (f *fakeAPI) ListZoos(context.Context) ([]zoo.ZooSummary, error) {
	return []zoo.ZooSummary{{ID: 10, Name: "Metro Zoo"}, {ID: 2, Name: "Harbour Zoo"}}, nil
}

func (f *fakeAPI) GetZoo(_ context.Context, id int64) (zoo.ZooDetail, error) {
	return zoo.ZooDetail{ID: id, Name: "Metro Zoo", Location: "Downtown"}, nil
}

func (f *fakeAPI) ListEmployees(context.Context, int64) ([]zoo.Employee, error) {
	return []zoo.Employee{{ID: 1, FirstName: "Ada", LastName: "Park", JobTitle: "Keeper"}}, nil
}

func (f *fakeAPI) lastQuery() zoo.AnimalQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return zoo.AnimalQuery{}
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeAPI) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// runCmd executes cmd, giving up on commands that wait on timers such as
// ticks and cursor blinks.
func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

// drain runs cmd and feeds every resulting message back into the model
// until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := runCmd(next)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tickMsg:
			continue
		}
		updated, follow := m.Update(msg)
		m = updated.(Model)
		queue = append(queue, follow)
	}
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, cmd := m.Update(k)
		m = drain(t, updated.(Model), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func newTestModel(t *testing.T) (Model, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "keeper.log")
	m := New(Options{
		Client:     api,
		Config:     &cfg,
		ThemeName:  "Nightfox",
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		ShowDetail: true,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	m = drain(t, updated.(Model), m.Init())
	return m, api
}

func TestInit_LoadsReferenceAndAnimals(t *testing.T) {
	m, api := newTestModel(t)

	if !m.app.ReferenceLoaded() {
		t.Fatalf("reference data not loaded")
	}
	if got := m.app.Collection().Len(); got != 2 {
		t.Fatalf("collection len = %d, want 2", got)
	}
	if api.listCalls() != 1 {
		t.Fatalf("list calls = %d, want 1", api.listCalls())
	}

	view := m.View()
	for _, want := range []string{"keeper", "Leo", "Stripes", "Metro Zoo", "Harbour Zoo"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFilters_EnterAppliesAndFetches(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("f"))
	if _, ok := m.modal.(filterModal); !ok {
		t.Fatalf("modal = %T, want filterModal", m.modal)
	}
	m = press(t, m, runes("Lion"), keyEnter)

	if m.modal != nil {
		t.Fatalf("filter modal still open")
	}
	if got := api.lastQuery().SpeciesName; got != "Lion" {
		t.Fatalf("query species = %q, want Lion", got)
	}
	if got := m.app.Collection().Len(); got != 1 {
		t.Fatalf("collection len = %d, want 1", got)
	}
	if m.app.Query().DraftDirty() {
		t.Fatalf("draft dirty after apply")
	}
}

func TestFilters_EscapeKeepsDraftWithoutFetching(t *testing.T) {
	m, api := newTestModel(t)
	calls := api.listCalls()

	m = press(t, m, runes("f"), runes("Zeb"), keyEsc)

	if m.modal != nil {
		t.Fatalf("filter modal still open")
	}
	if api.listCalls() != calls {
		t.Fatalf("escape issued a fetch")
	}
	if got := m.app.Query().Draft().SpeciesName; got != "Zeb" {
		t.Fatalf("draft species = %q, want Zeb", got)
	}
	if !m.app.Query().DraftDirty() {
		t.Fatalf("draft should differ from applied filters")
	}
	if !strings.Contains(m.View(), "*") {
		t.Fatalf("header does not mark the dirty draft")
	}
}

func TestSortKey_TogglesOrder(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("3"))
	if q := api.lastQuery(); q.SortBy != "age" || q.SortOrder != zoo.SortAsc {
		t.Fatalf("first sort = %s %s, want age asc", q.SortBy, q.SortOrder)
	}
	if first, _ := m.app.Collection().At(0); first.Name != "Stripes" {
		t.Fatalf("first row = %s, want Stripes", first.Name)
	}

	m = press(t, m, runes("3"))
	if q := api.lastQuery(); q.SortOrder != zoo.SortDesc {
		t.Fatalf("second sort order = %s, want desc", q.SortOrder)
	}
	if !strings.Contains(m.View(), "Age↓") {
		t.Fatalf("view missing descending arrow")
	}
}

func TestCreate_ClosesFormAfterSuccess(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("a"))
	if _, ok := m.modal.(formModal); !ok {
		t.Fatalf("modal = %T, want formModal", m.modal)
	}
	m = press(t, m,
		runes("Dot"), keyTab,
		runes("2"), keyTab,
		runes("Female"), keyTab,
		runes("Zebra"), keyTab,
		runes("2"),
		keySave,
	)

	if len(api.created) != 1 || api.created[0].Name != "Dot" || api.created[0].ZooID != 2 {
		t.Fatalf("created = %#v", api.created)
	}
	if m.modal != nil {
		t.Fatalf("form still open after successful create")
	}
	if got := m.app.Collection().Len(); got != 3 {
		t.Fatalf("collection len = %d, want 3 after refresh", got)
	}
	if m.app.Form().IsEditing() {
		t.Fatalf("form not reset to creating")
	}
}

func TestCreate_ValidationKeepsForm(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("a"), keySave)

	form, ok := m.modal.(formModal)
	if !ok {
		t.Fatalf("modal = %T, want formModal", m.modal)
	}
	if len(form.problems) == 0 {
		t.Fatalf("no field problems shown")
	}
	if form.saving() {
		t.Fatalf("form saving after validation failure")
	}
	if len(api.created) != 0 {
		t.Fatalf("invalid form reached the API")
	}
}

func TestCreate_ServerFailureKeepsFormAndRaisesNotice(t *testing.T) {
	m, api := newTestModel(t)
	api.createErr = &zoo.StatusError{Code: 400, Message: "Invalid species"}
	calls := api.listCalls()

	m = press(t, m,
		runes("a"),
		runes("Dot"), keyTab,
		runes("2"), keyTab,
		runes("Female"), keyTab,
		runes("Unicorn"), keyTab,
		runes("2"),
		keySave,
	)

	form, ok := m.modal.(formModal)
	if !ok {
		t.Fatalf("form closed after failed create")
	}
	if form.saving() {
		t.Fatalf("form still saving after failure")
	}
	if got := m.app.Form().Value(state.FieldSpecies); got != "Unicorn" {
		t.Fatalf("form species = %q, want kept input", got)
	}
	if api.listCalls() != calls {
		t.Fatalf("failed create refreshed the collection")
	}
	notice, ok := m.app.Notice()
	if !ok || notice.Level != state.NoticeError || !strings.Contains(notice.Message, "Invalid species") {
		t.Fatalf("notice = %#v, %v", notice, ok)
	}
}

func TestEdit_PreloadsSelectedAnimal(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("j"), runes("e"))
	form, ok := m.modal.(formModal)
	if !ok {
		t.Fatalf("modal = %T, want formModal", m.modal)
	}
	if !form.editing || form.animalID != 2 {
		t.Fatalf("form editing=%v id=%d, want editing 2", form.editing, form.animalID)
	}
	if got := form.fields.values()[string(state.FieldName)]; got != "Stripes" {
		t.Fatalf("name field = %q, want Stripes", got)
	}
}

func TestEscape_CancelsEdit(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("e"), keyEsc)
	if m.modal != nil {
		t.Fatalf("form still open")
	}
	if m.app.Form().IsEditing() {
		t.Fatalf("cancel left the form editing")
	}
}

func TestDelete_ConfirmRemovesRow(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("x"))
	if _, ok := m.modal.(confirmModal); !ok {
		t.Fatalf("modal = %T, want confirmModal", m.modal)
	}
	m = press(t, m, runes("y"))

	if len(api.deleted) != 1 || api.deleted[0] != 1 {
		t.Fatalf("deleted = %v, want [1]", api.deleted)
	}
	if got := m.app.Collection().Len(); got != 1 {
		t.Fatalf("collection len = %d, want 1", got)
	}
}

func TestDelete_DeclineKeepsRow(t *testing.T) {
	m, api := newTestModel(t)

	m = press(t, m, runes("x"), runes("n"))
	if m.modal != nil {
		t.Fatalf("confirm still open")
	}
	if len(api.deleted) != 0 {
		t.Fatalf("declined delete reached the API")
	}
}

func TestEnter_OnZooCellShowsZooWithRoster(t *testing.T) {
	m, _ := newTestModel(t)

	for range len(columns) - 1 {
		m = press(t, m, runes("l"))
	}
	if columns[m.selectedCol].link != state.DetailZoo {
		t.Fatalf("cursor on %s, want zoo column", columns[m.selectedCol].title)
	}
	m = press(t, m, keyEnter)

	d := m.app.Detail()
	if d.Kind() != state.DetailZoo || d.Zoo().ID != 10 {
		t.Fatalf("detail kind = %v zoo = %#v", d.Kind(), d.Zoo())
	}
	if len(d.Employees()) != 1 {
		t.Fatalf("roster = %#v", d.Employees())
	}
	if !strings.Contains(m.View(), "Ada Park") {
		t.Fatalf("detail pane missing roster")
	}
}

func TestEnter_OnSpeciesCellShowsSpecies(t *testing.T) {
	m, _ := newTestModel(t)

	for range 4 {
		m = press(t, m, runes("l"))
	}
	m = press(t, m, keyEnter)

	d := m.app.Detail()
	if d.Kind() != state.DetailSpecies || d.Species().Name != "Lion" {
		t.Fatalf("detail kind = %v species = %#v", d.Kind(), d.Species())
	}
	if m.modal != nil {
		t.Fatalf("enter on a link cell opened %T", m.modal)
	}
}

func TestEnter_OnPlainCellEdits(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, keyEnter)
	if form, ok := m.modal.(formModal); !ok || form.animalID != 1 {
		t.Fatalf("modal = %#v, want edit form for animal 1", m.modal)
	}
}

func TestResort_KeepsSelectionByID(t *testing.T) {
	m, api := newTestModel(t)
	m = press(t, m, runes("j"))
	if id := m.selectedAnimalID(); id != 2 {
		t.Fatalf("selected id = %d, want 2", id)
	}

	api.mu.Lock()
	api.animals = append([]zoo.Animal{{ID: 9, Name: "Aardvark", SpeciesName: "Aardvark", ZooID: 2}}, api.animals...)
	api.mu.Unlock()

	m = press(t, m, runes("2"))
	if id := m.selectedAnimalID(); id != 2 {
		t.Fatalf("selected id after reload = %d, want 2", id)
	}
}

func TestStaleAnimals_Ignored(t *testing.T) {
	m, _ := newTestModel(t)
	stale := m.app.Refresh()
	fresh := m.app.Refresh()

	updated, _ := m.Update(animalsMsg{seq: fresh.Seq, animals: []zoo.Animal{{ID: 7, Name: "Fresh"}}})
	m = updated.(Model)
	updated, _ = m.Update(animalsMsg{seq: stale.Seq, animals: []zoo.Animal{{ID: 8, Name: "Stale"}}})
	m = updated.(Model)

	if a, _ := m.app.Collection().At(0); m.app.Collection().Len() != 1 || a.Name != "Fresh" {
		t.Fatalf("collection = %#v, want only Fresh", m.app.Collection().Animals())
	}
}

func TestToggleDetail_SavesPrefs(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("D"))
	if m.showDetail {
		t.Fatalf("detail pane still shown")
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if p.ShowDetail || p.Theme != "Nightfox" {
		t.Fatalf("prefs = %#v", p)
	}

	m = press(t, m, runes("T"))
	p, _ = prefs.Load(m.prefsPath)
	if p.Theme != "Kanagawa" {
		t.Fatalf("theme pref = %q, want Kanagawa", p.Theme)
	}
}

func TestLogs_OverlayOpensAndCloses(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("L"))
	if !m.logs.open {
		t.Fatalf("log overlay not open")
	}
	if !strings.Contains(m.View(), "Client log") {
		t.Fatalf("view missing log title")
	}

	m = press(t, m, runes("w"))
	if !m.logs.warnOnly {
		t.Fatalf("warnings filter not toggled")
	}

	m = press(t, m, keyEsc)
	if m.logs.open {
		t.Fatalf("log overlay still open")
	}
}

func TestHelp_AnyKeyCloses(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m = press(t, m, runes("x"))
	if m.showHelp || m.modal != nil {
		t.Fatalf("key after help should only close it")
	}
}

func TestCtrlC_QuitsFromAnyLayer(t *testing.T) {
	for _, tc := range []struct {
		name string
		open tea.KeyMsg
	}{
		{"table", tea.KeyMsg{}},
		{"filter modal", runes("f")},
		{"animal form", runes("a")},
		{"help", runes("?")},
		{"logs", runes("L")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			if tc.open.Type == tea.KeyRunes {
				m = press(t, m, tc.open)
			}

			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			if cmd == nil {
				t.Fatalf("ctrl+c returned no command")
			}
			msg, ok := runCmd(cmd)
			if !ok {
				t.Fatalf("ctrl+c command did not return")
			}
			if _, quit := msg.(tea.QuitMsg); !quit {
				t.Fatalf("ctrl+c produced %T, want tea.QuitMsg", msg)
			}
		})
	}
}
