package state

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/five82/keeper/internal/zoo"
)

const defaultNoticeTTL = 6 * time.Second

// App is the application state owned by the UI. It is not safe for
// concurrent use: every operation runs on the UI goroutine, and network
// work is described by the returned requests rather than performed here.
type App struct {
	logger    *slog.Logger
	now       func() time.Time
	noticeTTL time.Duration

	species       []string
	zoos          []zoo.ZooSummary
	refRequested  bool
	speciesLoaded bool
	zoosLoaded    bool

	collection Collection
	query      Query
	form       Form
	detail     Detail

	mutationSeq uint64
	notice      *Notice
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for discarded and failed responses.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithNoticeTTL sets how long a notice stays visible.
func WithNoticeTTL(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.noticeTTL = d
		}
	}
}

// New returns an App with blank filters, ascending order and an empty form.
func New(opts ...Option) *App {
	a := &App{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		noticeTTL: defaultNoticeTTL,
		query:     newQuery(),
		form:      newForm(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// --- Reference data ---

// BeginReferenceLoad reports whether the reference lists still need to be
// fetched. It returns true exactly once per App.
func (a *App) BeginReferenceLoad() bool {
	if a.refRequested {
		return false
	}
	a.refRequested = true
	return true
}

// ApplySpeciesList stores the species names. A failure leaves the list empty.
func (a *App) ApplySpeciesList(names []string, err error) {
	if err != nil {
		a.logger.Warn("species list fetch failed", "error", err)
		a.raise(NoticeError, describeError("Loading species", err))
		return
	}
	a.species = append([]string(nil), names...)
	a.speciesLoaded = true
}

// ApplyZooList stores the zoo summaries. A failure leaves the list empty.
func (a *App) ApplyZooList(zoos []zoo.ZooSummary, err error) {
	if err != nil {
		a.logger.Warn("zoo list fetch failed", "error", err)
		a.raise(NoticeError, describeError("Loading zoos", err))
		return
	}
	a.zoos = append([]zoo.ZooSummary(nil), zoos...)
	a.zoosLoaded = true
}

// Species returns the species names for selectors.
func (a *App) Species() []string { return append([]string(nil), a.species...) }

// Zoos returns the zoo summaries for selectors.
func (a *App) Zoos() []zoo.ZooSummary { return append([]zoo.ZooSummary(nil), a.zoos...) }

// ReferenceLoaded reports whether both lists arrived.
func (a *App) ReferenceLoaded() bool { return a.speciesLoaded && a.zoosLoaded }

// ZooName resolves a zoo id (as text) to its display name.
func (a *App) ZooName(id string) string {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ""
	}
	for _, z := range a.zoos {
		if z.ID == n {
			return z.Name
		}
	}
	return ""
}

// --- Query state and collection ---

// Query returns the current filter and sort state.
func (a *App) Query() Query { return a.query }

// Collection returns the cached animal list.
func (a *App) Collection() Collection { return a.collection }

// SetFilter edits the draft filters. The visible list is unaffected until
// ApplyFilters.
func (a *App) SetFilter(field FilterField, value string) error {
	return a.query.setFilter(field, value)
}

// ClearFilters blanks the draft filters. ApplyFilters is still required.
func (a *App) ClearFilters() {
	a.query.draft = Filters{}
}

// ApplyFilters promotes the draft filters and requests a fetch.
func (a *App) ApplyFilters() FetchRequest {
	a.query.applied = a.query.draft
	return a.collection.issue(a.query.request())
}

// SetSort toggles the sort column and requests a fetch immediately, using
// the applied filters rather than any unapplied draft.
func (a *App) SetSort(field string) (FetchRequest, error) {
	if err := a.query.toggleSort(field); err != nil {
		return FetchRequest{}, err
	}
	return a.collection.issue(a.query.request()), nil
}

// Refresh requests a fetch with the applied query.
func (a *App) Refresh() FetchRequest {
	return a.collection.issue(a.query.request())
}

// ApplyAnimals installs the result of fetch seq. Results from anything but
// the newest fetch are discarded and false is returned. On error the cache
// is left untouched.
func (a *App) ApplyAnimals(seq uint64, animals []zoo.Animal, err error) bool {
	a.collection.settle(seq)
	if !a.collection.current(seq) {
		a.logger.Debug("discarding stale animal list", "seq", seq, "current", a.collection.issued)
		return false
	}
	if err != nil {
		a.logger.Warn("animal list fetch failed", "seq", seq, "error", err)
		a.raise(NoticeError, describeError("Loading animals", err))
		return true
	}
	a.collection.replace(animals, a.now())
	return true
}

// --- Edit/form state ---

// Form returns the in-progress record.
func (a *App) Form() Form { return a.form }

// StartCreate switches to Creating with blank fields.
func (a *App) StartCreate() {
	a.form.reset()
}

// StartEdit switches to Editing and loads every field of animal.
func (a *App) StartEdit(animal zoo.Animal) {
	a.form.load(animal)
}

// Cancel discards in-progress edits and returns to Creating.
func (a *App) Cancel() {
	a.form.reset()
}

// SetField edits one form field.
func (a *App) SetField(field FormField, value string) error {
	return a.form.set(field, value)
}

// Submit validates the form and returns the create or update to issue.
func (a *App) Submit() (Mutation, error) {
	if a.form.Submitting() {
		return Mutation{}, ErrSubmitInFlight
	}
	input, err := a.form.input()
	if err != nil {
		a.raise(NoticeWarn, describeError("Saving", err))
		return Mutation{}, err
	}
	a.mutationSeq++
	m := Mutation{Token: a.mutationSeq, Kind: MutationCreate, Input: input}
	if id, ok := a.form.AnimalID(); ok {
		m.Kind = MutationUpdate
		m.AnimalID = id
	}
	a.form.submitToken = m.Token
	return m, nil
}

// Delete returns the delete to issue for animal.
func (a *App) Delete(animal zoo.Animal) (Mutation, error) {
	if animal.ID <= 0 {
		return Mutation{}, fmt.Errorf("delete: animal has no id")
	}
	a.mutationSeq++
	return Mutation{Token: a.mutationSeq, Kind: MutationDelete, AnimalID: animal.ID}, nil
}

// ApplyMutation records the outcome of m. Success refreshes the collection
// and, for the form's own submission, resets the form to Creating. Failure
// leaves both the form and the cache unchanged.
func (a *App) ApplyMutation(m Mutation, err error) (FetchRequest, bool) {
	ownSubmission := m.Kind != MutationDelete && a.form.submitToken == m.Token
	if ownSubmission {
		a.form.submitToken = 0
	}
	if err != nil {
		a.logger.Warn("animal mutation failed", "kind", m.Kind.String(), "animal_id", m.AnimalID, "error", err)
		a.raise(NoticeError, describeError(mutationVerb(m.Kind), err))
		return FetchRequest{}, false
	}

	a.logger.Info("animal mutation applied", "kind", m.Kind.String(), "animal_id", m.AnimalID)
	if ownSubmission {
		a.form.reset()
	}
	switch m.Kind {
	case MutationCreate:
		a.raise(NoticeInfo, fmt.Sprintf("Added %s", m.Input.Name))
	case MutationUpdate:
		a.raise(NoticeInfo, fmt.Sprintf("Updated %s", m.Input.Name))
	case MutationDelete:
		a.raise(NoticeInfo, fmt.Sprintf("Deleted animal #%d", m.AnimalID))
	}
	return a.Refresh(), true
}

func mutationVerb(kind MutationKind) string {
	switch kind {
	case MutationCreate:
		return "Adding animal"
	case MutationUpdate:
		return "Updating animal"
	default:
		return "Deleting animal"
	}
}

// --- Detail selection ---

// Detail returns the side panel state.
func (a *App) Detail() Detail { return a.detail }

// SelectSpecies requests the profile of species name.
func (a *App) SelectSpecies(name string) DetailRequest {
	return a.detail.request(DetailSpecies, name, 0)
}

// SelectZoo requests the profile and roster of zoo id.
func (a *App) SelectZoo(id int64) DetailRequest {
	return a.detail.request(DetailZoo, "", id)
}

// ClearDetail hides the panel and orphans any in-flight request.
func (a *App) ClearDetail() {
	a.detail.clear()
}

// ApplySpeciesDetail shows species if req is still the newest selection.
func (a *App) ApplySpeciesDetail(req DetailRequest, species zoo.SpeciesDetail, err error) bool {
	if !a.detail.current(req.Token, DetailSpecies) {
		a.logger.Debug("discarding stale species detail", "token", req.Token, "species", req.Species)
		return false
	}
	if err != nil {
		a.detail.abandon()
		a.logger.Warn("species detail fetch failed", "species", req.Species, "error", err)
		a.raise(NoticeError, describeError("Loading species "+req.Species, err))
		return true
	}
	a.detail.showSpecies(species)
	return true
}

// ApplyZooDetail stashes the zoo profile of req. It returns true when the
// caller should go on to fetch the roster for the same request; a stale or
// failed request returns false and the roster must not be fetched.
func (a *App) ApplyZooDetail(req DetailRequest, z zoo.ZooDetail, err error) bool {
	if !a.detail.current(req.Token, DetailZoo) {
		a.logger.Debug("discarding stale zoo detail", "token", req.Token, "zoo_id", req.ZooID)
		return false
	}
	if err != nil {
		a.detail.abandon()
		a.logger.Warn("zoo detail fetch failed", "zoo_id", req.ZooID, "error", err)
		a.raise(NoticeError, describeError(fmt.Sprintf("Loading zoo #%d", req.ZooID), err))
		return false
	}
	if z.ID == 0 {
		z.ID = req.ZooID
	}
	a.detail.pendingZoo = &z
	return true
}

// ApplyEmployees completes a zoo selection once its roster arrives.
func (a *App) ApplyEmployees(req DetailRequest, roster []zoo.Employee, err error) bool {
	if !a.detail.current(req.Token, DetailZoo) || a.detail.pendingZoo == nil {
		a.logger.Debug("discarding stale employee roster", "token", req.Token, "zoo_id", req.ZooID)
		return false
	}
	if err != nil {
		a.detail.abandon()
		a.logger.Warn("employee roster fetch failed", "zoo_id", req.ZooID, "error", err)
		a.raise(NoticeError, describeError(fmt.Sprintf("Loading staff of zoo #%d", req.ZooID), err))
		return true
	}
	a.detail.showZoo(*a.detail.pendingZoo, roster)
	return true
}

// --- Notices ---

// Notice returns the current notice unless it has expired.
func (a *App) Notice() (Notice, bool) {
	if a.notice == nil {
		return Notice{}, false
	}
	if a.now().Sub(a.notice.At) > a.noticeTTL {
		return Notice{}, false
	}
	return *a.notice, true
}

// DismissNotice clears the current notice.
func (a *App) DismissNotice() {
	a.notice = nil
}

// Notify raises a notice from outside the state machine, such as a UI
// prompt outcome.
func (a *App) Notify(level NoticeLevel, message string) {
	a.raise(level, message)
}

func (a *App) raise(level NoticeLevel, message string) {
	a.notice = &Notice{Level: level, Message: message, At: a.now()}
}
