package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/keeper/internal/zoo"
)

// ErrUnknownField is returned when a filter, sort or form field name is not recognized.
var ErrUnknownField = errors.New("unknown field")

// FilterField names one of the five collection filters.
type FilterField string

const (
	FilterSpecies FilterField = "species_name"
	FilterZoo     FilterField = "zoo_id"
	FilterMinAge  FilterField = "minAge"
	FilterMaxAge  FilterField = "maxAge"
	FilterGender  FilterField = "gender"
)

// FilterFields lists the filters in display order.
var FilterFields = []FilterField{FilterSpecies, FilterZoo, FilterMinAge, FilterMaxAge, FilterGender}

// Filters holds the criteria sent to GET /animals. Empty means unconstrained.
type Filters struct {
	SpeciesName string
	ZooID       string
	MinAge      string
	MaxAge      string
	Gender      string
}

// Get returns the value of field.
func (f Filters) Get(field FilterField) string {
	switch field {
	case FilterSpecies:
		return f.SpeciesName
	case FilterZoo:
		return f.ZooID
	case FilterMinAge:
		return f.MinAge
	case FilterMaxAge:
		return f.MaxAge
	case FilterGender:
		return f.Gender
	}
	return ""
}

func (f *Filters) set(field FilterField, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FilterSpecies:
		f.SpeciesName = value
	case FilterZoo:
		f.ZooID = value
	case FilterMinAge:
		f.MinAge = value
	case FilterMaxAge:
		f.MaxAge = value
	case FilterGender:
		f.Gender = value
	default:
		return fmt.Errorf("filter %q: %w", field, ErrUnknownField)
	}
	return nil
}

// Active returns the number of constrained filters.
func (f Filters) Active() int {
	n := 0
	for _, field := range FilterFields {
		if f.Get(field) != "" {
			n++
		}
	}
	return n
}

// Query is the filter and sort state. Filter edits land in a draft and
// only reach the server through ApplyFilters; sort edits apply at once.
type Query struct {
	draft     Filters
	applied   Filters
	sortBy    string
	sortOrder string
}

func newQuery() Query {
	return Query{sortOrder: zoo.SortAsc}
}

// Draft returns the filters being edited.
func (q Query) Draft() Filters { return q.draft }

// Applied returns the filters the visible collection was requested with.
func (q Query) Applied() Filters { return q.applied }

// DraftDirty reports whether the draft differs from the applied filters.
func (q Query) DraftDirty() bool { return q.draft != q.applied }

// SortBy returns the sorted column or "" when unsorted.
func (q Query) SortBy() string { return q.sortBy }

// SortOrder returns asc or desc.
func (q Query) SortOrder() string {
	if q.sortOrder == "" {
		return zoo.SortAsc
	}
	return q.sortOrder
}

// SortIndicator returns the arrow for field, or "" when not sorted by it.
func (q Query) SortIndicator(field string) string {
	if q.sortBy == "" || q.sortBy != field {
		return ""
	}
	if q.SortOrder() == zoo.SortDesc {
		return "↓"
	}
	return "↑"
}

func (q *Query) setFilter(field FilterField, value string) error {
	return q.draft.set(field, value)
}

// toggleSort applies the sort rule: the same column flips its order,
// a new column starts ascending.
func (q *Query) toggleSort(field string) error {
	if !zoo.IsSortField(field) {
		return fmt.Errorf("sort %q: %w", field, ErrUnknownField)
	}
	order := zoo.SortAsc
	if q.sortBy == field && q.SortOrder() == zoo.SortAsc {
		order = zoo.SortDesc
	}
	q.sortBy = field
	q.sortOrder = order
	return nil
}

// request builds the wire query from the applied filters and sort.
func (q Query) request() zoo.AnimalQuery {
	return zoo.AnimalQuery{
		SpeciesName: q.applied.SpeciesName,
		ZooID:       q.applied.ZooID,
		MinAge:      q.applied.MinAge,
		MaxAge:      q.applied.MaxAge,
		Gender:      q.applied.Gender,
		SortBy:      q.sortBy,
		SortOrder:   q.SortOrder(),
	}
}
