package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/five82/keeper/internal/zoo"
)

func TestSetSort_ToggleRule(t *testing.T) {
	tests := []struct {
		name      string
		clicks    []string
		wantBy    string
		wantOrder string
	}{
		{name: "first click ascends", clicks: []string{"age"}, wantBy: "age", wantOrder: zoo.SortAsc},
		{name: "same column flips", clicks: []string{"age", "age"}, wantBy: "age", wantOrder: zoo.SortDesc},
		{name: "third click flips back", clicks: []string{"age", "age", "age"}, wantBy: "age", wantOrder: zoo.SortAsc},
		{name: "new column resets to asc", clicks: []string{"age", "age", "name"}, wantBy: "name", wantOrder: zoo.SortAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			var last FetchRequest
			for _, field := range tt.clicks {
				req, err := a.SetSort(field)
				if err != nil {
					t.Fatalf("SetSort(%q): %v", field, err)
				}
				last = req
			}
			q := a.Query()
			if q.SortBy() != tt.wantBy || q.SortOrder() != tt.wantOrder {
				t.Fatalf("sort = %s %s, want %s %s", q.SortBy(), q.SortOrder(), tt.wantBy, tt.wantOrder)
			}
			if last.Query.SortBy != tt.wantBy || last.Query.SortOrder != tt.wantOrder {
				t.Fatalf("request sort = %s %s, want %s %s", last.Query.SortBy, last.Query.SortOrder, tt.wantBy, tt.wantOrder)
			}
		})
	}
}

func TestSetSort_UnknownField(t *testing.T) {
	a := New()
	if _, err := a.SetSort("zoo_name"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("SetSort(zoo_name) err = %v, want ErrUnknownField", err)
	}
	if a.Query().SortBy() != "" {
		t.Fatalf("SortBy = %q after rejected sort, want empty", a.Query().SortBy())
	}
	if a.Collection().Pending() {
		t.Fatalf("rejected sort should not issue a fetch")
	}
}

func TestSetFilter_DoesNotFetchUntilApplied(t *testing.T) {
	a := New()
	initial := a.Refresh()
	a.ApplyAnimals(initial.Seq, []zoo.Animal{{ID: 1, Name: "Leo"}}, nil)

	if err := a.SetFilter(FilterSpecies, "Li"); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if a.Collection().Pending() {
		t.Fatalf("SetFilter issued a fetch")
	}
	if got := a.Query().Applied().SpeciesName; got != "" {
		t.Fatalf("applied species = %q before ApplyFilters, want empty", got)
	}
	if !a.Query().DraftDirty() {
		t.Fatalf("DraftDirty = false, want true")
	}
	if a.Collection().Len() != 1 {
		t.Fatalf("visible rows changed by draft filter")
	}

	req := a.ApplyFilters()
	if req.Query.SpeciesName != "Li" {
		t.Fatalf("request species = %q, want Li", req.Query.SpeciesName)
	}
	if a.Query().DraftDirty() {
		t.Fatalf("DraftDirty = true after apply")
	}
}

func TestSetFilter_UnknownField(t *testing.T) {
	a := New()
	if err := a.SetFilter("colour", "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestSetSort_UsesAppliedFiltersNotDraft(t *testing.T) {
	a := New()
	_ = a.SetFilter(FilterGender, "Female")
	a.ApplyFilters()
	_ = a.SetFilter(FilterGender, "Male")
	_ = a.SetFilter(FilterMinAge, "3")

	req, err := a.SetSort("name")
	if err != nil {
		t.Fatalf("SetSort: %v", err)
	}
	if req.Query.Gender != "Female" || req.Query.MinAge != "" {
		t.Fatalf("sort request used draft filters: %#v", req.Query)
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	a := New()
	_ = a.SetFilter(FilterZoo, "10")
	_ = a.SetFilter(FilterMaxAge, " 9 ")

	first := a.ApplyFilters()
	second := a.ApplyFilters()
	if !reflect.DeepEqual(first.Query, second.Query) {
		t.Fatalf("queries differ: %#v vs %#v", first.Query, second.Query)
	}
	if first.Query.MaxAge != "9" {
		t.Fatalf("MaxAge = %q, want trimmed 9", first.Query.MaxAge)
	}
	if second.Seq <= first.Seq {
		t.Fatalf("seq did not advance: %d then %d", first.Seq, second.Seq)
	}
}

func TestClearFilters_RequiresApply(t *testing.T) {
	a := New()
	_ = a.SetFilter(FilterSpecies, "Lion")
	a.ApplyFilters()

	a.ClearFilters()
	if a.Query().Draft().Active() != 0 {
		t.Fatalf("draft still has filters")
	}
	if a.Query().Applied().SpeciesName != "Lion" {
		t.Fatalf("ClearFilters touched applied filters")
	}
	req := a.ApplyFilters()
	if v := req.Query.Values(); len(v) != 1 || v.Get("sort_order") != zoo.SortAsc {
		t.Fatalf("cleared query values = %v, want only sort_order", v)
	}
}

func TestSortIndicator(t *testing.T) {
	a := New()
	if got := a.Query().SortIndicator("age"); got != "" {
		t.Fatalf("unsorted indicator = %q", got)
	}
	_, _ = a.SetSort("age")
	if got := a.Query().SortIndicator("age"); got != "↑" {
		t.Fatalf("asc indicator = %q, want ↑", got)
	}
	if got := a.Query().SortIndicator("name"); got != "" {
		t.Fatalf("other column indicator = %q, want empty", got)
	}
	_, _ = a.SetSort("age")
	if got := a.Query().SortIndicator("age"); got != "↓" {
		t.Fatalf("desc indicator = %q, want ↓", got)
	}
}
