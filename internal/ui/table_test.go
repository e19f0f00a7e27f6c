package ui

import (
	"testing"
	"time"

	"github.com/five82/keeper/internal/state"
)

func TestColumnWidths_FillWidth(t *testing.T) {
	for _, width := range []int{60, 89, 120, 181} {
		widths := columnWidths(width)
		total := len(columns) - 1
		for _, w := range widths {
			total += w
		}
		if total != width {
			t.Errorf("columnWidths(%d) total = %d", width, total)
		}
	}
}

func TestColumnWidths_NarrowKeepsMinimum(t *testing.T) {
	widths := columnWidths(10)
	for i, c := range columns {
		if c.width == 0 && widths[i] < 4 {
			t.Errorf("column %s width = %d, want >= 4", c.title, widths[i])
		}
	}
}

func TestColumns_MatchSortFields(t *testing.T) {
	app := state.New()
	for _, c := range columns {
		if _, err := app.SetSort(c.field); err != nil {
			t.Errorf("column %s field %q not sortable: %v", c.title, c.field, err)
		}
	}
}

func TestTableWindow(t *testing.T) {
	tests := []struct {
		name                  string
		selected, total, rows int
		want                  int
	}{
		{name: "fits", selected: 3, total: 5, rows: 10, want: 0},
		{name: "top", selected: 1, total: 50, rows: 10, want: 0},
		{name: "middle", selected: 25, total: 50, rows: 10, want: 20},
		{name: "bottom", selected: 49, total: 50, rows: 10, want: 40},
		{name: "no rows", selected: 4, total: 50, rows: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tableWindow(tt.selected, tt.total, tt.rows); got != tt.want {
				t.Errorf("tableWindow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterSummary(t *testing.T) {
	names := map[string]string{"10": "Metro Zoo"}
	lookup := func(id string) string { return names[id] }

	f := state.Filters{SpeciesName: "Lion", ZooID: "10", MinAge: "2", Gender: "Female"}
	if got, want := filterSummary(f, lookup), "species=Lion zoo=Metro Zoo age≥2 gender=Female"; got != want {
		t.Errorf("filterSummary() = %q, want %q", got, want)
	}

	f = state.Filters{ZooID: "99", MaxAge: "8"}
	if got, want := filterSummary(f, lookup), "zoo=99 age≤8"; got != want {
		t.Errorf("filterSummary() = %q, want %q", got, want)
	}

	if got := filterSummary(state.Filters{}, lookup); got != "" {
		t.Errorf("filterSummary(empty) = %q", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	base := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "now", now: base.Add(10 * time.Second), want: "09:30:00 (now)"},
		{name: "minutes", now: base.Add(5 * time.Minute), want: "09:30:00 (5m ago)"},
		{name: "hours", now: base.Add(3 * time.Hour), want: "09:30:00 (3h ago)"},
		{name: "old", now: base.Add(48 * time.Hour), want: "09:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestamp(base, tt.now); got != tt.want {
				t.Errorf("formatTimestamp() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := formatTimestamp(time.Time{}, base); got != "" {
		t.Errorf("zero time = %q, want empty", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("http://127.0.0.1:5000", 40); got != "http://127.0.0.1:5000" {
		t.Errorf("short = %q", got)
	}
	got := truncateMiddle("/home/user/.local/state/keeper/keeper.log", 16)
	if n := len([]rune(got)); n != 16 {
		t.Errorf("len = %d, want 16 (%q)", n, got)
	}
}
