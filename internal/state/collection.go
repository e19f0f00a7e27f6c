package state

import (
	"time"

	"github.com/five82/keeper/internal/zoo"
)

// FetchRequest asks the caller to run GET /animals with Query and hand the
// result back to App.ApplyAnimals together with Seq.
type FetchRequest struct {
	Seq   uint64
	Query zoo.AnimalQuery
}

// Collection is a projection of the last successful fetch. It is never
// patched locally; every mutation is followed by a full re-fetch.
type Collection struct {
	animals []zoo.Animal
	issued  uint64
	settled uint64
	updated time.Time
	loaded  bool
}

func (c *Collection) issue(query zoo.AnimalQuery) FetchRequest {
	c.issued++
	return FetchRequest{Seq: c.issued, Query: query}
}

// current reports whether seq is the newest request issued.
func (c *Collection) current(seq uint64) bool {
	return seq == c.issued
}

func (c *Collection) settle(seq uint64) {
	if seq > c.settled {
		c.settled = seq
	}
}

func (c *Collection) replace(animals []zoo.Animal, at time.Time) {
	c.animals = cloneAnimals(animals)
	c.updated = at
	c.loaded = true
}

// Animals returns a copy of the cached rows in server order.
func (c Collection) Animals() []zoo.Animal { return cloneAnimals(c.animals) }

// Len returns the number of cached rows.
func (c Collection) Len() int { return len(c.animals) }

// At returns the row at index i.
func (c Collection) At(i int) (zoo.Animal, bool) {
	if i < 0 || i >= len(c.animals) {
		return zoo.Animal{}, false
	}
	return c.animals[i], true
}

// Pending reports whether the newest fetch has not resolved yet.
func (c Collection) Pending() bool { return c.settled < c.issued }

// Loaded reports whether any fetch has succeeded.
func (c Collection) Loaded() bool { return c.loaded }

// Updated returns when the cache was last replaced.
func (c Collection) Updated() time.Time { return c.updated }

func cloneAnimals(items []zoo.Animal) []zoo.Animal {
	if len(items) == 0 {
		return nil
	}
	dup := make([]zoo.Animal, len(items))
	copy(dup, items)
	return dup
}
