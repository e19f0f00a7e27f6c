package state

import (
	"github.com/five82/keeper/internal/zoo"
)

// DetailKind identifies what the detail panel shows.
type DetailKind int

const (
	DetailNone DetailKind = iota
	DetailSpecies
	DetailZoo
)

// DetailRequest asks the caller to fetch a species or zoo profile. Results
// must be handed back with the same Token; anything else is stale.
type DetailRequest struct {
	Token   uint64
	Kind    DetailKind
	Species string
	ZooID   int64
}

// Detail is the mutually exclusive species/zoo side panel. Only the most
// recently requested target may change what is shown.
type Detail struct {
	kind      DetailKind
	species   *zoo.SpeciesDetail
	zoo       *zoo.ZooDetail
	employees []zoo.Employee

	seq        uint64
	inflight   *DetailRequest
	pendingZoo *zoo.ZooDetail
}

// Kind returns what is currently shown.
func (d Detail) Kind() DetailKind { return d.kind }

// Species returns the shown species profile, or nil.
func (d Detail) Species() *zoo.SpeciesDetail {
	if d.kind != DetailSpecies || d.species == nil {
		return nil
	}
	s := *d.species
	if s.Habitat != nil {
		h := *s.Habitat
		s.Habitat = &h
	}
	return &s
}

// Zoo returns the shown zoo profile, or nil.
func (d Detail) Zoo() *zoo.ZooDetail {
	if d.kind != DetailZoo || d.zoo == nil {
		return nil
	}
	z := *d.zoo
	return &z
}

// Employees returns the roster of the shown zoo.
func (d Detail) Employees() []zoo.Employee {
	if d.kind != DetailZoo || len(d.employees) == 0 {
		return nil
	}
	dup := make([]zoo.Employee, len(d.employees))
	copy(dup, d.employees)
	return dup
}

// Pending returns the in-flight request, if any.
func (d Detail) Pending() (DetailRequest, bool) {
	if d.inflight == nil {
		return DetailRequest{}, false
	}
	return *d.inflight, true
}

func (d *Detail) request(kind DetailKind, species string, zooID int64) DetailRequest {
	d.seq++
	req := DetailRequest{Token: d.seq, Kind: kind, Species: species, ZooID: zooID}
	d.inflight = &req
	d.pendingZoo = nil
	return req
}

// current reports whether token belongs to the newest request for kind.
func (d *Detail) current(token uint64, kind DetailKind) bool {
	return d.inflight != nil && d.inflight.Token == token && d.inflight.Kind == kind
}

func (d *Detail) showSpecies(s zoo.SpeciesDetail) {
	d.kind = DetailSpecies
	d.species = &s
	d.zoo = nil
	d.employees = nil
	d.inflight = nil
	d.pendingZoo = nil
}

func (d *Detail) showZoo(z zoo.ZooDetail, roster []zoo.Employee) {
	d.kind = DetailZoo
	d.zoo = &z
	d.species = nil
	d.employees = nil
	if len(roster) > 0 {
		d.employees = make([]zoo.Employee, len(roster))
		copy(d.employees, roster)
	}
	d.inflight = nil
	d.pendingZoo = nil
}

func (d *Detail) abandon() {
	d.inflight = nil
	d.pendingZoo = nil
}

func (d *Detail) clear() {
	d.kind = DetailNone
	d.species = nil
	d.zoo = nil
	d.employees = nil
	d.abandon()
}
