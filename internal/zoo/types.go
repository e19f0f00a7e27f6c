package zoo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Gender is the fixed enumeration accepted for animals.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders lists the accepted values in display order.
var Genders = []Gender{GenderMale, GenderFemale}

// ParseGender matches value case-insensitively against the enumeration.
func ParseGender(value string) (Gender, error) {
	trimmed := strings.TrimSpace(value)
	for _, g := range Genders {
		if strings.EqualFold(trimmed, string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", value)
}

// Animal mirrors a row returned by GET /animals.
type Animal struct {
	ID          int64  `json:"animal_id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	SpeciesName string `json:"species_name"`
	ZooID       int64  `json:"zoo_id"`
	ZooName     string `json:"zoo_name,omitempty"`
}

// UnmarshalJSON accepts age as any whole, non-negative JSON number. Servers
// that keep age in a float column send 5.0 rather than 5.
func (a *Animal) UnmarshalJSON(data []byte) error {
	type plain Animal
	var raw struct {
		plain
		Age json.Number `json:"age"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	age, err := parseAge(raw.Age)
	if err != nil {
		return err
	}
	*a = Animal(raw.plain)
	a.Age = age
	return nil
}

func parseAge(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("animal age %q: %w", n, err)
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("animal age %s is not a whole non-negative number", n)
	}
	return int(f), nil
}

// Input returns the writable fields of the animal.
func (a Animal) Input() AnimalInput {
	return AnimalInput{
		Name:        a.Name,
		Age:         a.Age,
		Gender:      a.Gender,
		SpeciesName: a.SpeciesName,
		ZooID:       a.ZooID,
	}
}

// AnimalInput is the body of POST /animals and PUT /animals/{id}.
type AnimalInput struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	SpeciesName string `json:"species_name"`
	ZooID       int64  `json:"zoo_id"`
}

// Habitat describes the environment a species lives in.
type Habitat struct {
	Name        string  `json:"habitat"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// SpeciesDetail mirrors GET /species/{name}.
type SpeciesDetail struct {
	Name    string   `json:"species_name"`
	Food    string   `json:"food"`
	Habitat *Habitat `json:"habitat"`
}

// ZooSummary is the identifier/name pair used by selection lists.
type ZooSummary struct {
	ID   int64  `json:"zoo_id"`
	Name string `json:"name"`
}

// ZooDetail mirrors GET /zoos/{id}.
type ZooDetail struct {
	ID       int64  `json:"zoo_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Employee mirrors an entry of GET /zoos/{id}/employees.
type Employee struct {
	ID             int64  `json:"emp_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Sort orders understood by GET /animals.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortFields are the animal columns the server can order by.
var SortFields = []string{"animal_id", "name", "age", "gender", "species_name", "zoo_id"}

// IsSortField reports whether field is a sortable animal column.
func IsSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}
