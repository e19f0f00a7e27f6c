package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/keeper/internal/zoo"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not resolved.
var ErrSubmitInFlight = errors.New("submission already in flight")

// FormField names an editable animal field.
type FormField string

const (
	FieldName    FormField = "name"
	FieldAge     FormField = "age"
	FieldGender  FormField = "gender"
	FieldSpecies FormField = "species_name"
	FieldZoo     FormField = "zoo_id"
)

// FormFields lists the editable fields in display order.
var FormFields = []FormField{FieldName, FieldAge, FieldGender, FieldSpecies, FieldZoo}

// ValidationError lists the fields that failed validation, with reasons.
type ValidationError struct {
	Fields map[FormField]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range FormFields {
		if reason, ok := e.Fields[field]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", field, reason))
		}
	}
	return "invalid animal: " + strings.Join(parts, ", ")
}

// Form is the in-progress create-or-update record. Editing mode is derived
// from the presence of an animal id, so the two can never disagree.
type Form struct {
	animalID *int64
	values   map[FormField]string

	// submitToken is the mutation token of an unresolved submission, or 0.
	submitToken uint64
}

func newForm() Form {
	return Form{values: make(map[FormField]string, len(FormFields))}
}

// IsEditing reports whether the form targets an existing animal.
func (f Form) IsEditing() bool { return f.animalID != nil }

// AnimalID returns the id being edited.
func (f Form) AnimalID() (int64, bool) {
	if f.animalID == nil {
		return 0, false
	}
	return *f.animalID, true
}

// Value returns the text of field as entered.
func (f Form) Value(field FormField) string { return f.values[field] }

// Submitting reports whether a submission is awaiting its response.
func (f Form) Submitting() bool { return f.submitToken != 0 }

func (f *Form) reset() {
	f.animalID = nil
	f.values = make(map[FormField]string, len(FormFields))
	f.submitToken = 0
}

func (f *Form) load(a zoo.Animal) {
	id := a.ID
	f.animalID = &id
	f.values = map[FormField]string{
		FieldName:    a.Name,
		FieldAge:     strconv.Itoa(a.Age),
		FieldGender:  string(a.Gender),
		FieldSpecies: a.SpeciesName,
		FieldZoo:     strconv.FormatInt(a.ZooID, 10),
	}
	f.submitToken = 0
}

func (f *Form) set(field FormField, value string) error {
	if !isFormField(field) {
		return fmt.Errorf("form field %q: %w", field, ErrUnknownField)
	}
	if f.values == nil {
		f.values = make(map[FormField]string, len(FormFields))
	}
	f.values[field] = value
	return nil
}

// input validates the form and converts it to the wire body.
func (f Form) input() (zoo.AnimalInput, error) {
	problems := make(map[FormField]string)
	value := func(field FormField) string {
		v := strings.TrimSpace(f.values[field])
		if v == "" {
			problems[field] = "is required"
		}
		return v
	}

	in := zoo.AnimalInput{
		Name:        value(FieldName),
		SpeciesName: value(FieldSpecies),
	}
	if age := value(FieldAge); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil || n < 0 {
			problems[FieldAge] = "must be a non-negative whole number"
		}
		in.Age = n
	}
	if gender := value(FieldGender); gender != "" {
		g, err := zoo.ParseGender(gender)
		if err != nil {
			problems[FieldGender] = "must be Male or Female"
		}
		in.Gender = g
	}
	if zooID := value(FieldZoo); zooID != "" {
		id, err := strconv.ParseInt(zooID, 10, 64)
		if err != nil || id <= 0 {
			problems[FieldZoo] = "must be a zoo id"
		}
		in.ZooID = id
	}

	if len(problems) > 0 {
		return zoo.AnimalInput{}, &ValidationError{Fields: problems}
	}
	return in, nil
}

func isFormField(field FormField) bool {
	for _, f := range FormFields {
		if f == field {
			return true
		}
	}
	return false
}

// MutationKind identifies a write against the animal collection.
type MutationKind int

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation asks the caller to issue a write and report back through
// App.ApplyMutation.
type Mutation struct {
	Token    uint64
	Kind     MutationKind
	AnimalID int64
	Input    zoo.AnimalInput
}
