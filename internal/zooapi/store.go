package zooapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/five82/keeper/internal/zoo"
)

const schema = `
CREATE TABLE IF NOT EXISTS habitat (
    habitat     TEXT PRIMARY KEY,
    temperature REAL NOT NULL,
    humidity    REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS species (
    species_name TEXT PRIMARY KEY,
    food         TEXT NOT NULL,
    habitat      TEXT NOT NULL REFERENCES habitat(habitat)
);

CREATE TABLE IF NOT EXISTS zoo (
    zoo_id   INTEGER PRIMARY KEY,
    name     TEXT NOT NULL,
    location TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS animal (
    animal_id    INTEGER PRIMARY KEY,
    species_name TEXT NOT NULL REFERENCES species(species_name),
    zoo_id       INTEGER NOT NULL REFERENCES zoo(zoo_id),
    name         TEXT NOT NULL,
    age          INTEGER NOT NULL CHECK(age >= 0),
    gender       TEXT NOT NULL CHECK(gender IN ('Male','Female'))
);

CREATE TABLE IF NOT EXISTS employee (
    emp_id          INTEGER PRIMARY KEY,
    zoo_id          INTEGER NOT NULL REFERENCES zoo(zoo_id),
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    job_title       TEXT NOT NULL,
    job_description TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_animal_zoo_id ON animal(zoo_id);
CREATE INDEX IF NOT EXISTS idx_animal_species_name ON animal(species_name);
CREATE INDEX IF NOT EXISTS idx_employee_zoo_id ON employee(zoo_id);
`

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownSpecies is returned when an animal names a missing species.
	ErrUnknownSpecies = errors.New("unknown species")
	// ErrUnknownZoo is returned when an animal names a missing zoo.
	ErrUnknownZoo = errors.New("unknown zoo")
)

// sortColumns whitelists the sort_by values accepted by ListAnimals.
var sortColumns = map[string]string{
	"animal_id":    "a.animal_id",
	"name":         "a.name",
	"age":          "a.age",
	"gender":       "a.gender",
	"species_name": "a.species_name",
	"zoo_id":       "a.zoo_id",
}

// AnimalFilter narrows GET /animals. Nil and empty fields are unconstrained.
type AnimalFilter struct {
	SpeciesName string
	ZooID       *int64
	MinAge      *float64
	MaxAge      *float64
	Gender      string
	SortBy      string
	SortOrder   string
}

// Store persists zoo records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Empty reports whether no zoo has been stored yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM zoo").Scan(&n); err != nil {
		return false, fmt.Errorf("count zoos: %w", err)
	}
	return n == 0, nil
}

const animalColumns = `a.animal_id, a.name, a.age, a.gender, a.species_name, a.zoo_id, z.name`

func scanAnimal(row interface{ Scan(...any) error }) (zoo.Animal, error) {
	var a zoo.Animal
	var gender string
	if err := row.Scan(&a.ID, &a.Name, &a.Age, &gender, &a.SpeciesName, &a.ZooID, &a.ZooName); err != nil {
		return zoo.Animal{}, err
	}
	a.Gender = zoo.Gender(gender)
	return a, nil
}

// ListAnimals returns animals matching f, ordered by the whitelisted sort
// column with animal_id as tie-break. Unknown sort values fall back to id
// order.
func (s *Store) ListAnimals(ctx context.Context, f AnimalFilter) ([]zoo.Animal, error) {
	var (
		where []string
		args  []any
	)
	if f.SpeciesName != "" {
		where = append(where, "a.species_name = ?")
		args = append(args, f.SpeciesName)
	}
	if f.ZooID != nil {
		where = append(where, "a.zoo_id = ?")
		args = append(args, *f.ZooID)
	}
	if f.MinAge != nil {
		where = append(where, "a.age >= ?")
		args = append(args, *f.MinAge)
	}
	if f.MaxAge != nil {
		where = append(where, "a.age <= ?")
		args = append(args, *f.MaxAge)
	}
	if f.Gender != "" {
		where = append(where, "a.gender = ?")
		args = append(args, f.Gender)
	}

	var b strings.Builder
	b.WriteString("SELECT " + animalColumns + " FROM animal a JOIN zoo z ON z.zoo_id = a.zoo_id")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + orderClause(f.SortBy, f.SortOrder))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	animals := []zoo.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, a)
	}
	return animals, rows.Err()
}

func orderClause(sortBy, sortOrder string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		return "a.animal_id ASC"
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, zoo.SortDesc) {
		dir = "DESC"
	}
	if col == "a.animal_id" {
		return col + " " + dir
	}
	return col + " " + dir + ", a.animal_id ASC"
}

// GetAnimal returns one animal with its zoo name.
func (s *Store) GetAnimal(ctx context.Context, id int64) (zoo.Animal, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+animalColumns+" FROM animal a JOIN zoo z ON z.zoo_id = a.zoo_id WHERE a.animal_id = ?", id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zoo.Animal{}, ErrNotFound
	}
	if err != nil {
		return zoo.Animal{}, fmt.Errorf("get animal: %w", err)
	}
	return a, nil
}

// checkReferences verifies the species and zoo an animal points at.
func (s *Store) checkReferences(ctx context.Context, in zoo.AnimalInput) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM species WHERE species_name = ?", in.SpeciesName).Scan(&n); err != nil {
		return fmt.Errorf("check species: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSpecies, in.SpeciesName)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM zoo WHERE zoo_id = ?", in.ZooID).Scan(&n); err != nil {
		return fmt.Errorf("check zoo: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownZoo, in.ZooID)
	}
	return nil
}

// CreateAnimal inserts a new animal and returns it with its assigned id.
func (s *Store) CreateAnimal(ctx context.Context, in zoo.AnimalInput) (zoo.Animal, error) {
	if err := s.checkReferences(ctx, in); err != nil {
		return zoo.Animal{}, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO animal (species_name, zoo_id, name, age, gender) VALUES (?, ?, ?, ?, ?)",
		in.SpeciesName, in.ZooID, in.Name, in.Age, string(in.Gender))
	if err != nil {
		return zoo.Animal{}, fmt.Errorf("insert animal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return zoo.Animal{}, fmt.Errorf("insert animal: %w", err)
	}
	return s.GetAnimal(ctx, id)
}

// UpdateAnimal replaces every writable field of animal id.
func (s *Store) UpdateAnimal(ctx context.Context, id int64, in zoo.AnimalInput) (zoo.Animal, error) {
	if _, err := s.GetAnimal(ctx, id); err != nil {
		return zoo.Animal{}, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return zoo.Animal{}, err
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE animal SET name = ?, age = ?, gender = ?, species_name = ?, zoo_id = ? WHERE animal_id = ?",
		in.Name, in.Age, string(in.Gender), in.SpeciesName, in.ZooID, id)
	if err != nil {
		return zoo.Animal{}, fmt.Errorf("update animal: %w", err)
	}
	return s.GetAnimal(ctx, id)
}

// DeleteAnimal removes animal id.
func (s *Store) DeleteAnimal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM animal WHERE animal_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSpecies returns every species name in name order.
func (s *Store) ListSpecies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT species_name FROM species ORDER BY species_name")
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetSpecies returns a species profile with its habitat, if any.
func (s *Store) GetSpecies(ctx context.Context, name string) (zoo.SpeciesDetail, error) {
	var (
		detail      zoo.SpeciesDetail
		habitatName string
		temperature sql.NullFloat64
		humidity    sql.NullFloat64
		joined      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
SELECT s.species_name, s.food, s.habitat, h.habitat, h.temperature, h.humidity
FROM species s LEFT JOIN habitat h ON h.habitat = s.habitat
WHERE s.species_name = ?`, name).Scan(&detail.Name, &detail.Food, &habitatName, &joined, &temperature, &humidity)
	if errors.Is(err, sql.ErrNoRows) {
		return zoo.SpeciesDetail{}, ErrNotFound
	}
	if err != nil {
		return zoo.SpeciesDetail{}, fmt.Errorf("get species: %w", err)
	}
	if joined.Valid {
		detail.Habitat = &zoo.Habitat{
			Name:        joined.String,
			Temperature: temperature.Float64,
			Humidity:    humidity.Float64,
		}
	}
	return detail, nil
}

// ListZoos returns every zoo's id and name in id order.
func (s *Store) ListZoos(ctx context.Context) ([]zoo.ZooSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT zoo_id, name FROM zoo ORDER BY zoo_id")
	if err != nil {
		return nil, fmt.Errorf("list zoos: %w", err)
	}
	defer rows.Close()

	zoos := []zoo.ZooSummary{}
	for rows.Next() {
		var z zoo.ZooSummary
		if err := rows.Scan(&z.ID, &z.Name); err != nil {
			return nil, fmt.Errorf("scan zoo: %w", err)
		}
		zoos = append(zoos, z)
	}
	return zoos, rows.Err()
}

// GetZoo returns a zoo profile.
func (s *Store) GetZoo(ctx context.Context, id int64) (zoo.ZooDetail, error) {
	var z zoo.ZooDetail
	err := s.db.QueryRowContext(ctx, "SELECT zoo_id, name, location FROM zoo WHERE zoo_id = ?", id).
		Scan(&z.ID, &z.Name, &z.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return zoo.ZooDetail{}, ErrNotFound
	}
	if err != nil {
		return zoo.ZooDetail{}, fmt.Errorf("get zoo: %w", err)
	}
	return z, nil
}

// ListEmployees returns the roster of zoo id. A missing zoo is ErrNotFound.
func (s *Store) ListEmployees(ctx context.Context, zooID int64) ([]zoo.Employee, error) {
	if _, err := s.GetZoo(ctx, zooID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT emp_id, first_name, last_name, job_title, job_description
FROM employee WHERE zoo_id = ? ORDER BY emp_id`, zooID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := []zoo.Employee{}
	for rows.Next() {
		var e zoo.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.JobTitle, &e.JobDescription); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
