package zooapi

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the YAML fixture loaded into an empty database.
type Seed struct {
	Habitats []struct {
		Name        string  `yaml:"name"`
		Temperature float64 `yaml:"temperature"`
		Humidity    float64 `yaml:"humidity"`
	} `yaml:"habitats"`
	Species []struct {
		Name    string `yaml:"name"`
		Food    string `yaml:"food"`
		Habitat string `yaml:"habitat"`
	} `yaml:"species"`
	Zoos []struct {
		ID       int64  `yaml:"id"`
		Name     string `yaml:"name"`
		Location string `yaml:"location"`
	} `yaml:"zoos"`
	Employees []struct {
		ID             int64  `yaml:"id"`
		ZooID          int64  `yaml:"zoo_id"`
		FirstName      string `yaml:"first_name"`
		LastName       string `yaml:"last_name"`
		JobTitle       string `yaml:"job_title"`
		JobDescription string `yaml:"job_description"`
	} `yaml:"employees"`
	Animals []struct {
		Name    string `yaml:"name"`
		Age     int    `yaml:"age"`
		Gender  string `yaml:"gender"`
		Species string `yaml:"species"`
		ZooID   int64  `yaml:"zoo_id"`
	} `yaml:"animals"`
}

// LoadSeed reads a seed file. An empty path yields the built-in fixture.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// Seed loads seed in a single transaction when the database holds no zoos.
// It reports whether anything was written.
func (s *Store) Seed(ctx context.Context, seed *Seed) (bool, error) {
	empty, err := s.Empty(ctx)
	if err != nil || !empty {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, h := range seed.Habitats {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO habitat (habitat, temperature, humidity) VALUES (?, ?, ?)",
			h.Name, h.Temperature, h.Humidity); err != nil {
			return false, fmt.Errorf("seed habitat %q: %w", h.Name, err)
		}
	}
	for _, sp := range seed.Species {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO species (species_name, food, habitat) VALUES (?, ?, ?)",
			sp.Name, sp.Food, sp.Habitat); err != nil {
			return false, fmt.Errorf("seed species %q: %w", sp.Name, err)
		}
	}
	for _, z := range seed.Zoos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO zoo (zoo_id, name, location) VALUES (?, ?, ?)",
			z.ID, z.Name, z.Location); err != nil {
			return false, fmt.Errorf("seed zoo %d: %w", z.ID, err)
		}
	}
	for _, e := range seed.Employees {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO employee (emp_id, zoo_id, first_name, last_name, job_title, job_description) VALUES (?, ?, ?, ?, ?, ?)",
			e.ID, e.ZooID, e.FirstName, e.LastName, e.JobTitle, e.JobDescription); err != nil {
			return false, fmt.Errorf("seed employee %d: %w", e.ID, err)
		}
	}
	for _, a := range seed.Animals {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO animal (species_name, zoo_id, name, age, gender) VALUES (?, ?, ?, ?, ?)",
			a.Species, a.ZooID, a.Name, a.Age, a.Gender); err != nil {
			return false, fmt.Errorf("seed animal %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}
