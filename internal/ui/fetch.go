package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/keeper/internal/logtail"
	"github.com/five82/keeper/internal/state"
	"github.com/five82/keeper/internal/zoo"
)

// Messages. Each result carries the token of the request that produced
// it so state can drop stale arrivals.

type tickMsg time.Time

type speciesListMsg struct {
	names []string
	err   error
}

type zooListMsg struct {
	zoos []zoo.ZooSummary
	err  error
}

type animalsMsg struct {
	seq     uint64
	animals []zoo.Animal
	err     error
}

type mutationMsg struct {
	mutation state.Mutation
	err      error
}

type speciesDetailMsg struct {
	req    state.DetailRequest
	detail zoo.SpeciesDetail
	err    error
}

type zooDetailMsg struct {
	req    state.DetailRequest
	detail zoo.ZooDetail
	err    error
}

type employeesMsg struct {
	req    state.DetailRequest
	roster []zoo.Employee
	err    error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadReferenceCmd(ctx context.Context, client zoo.API) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			names, err := client.ListSpecies(ctx)
			return speciesListMsg{names: names, err: err}
		},
		func() tea.Msg {
			zoos, err := client.ListZoos(ctx)
			return zooListMsg{zoos: zoos, err: err}
		},
	)
}

func fetchAnimalsCmd(ctx context.Context, client zoo.API, req state.FetchRequest) tea.Cmd {
	return func() tea.Msg {
		animals, err := client.ListAnimals(ctx, req.Query)
		return animalsMsg{seq: req.Seq, animals: animals, err: err}
	}
}

func mutationCmd(ctx context.Context, client zoo.API, m state.Mutation) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch m.Kind {
		case state.MutationCreate:
			_, err = client.CreateAnimal(ctx, m.Input)
		case state.MutationUpdate:
			_, err = client.UpdateAnimal(ctx, m.AnimalID, m.Input)
		case state.MutationDelete:
			err = client.DeleteAnimal(ctx, m.AnimalID)
		}
		return mutationMsg{mutation: m, err: err}
	}
}

func detailCmd(ctx context.Context, client zoo.API, req state.DetailRequest) tea.Cmd {
	switch req.Kind {
	case state.DetailSpecies:
		return func() tea.Msg {
			detail, err := client.GetSpecies(ctx, req.Species)
			return speciesDetailMsg{req: req, detail: detail, err: err}
		}
	case state.DetailZoo:
		return func() tea.Msg {
			detail, err := client.GetZoo(ctx, req.ZooID)
			return zooDetailMsg{req: req, detail: detail, err: err}
		}
	}
	return nil
}

func employeesCmd(ctx context.Context, client zoo.API, req state.DetailRequest) tea.Cmd {
	return func() tea.Msg {
		roster, err := client.ListEmployees(ctx, req.ZooID)
		return employeesMsg{req: req, roster: roster, err: err}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}
