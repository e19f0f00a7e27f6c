package zooapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Repo    Repository
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewRouter creates a chi router with middleware and the zoo routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method("GET", "/metrics", deps.Metrics.Handler())
	}

	h := NewHandler(deps.Repo, logger)
	r.Get("/health", h.Health)

	r.Route("/animals", func(r chi.Router) {
		r.Get("/", h.ListAnimals)
		r.Post("/", h.CreateAnimal)
		r.Put("/{id}", h.UpdateAnimal)
		r.Delete("/{id}", h.DeleteAnimal)
	})
	r.Route("/species", func(r chi.Router) {
		r.Get("/", h.ListSpecies)
		r.Get("/{name}", h.GetSpecies)
	})
	r.Route("/zoos", func(r chi.Router) {
		r.Get("/", h.ListZoos)
		r.Get("/{id}", h.GetZoo)
		r.Get("/{id}/employees", h.ListEmployees)
	})

	return r
}
