package zooapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/five82/keeper/internal/zoo"
)

// Repository is the storage the handlers need. *Store implements it.
type Repository interface {
	Ping(ctx context.Context) error
	ListAnimals(ctx context.Context, f AnimalFilter) ([]zoo.Animal, error)
	CreateAnimal(ctx context.Context, in zoo.AnimalInput) (zoo.Animal, error)
	UpdateAnimal(ctx context.Context, id int64, in zoo.AnimalInput) (zoo.Animal, error)
	DeleteAnimal(ctx context.Context, id int64) error
	ListSpecies(ctx context.Context) ([]string, error)
	GetSpecies(ctx context.Context, name string) (zoo.SpeciesDetail, error)
	ListZoos(ctx context.Context) ([]zoo.ZooSummary, error)
	GetZoo(ctx context.Context, id int64) (zoo.ZooDetail, error)
	ListEmployees(ctx context.Context, zooID int64) ([]zoo.Employee, error)
}

var _ Repository = (*Store)(nil)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// animalRequest is the body of POST /animals and PUT /animals/{id}.
// Pointers distinguish missing fields from zero values.
type animalRequest struct {
	Name        *string `json:"name"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
	SpeciesName *string `json:"species_name"`
	ZooID       *int64  `json:"zoo_id"`
}

func (req animalRequest) validate() (zoo.AnimalInput, map[string]string) {
	problems := map[string]string{}
	var in zoo.AnimalInput

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		problems["name"] = "name is required"
	} else {
		in.Name = strings.TrimSpace(*req.Name)
	}
	switch {
	case req.Age == nil:
		problems["age"] = "age is required"
	case *req.Age < 0:
		problems["age"] = "age must not be negative"
	default:
		in.Age = *req.Age
	}
	if req.Gender == nil {
		problems["gender"] = "gender is required"
	} else if g, err := zoo.ParseGender(*req.Gender); err != nil {
		problems["gender"] = "gender must be Male or Female"
	} else {
		in.Gender = g
	}
	if req.SpeciesName == nil || strings.TrimSpace(*req.SpeciesName) == "" {
		problems["species_name"] = "species_name is required"
	} else {
		in.SpeciesName = strings.TrimSpace(*req.SpeciesName)
	}
	if req.ZooID == nil {
		problems["zoo_id"] = "zoo_id is required"
	} else {
		in.ZooID = *req.ZooID
	}

	if len(problems) > 0 {
		return zoo.AnimalInput{}, problems
	}
	return in, nil
}

// Handler serves the zoo REST endpoints.
type Handler struct {
	repo   Repository
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{repo: repo, logger: logger}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListAnimals handles GET /animals.
func (h *Handler) ListAnimals(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseAnimalFilter(r.URL.Query())
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	animals, err := h.repo.ListAnimals(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "list animals", err)
		return
	}
	writeJSON(w, http.StatusOK, animals)
}

// CreateAnimal handles POST /animals.
func (h *Handler) CreateAnimal(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeAnimal(w, r)
	if !ok {
		return
	}
	animal, err := h.repo.CreateAnimal(r.Context(), in)
	if err != nil {
		h.mutationError(w, r, "create animal", err)
		return
	}
	h.logger.Info("animal created", "id", animal.ID, "requestId", GetRequestID(r.Context()))
	writeJSON(w, http.StatusCreated, animal)
}

// UpdateAnimal handles PUT /animals/{id}.
func (h *Handler) UpdateAnimal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.decodeAnimal(w, r)
	if !ok {
		return
	}
	animal, err := h.repo.UpdateAnimal(r.Context(), id, in)
	if err != nil {
		h.mutationError(w, r, "update animal", err)
		return
	}
	h.logger.Info("animal updated", "id", id, "requestId", GetRequestID(r.Context()))
	writeJSON(w, http.StatusOK, animal)
}

// DeleteAnimal handles DELETE /animals/{id}.
func (h *Handler) DeleteAnimal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.repo.DeleteAnimal(r.Context(), id); err != nil {
		h.mutationError(w, r, "delete animal", err)
		return
	}
	h.logger.Info("animal deleted", "id", id, "requestId", GetRequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ListSpecies handles GET /species.
func (h *Handler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.ListSpecies(r.Context())
	if err != nil {
		h.internalError(w, r, "list species", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// GetSpecies handles GET /species/{name}.
func (h *Handler) GetSpecies(w http.ResponseWriter, r *http.Request) {
	name, ok := pathParam(r, "name")
	if !ok || strings.TrimSpace(name) == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid species name")
		return
	}
	detail, err := h.repo.GetSpecies(r.Context(), name)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Species not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "get species", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ListZoos handles GET /zoos.
func (h *Handler) ListZoos(w http.ResponseWriter, r *http.Request) {
	zoos, err := h.repo.ListZoos(r.Context())
	if err != nil {
		h.internalError(w, r, "list zoos", err)
		return
	}
	writeJSON(w, http.StatusOK, zoos)
}

// GetZoo handles GET /zoos/{id}.
func (h *Handler) GetZoo(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.repo.GetZoo(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Zoo not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "get zoo", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ListEmployees handles GET /zoos/{id}/employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	employees, err := h.repo.ListEmployees(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Zoo not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *Handler) decodeAnimal(w http.ResponseWriter, r *http.Request) (zoo.AnimalInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req animalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Request body must be valid JSON")
		return zoo.AnimalInput{}, false
	}
	in, problems := req.validate()
	if problems != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid animal", Fields: problems})
		return zoo.AnimalInput{}, false
	}
	return in, true
}

func (h *Handler) mutationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Animal not found")
	case errors.Is(err, ErrUnknownSpecies):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Message: "Unknown species",
			Fields:  map[string]string{"species_name": "species does not exist"},
		})
	case errors.Is(err, ErrUnknownZoo):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Message: "Unknown zoo",
			Fields:  map[string]string{"zoo_id": "zoo does not exist"},
		})
	default:
		h.internalError(w, r, op, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed", "error", err, "requestId", GetRequestID(r.Context()))
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

// parseAnimalFilter maps GET /animals query parameters onto a filter.
// Unknown sort values are passed through and ignored by the store.
func parseAnimalFilter(q url.Values) (AnimalFilter, string) {
	f := AnimalFilter{
		SpeciesName: strings.TrimSpace(q.Get("species_name")),
		Gender:      strings.TrimSpace(q.Get("gender")),
		SortBy:      strings.TrimSpace(q.Get("sort_by")),
		SortOrder:   strings.TrimSpace(q.Get("sort_order")),
	}
	if raw := strings.TrimSpace(q.Get("zoo_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return AnimalFilter{}, "zoo_id must be an integer"
		}
		f.ZooID = &id
	}
	for _, p := range []struct {
		key  string
		dest **float64
	}{{"minAge", &f.MinAge}, {"maxAge", &f.MaxAge}} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return AnimalFilter{}, p.key + " must be a number"
		}
		*p.dest = &v
	}
	return f, ""
}

// pathParam returns a decoded URL parameter. chi matches against RawPath when
// the request path carries escapes that Path cannot represent, and against the
// already decoded Path otherwise, so only the former needs unescaping.
func pathParam(r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, true
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}
