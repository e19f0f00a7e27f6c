package zoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API defines the zoo endpoints the client consumes.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListAnimals(ctx context.Context, query AnimalQuery) ([]Animal, error)
	CreateAnimal(ctx context.Context, input AnimalInput) (Animal, error)
	UpdateAnimal(ctx context.Context, id int64, input AnimalInput) (Animal, error)
	DeleteAnimal(ctx context.Context, id int64) error
	ListSpecies(ctx context.Context) ([]string, error)
	GetSpecies(ctx context.Context, name string) (SpeciesDetail, error)
	ListZoos(ctx context.Context) ([]ZooSummary, error)
	GetZoo(ctx context.Context, id int64) (ZooDetail, error)
	ListEmployees(ctx context.Context, zooID int64) ([]Employee, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the zoo HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIAddr   = "127.0.0.1:5000"
	defaultUserAgent = "keeper/0.1"
	requestTimeout   = 5 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API at addr (host:port or full URL).
func NewClient(addr string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(addr)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// AnimalQuery carries the filter and sort criteria for GET /animals.
// Empty fields mean unconstrained and are not sent.
type AnimalQuery struct {
	SpeciesName string
	ZooID       string
	MinAge      string
	MaxAge      string
	Gender      string
	SortBy      string
	SortOrder   string
}

// Values encodes the query as URL parameters.
func (q AnimalQuery) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			values.Set(key, v)
		}
	}
	set("species_name", q.SpeciesName)
	set("zoo_id", q.ZooID)
	set("minAge", q.MinAge)
	set("maxAge", q.MaxAge)
	set("gender", q.Gender)
	set("sort_by", q.SortBy)
	set("sort_order", q.SortOrder)
	return values
}

// ListAnimals retrieves the filtered, server-sorted animal collection.
func (c *Client) ListAnimals(ctx context.Context, query AnimalQuery) ([]Animal, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/animals", RawQuery: query.Values().Encode()}
	var payload []Animal
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateAnimal issues POST /animals.
func (c *Client) CreateAnimal(ctx context.Context, input AnimalInput) (Animal, error) {
	if c == nil {
		return Animal{}, fmt.Errorf("client is nil")
	}
	var payload Animal
	if err := c.do(ctx, http.MethodPost, "/animals", input, &payload); err != nil {
		return Animal{}, err
	}
	return payload, nil
}

// UpdateAnimal issues PUT /animals/{id}.
func (c *Client) UpdateAnimal(ctx context.Context, id int64, input AnimalInput) (Animal, error) {
	if c == nil {
		return Animal{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Animal{}, fmt.Errorf("animal id required")
	}
	var payload Animal
	if err := c.do(ctx, http.MethodPut, animalPath(id), input, &payload); err != nil {
		return Animal{}, err
	}
	return payload, nil
}

// DeleteAnimal issues DELETE /animals/{id}.
func (c *Client) DeleteAnimal(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("animal id required")
	}
	return c.do(ctx, http.MethodDelete, animalPath(id), nil, nil)
}

// ListSpecies retrieves the species names used by selectors.
func (c *Client) ListSpecies(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []string
	if err := c.do(ctx, http.MethodGet, "/species", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetSpecies retrieves a species profile by name.
func (c *Client) GetSpecies(ctx context.Context, name string) (SpeciesDetail, error) {
	if c == nil {
		return SpeciesDetail{}, fmt.Errorf("client is nil")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return SpeciesDetail{}, fmt.Errorf("species name required")
	}
	rel := &url.URL{Path: "/species/" + trimmed, RawPath: "/species/" + url.PathEscape(trimmed)}
	var payload SpeciesDetail
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return SpeciesDetail{}, err
	}
	return payload, nil
}

// ListZoos retrieves the zoo summaries used by selectors.
func (c *Client) ListZoos(ctx context.Context) ([]ZooSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []ZooSummary
	if err := c.do(ctx, http.MethodGet, "/zoos", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetZoo retrieves a zoo profile.
func (c *Client) GetZoo(ctx context.Context, id int64) (ZooDetail, error) {
	if c == nil {
		return ZooDetail{}, fmt.Errorf("client is nil")
	}
	var payload ZooDetail
	if err := c.do(ctx, http.MethodGet, zooPath(id), nil, &payload); err != nil {
		return ZooDetail{}, err
	}
	// Older servers omit the id from the detail payload.
	if payload.ID == 0 {
		payload.ID = id
	}
	return payload, nil
}

// ListEmployees retrieves the roster of a zoo.
func (c *Client) ListEmployees(ctx context.Context, zooID int64) ([]Employee, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Employee
	if err := c.do(ctx, http.MethodGet, zooPath(zooID)+"/employees", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func animalPath(id int64) string {
	return "/animals/" + strconv.FormatInt(id, 10)
}

func zooPath(id int64) string {
	return "/zoos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{
			Method:  method,
			Path:    rel.EscapedPath(),
			Code:    resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Mutation endpoints may answer with an acknowledgement object
		// instead of the record; the caller re-fetches either way.
		if method != http.MethodGet {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the server's message/error field, if any.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func parseBaseURL(addr string) (*url.URL, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		trimmed = defaultAPIAddr
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api address %q: %w", addr, err)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
