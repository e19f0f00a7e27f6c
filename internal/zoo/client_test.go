package zoo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIAddr {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIAddr)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestAnimalQuery_OmitsEmptyValues(t *testing.T) {
	values := AnimalQuery{SpeciesName: "  ", SortOrder: SortAsc}.Values()
	for _, key := range []string{"species_name", "zoo_id", "minAge", "maxAge", "gender", "sort_by"} {
		if _, ok := values[key]; ok {
			t.Fatalf("query %v should not carry %q", values, key)
		}
	}
	if values.Get("sort_order") != "asc" {
		t.Fatalf("sort_order = %q, want asc", values.Get("sort_order"))
	}

	values = AnimalQuery{
		SpeciesName: "Lion",
		ZooID:       "10",
		MinAge:      "1",
		MaxAge:      "9",
		Gender:      "Male",
		SortBy:      "age",
		SortOrder:   SortDesc,
	}.Values()
	want := map[string]string{
		"species_name": "Lion",
		"zoo_id":       "10",
		"minAge":       "1",
		"maxAge":       "9",
		"gender":       "Male",
		"sort_by":      "age",
		"sort_order":   "desc",
	}
	for key, value := range want {
		if got := values.Get(key); got != value {
			t.Fatalf("%s = %q, want %q", key, got, value)
		}
	}
}

func TestClient_ReadEndpoints(t *testing.T) {
	t.Parallel()

	var gotAnimalsQuery url.Values
	var gotSpeciesPath string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/animals":
			gotAnimalsQuery = r.URL.Query()
			_, _ = w.Write([]byte(`[{"animal_id":1,"name":"Leo","age":5,"gender":"Male","species_name":"Lion","zoo_id":10,"zoo_name":"Metro Zoo"}]`))
		case r.URL.Path == "/species":
			_ = json.NewEncoder(w).Encode([]string{"Lion", "Snow Leopard"})
		case strings.HasPrefix(r.URL.Path, "/species/"):
			gotSpeciesPath = r.URL.EscapedPath()
			_, _ = w.Write([]byte(`{"species_name":"Snow Leopard","food":"Meat","habitat":{"habitat":"Mountain","temperature":-5,"humidity":30}}`))
		case r.URL.Path == "/zoos":
			_ = json.NewEncoder(w).Encode([]ZooSummary{{ID: 10, Name: "Metro Zoo"}})
		case r.URL.Path == "/zoos/10":
			_, _ = w.Write([]byte(`{"name":"Metro Zoo","location":"Downtown"}`))
		case r.URL.Path == "/zoos/10/employees":
			_ = json.NewEncoder(w).Encode([]Employee{{ID: 3, FirstName: "Ana", LastName: "Ruiz", JobTitle: "Keeper"}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	animals, err := c.ListAnimals(ctx, AnimalQuery{SpeciesName: "Lion", SortBy: "name", SortOrder: SortAsc})
	if err != nil {
		t.Fatalf("ListAnimals returned error: %v", err)
	}
	want := Animal{ID: 1, Name: "Leo", Age: 5, Gender: GenderMale, SpeciesName: "Lion", ZooID: 10, ZooName: "Metro Zoo"}
	if len(animals) != 1 || animals[0] != want {
		t.Fatalf("ListAnimals = %#v, want [%#v]", animals, want)
	}
	if gotAnimalsQuery.Get("species_name") != "Lion" || gotAnimalsQuery.Get("sort_by") != "name" || gotAnimalsQuery.Get("sort_order") != "asc" {
		t.Fatalf("ListAnimals query = %v, want params encoded", gotAnimalsQuery)
	}
	if _, ok := gotAnimalsQuery["gender"]; ok {
		t.Fatalf("ListAnimals query = %v, want empty gender omitted", gotAnimalsQuery)
	}

	species, err := c.ListSpecies(ctx)
	if err != nil {
		t.Fatalf("ListSpecies returned error: %v", err)
	}
	if len(species) != 2 || species[1] != "Snow Leopard" {
		t.Fatalf("ListSpecies = %v", species)
	}

	detail, err := c.GetSpecies(ctx, "Snow Leopard")
	if err != nil {
		t.Fatalf("GetSpecies returned error: %v", err)
	}
	if gotSpeciesPath != "/species/Snow%20Leopard" {
		t.Fatalf("GetSpecies path = %q, want escaped name", gotSpeciesPath)
	}
	if detail.Habitat == nil || detail.Habitat.Name != "Mountain" || detail.Habitat.Temperature != -5 {
		t.Fatalf("GetSpecies habitat = %#v", detail.Habitat)
	}

	zoos, err := c.ListZoos(ctx)
	if err != nil {
		t.Fatalf("ListZoos returned error: %v", err)
	}
	if len(zoos) != 1 || zoos[0].ID != 10 {
		t.Fatalf("ListZoos = %#v", zoos)
	}

	zoo, err := c.GetZoo(ctx, 10)
	if err != nil {
		t.Fatalf("GetZoo returned error: %v", err)
	}
	if zoo.ID != 10 || zoo.Location != "Downtown" {
		t.Fatalf("GetZoo = %#v, want id backfilled and location", zoo)
	}

	roster, err := c.ListEmployees(ctx, 10)
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}
	if len(roster) != 1 || roster[0].FullName() != "Ana Ruiz" {
		t.Fatalf("ListEmployees = %#v", roster)
	}

	if !strings.HasPrefix(gotUserAgent, "keeper/") {
		t.Fatalf("User-Agent = %q, want keeper/*", gotUserAgent)
	}
}

func TestClient_Mutations(t *testing.T) {
	t.Parallel()

	type call struct {
		method string
		path   string
		body   string
		ctype  string
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(raw), r.Header.Get("Content-Type")})
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Animal added"}`))
		case http.MethodPut:
			_, _ = w.Write([]byte(`{"animal_id":4,"name":"Dot","age":3,"gender":"Female","species_name":"Dalmatian","zoo_id":7}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	input := AnimalInput{Name: "Dot", Age: 2, Gender: GenderFemale, SpeciesName: "Dalmatian", ZooID: 7}
	if _, err := c.CreateAnimal(ctx, input); err != nil {
		t.Fatalf("CreateAnimal returned error: %v", err)
	}

	updated, err := c.UpdateAnimal(ctx, 4, AnimalInput{Name: "Dot", Age: 3, Gender: GenderFemale, SpeciesName: "Dalmatian", ZooID: 7})
	if err != nil {
		t.Fatalf("UpdateAnimal returned error: %v", err)
	}
	if updated.ID != 4 || updated.Age != 3 {
		t.Fatalf("UpdateAnimal = %#v", updated)
	}

	if err := c.DeleteAnimal(ctx, 4); err != nil {
		t.Fatalf("DeleteAnimal returned error: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/animals" || calls[0].ctype != "application/json" {
		t.Fatalf("create call = %#v", calls[0])
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(calls[0].body), &sent); err != nil {
		t.Fatalf("create body not json: %v", err)
	}
	if len(sent) != 5 || sent["name"] != "Dot" || sent["age"] != float64(2) || sent["gender"] != "Female" ||
		sent["species_name"] != "Dalmatian" || sent["zoo_id"] != float64(7) {
		t.Fatalf("create body = %v, want the five writable fields", sent)
	}
	if calls[1].method != http.MethodPut || calls[1].path != "/animals/4" {
		t.Fatalf("update call = %#v", calls[1])
	}
	if calls[2].method != http.MethodDelete || calls[2].path != "/animals/4" || calls[2].body != "" {
		t.Fatalf("delete call = %#v", calls[2])
	}
}

func TestClient_MutationsRequireID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.UpdateAnimal(context.Background(), 0, AnimalInput{}); err == nil {
		t.Fatalf("UpdateAnimal returned nil error, want error")
	}
	if err := c.DeleteAnimal(context.Background(), -1); err == nil {
		t.Fatalf("DeleteAnimal returned nil error, want error")
	}
	if _, err := c.GetSpecies(context.Background(), " "); err == nil {
		t.Fatalf("GetSpecies returned nil error, want error")
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/species":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/zoos/99":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Zoo not found"}`))
		case "/animals/5":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListSpecies(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListSpecies error = %v, want decode response error", err)
	}

	_, err = c.GetZoo(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("GetZoo error = %v, want not found", err)
	}
	if !strings.Contains(err.Error(), "Zoo not found") {
		t.Fatalf("GetZoo error = %q, want server message", err.Error())
	}

	err = c.DeleteAnimal(context.Background(), 5)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("DeleteAnimal error = %v, want status 500 error", err)
	}
}

func TestClient_ListAnimalsAcceptsFloatAges(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"age":5.0,"animal_id":1,"gender":"Male","name":"Leo","species_name":"Lion","zoo_id":10,"zoo_name":"Metro Zoo"}]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	animals, err := c.ListAnimals(context.Background(), AnimalQuery{})
	if err != nil {
		t.Fatalf("ListAnimals returned error: %v", err)
	}
	want := Animal{ID: 1, Name: "Leo", Age: 5, Gender: GenderMale, SpeciesName: "Lion", ZooID: 10, ZooName: "Metro Zoo"}
	if len(animals) != 1 || animals[0] != want {
		t.Fatalf("animals = %#v, want [%#v]", animals, want)
	}
}

func TestAnimal_UnmarshalAge(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "integer", body: `{"age":3}`, want: 3},
		{name: "whole float", body: `{"age":7.0}`, want: 7},
		{name: "exponent", body: `{"age":1e1}`, want: 10},
		{name: "missing", body: `{"name":"Dot"}`, want: 0},
		{name: "null", body: `{"age":null}`, want: 0},
		{name: "fractional", body: `{"age":2.5}`, wantErr: true},
		{name: "negative", body: `{"age":-1}`, wantErr: true},
		{name: "string", body: `{"age":"old"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Animal
			err := json.Unmarshal([]byte(tt.body), &a)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) = %#v, want error", tt.body, a)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.body, err)
			}
			if a.Age != tt.want {
				t.Fatalf("Age = %d, want %d", a.Age, tt.want)
			}
		})
	}
}

func TestClient_TimeoutOption(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(server.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListZoos(context.Background()); err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("ListZoos error = %v, want execute request timeout", err)
	}
}

func TestParseGender(t *testing.T) {
	if g, err := ParseGender(" female "); err != nil || g != GenderFemale {
		t.Fatalf("ParseGender = %q, %v; want Female", g, err)
	}
	if _, err := ParseGender("unknown"); err == nil {
		t.Fatalf("ParseGender returned nil error, want error")
	}
}
