// Package zoo provides the HTTP client and wire types for the zoo API.
//
// # Overview
//
// keeper never touches the zoo database directly. Everything it shows or
// changes goes through Client, which speaks JSON over plain HTTP to a
// single API server. The package has no UI or state dependencies so it can
// be reused by the reference server and its tests.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: Client, API, AnimalQuery, StatusError and request plumbing
//   - types.go: Animal, AnimalInput, SpeciesDetail, ZooDetail, Employee and
//     the Gender and sort enumerations
//
// API is the interface the UI depends on. *Client implements it and tests
// substitute an in-memory fake.
//
// # Client Usage
//
// Create a client from the configured address. A bare host:port gets an
// http:// scheme and any path, query or fragment on the address is dropped:
//
//	client, err := zoo.NewClient("127.0.0.1:5000", zoo.WithTimeout(3*time.Second))
//	if err != nil {
//		log.Fatalf("create client: %v", err)
//	}
//
//	animals, err := client.ListAnimals(ctx, zoo.AnimalQuery{
//		SpeciesName: "Lion",
//		SortBy:      "age",
//		SortOrder:   zoo.SortDesc,
//	})
//
// An empty address falls back to 127.0.0.1:5000.
//
// # Endpoints
//
// Client covers every route keeper consumes:
//
//	GET    /animals?species_name&zoo_id&minAge&maxAge&gender&sort_by&sort_order
//	POST   /animals
//	PUT    /animals/{id}
//	DELETE /animals/{id}
//	GET    /species
//	GET    /species/{name}
//	GET    /zoos
//	GET    /zoos/{id}
//	GET    /zoos/{id}/employees
//
// Filtering and sorting happen on the server. AnimalQuery only encodes
// the criteria, omitting empty values so they read as unconstrained.
// Species names are path-escaped, so names with spaces, slashes or percent
// signs reach the server intact.
//
// # Request Flow
//
// Every call follows the same path:
//
//  1. Build a relative URL and resolve it against the base address.
//  2. Encode the body, if any, as JSON.
//  3. Send with Accept and User-Agent (keeper/0.1) headers, bounded by ctx
//     and the client timeout.
//  4. Turn a status of 400 or above into *StatusError.
//  5. Decode the body into the destination, skipping empty bodies and 204.
//
// Mutation endpoints may answer with an acknowledgement object instead of
// the stored record. Client does not treat that as an error because the
// caller re-fetches the collection after every successful write.
//
// # Tolerant Decoding
//
// Some servers keep age in a float column and send 5.0 where 5 is meant.
// Animal accepts any whole, non-negative JSON number for age and rejects
// fractional or negative values with a decode error, so a malformed row
// fails the whole list rather than showing a truncated value.
//
// # Errors
//
// Transport failures are wrapped with "execute request". Responses with a
// status of 400 or above become *StatusError carrying the server's
// message field (or error field) when one is present:
//
//	if zoo.IsNotFound(err) {
//		// row was deleted elsewhere
//	}
//
//	var se *zoo.StatusError
//	if errors.As(err, &se) && se.Code == http.StatusBadRequest {
//		// validation rejected by the server; se.Message explains why
//	}
//
// Example messages:
//   - "execute request: dial tcp 127.0.0.1:5000: connect: connection refused"
//   - "api GET /zoos/99 returned status 404: Zoo not found"
//   - "decode response: animal age 2.5 is not a whole non-negative number"
//
// # Timeouts
//
// Each request is bounded by the client timeout (5s unless WithTimeout is
// given), so a hung server surfaces as an error instead of an endless
// pending state. WithHTTPClient replaces the transport entirely, timeout
// included.
//
// # Thread Safety
//
// Client holds no mutable state after construction and is safe for
// concurrent use. The UI issues reference loads, list fetches and detail
// lookups in parallel through one Client.
//
// # Testing
//
// Tests run each case against its own httptest.Server and assert on the
// decoded result or the returned *StatusError. Code above this package
// should depend on API and use a fake.
package zoo
