// Package state holds the client-side application state for keeper.
//
// # Overview
//
// App is the single state object owned by the UI model. It splits into
// cooperating slices:
//
//   - Collection: the animal rows of the last successful fetch
//   - Reference data: species names and zoo summaries for selectors
//   - Query: draft and applied filters plus sort column and order
//   - Form: the create-or-update record being edited
//   - Detail: the species or zoo side panel, mutually exclusive
//   - Notice: the latest non-blocking message for the header
//
// # Requests and Results
//
// App never performs I/O. Operations that need the network return a
// request value (FetchRequest, Mutation, DetailRequest) carrying a
// correlation token. The UI runs the request as a tea.Cmd and hands the
// outcome back to the matching Apply method:
//
//	req := app.ApplyFilters()
//	animals, err := client.ListAnimals(ctx, req.Query)
//	app.ApplyAnimals(req.Seq, animals, err)
//
// Apply methods compare the token against the newest request for the
// same target and drop anything older, so a late response can never
// overwrite a newer one.
//
// # Startup
//
// The UI calls BeginReferenceLoad once. It returns true only on the first
// call, so species and zoo lists are fetched a single time per session.
// The first animal fetch comes from Refresh and runs alongside it. Each
// list result is applied independently through ApplySpeciesList and
// ApplyZooList. A failed list stays empty and raises an error notice.
//
// # Tokens
//
// Three independent counters exist:
//
//   - Collection sequence: every FetchRequest gets a new Seq. Only the
//     highest issued Seq may replace the rows.
//   - Mutation token: Submit and Delete hand out increasing tokens. The
//     form remembers the token of its own submission so it can reset on
//     success and reject a second Submit while one is in flight.
//   - Detail token: SelectSpecies and SelectZoo replace any pending lookup.
//     A zoo lookup finishes in two steps (ApplyZooDetail, then
//     ApplyEmployees) and both must carry the current token.
//
// # Consistency
//
// The collection is never patched locally. Every successful create,
// update or delete returns a FetchRequest that re-reads the list from the
// server, and a failed mutation leaves the cache as it was.
//
// Filter edits land in the draft and only reach the server through
// ApplyFilters. Sort changes take effect immediately using the applied
// filters. Selecting the current sort column again reverses the order.
//
// # Validation
//
// Submit checks every form field before anything is sent. Name and species
// must be non-blank, age a non-negative whole number, gender Male or Female
// and zoo a positive id. Failures return *ValidationError keyed by field
// and raise a warning notice. The form keeps its values either way.
//
// # Notices
//
// Failures and confirmations become a Notice with a level and a short
// sentence produced from the error:
//
//   - "Loading animals failed: API not reachable"
//   - "Adding animal failed: Unknown species (400)"
//   - "Deleted animal #4"
//
// A notice expires after the configured TTL (WithNoticeTTL) or when
// DismissNotice is called. Only the newest notice is kept.
//
// # Logging
//
// App logs through the *slog.Logger given with WithLogger. Failed fetches
// and mutations are logged at warn, applied mutations at info and
// discarded stale results at debug.
//
// # Concurrency
//
// App has no locks. All methods must be called from the bubbletea Update
// loop. Tests drive App directly with WithClock to control notice expiry.
package state
