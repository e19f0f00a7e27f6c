// Package ui provides the terminal interface for keeper.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model owns a *state.App and a
// zoo.API client and never talks to the network from Update: every request
// the state layer hands out (FetchRequest, Mutation, DetailRequest) is
// turned into a tea.Cmd in fetch.go, and the result comes back as a message
// carrying the request token. Update passes it to the matching Apply method,
// which drops anything stale.
//
// # Package Structure
//
//   - app.go: Model, message routing, key handling and Run
//   - fetch.go: message types and the commands that call the API
//   - header.go: status bar and command bar
//   - table.go: animal table with sort arrows and link cells
//   - detail.go: species and zoo side panel
//   - filter.go, form.go, fields.go, modal.go: modal dialogs
//   - logs.go: client log overlay
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, render.go, strings.go, layout.go: styling helpers
//
// # Data Flow
//
// Startup:
//
//  1. Init schedules the UI tick, the reference load (species and zoo
//     lists, fetched once) and the first animal fetch.
//  2. speciesListMsg and zooListMsg fill the selector options.
//  3. animalsMsg carries the fetch Seq. ApplyAnimals installs it only if
//     it is the newest, and the cursor follows the previously selected id.
//
// Writes:
//
//  1. The form modal emits formSubmittedMsg. Model copies the values into
//     the state form and calls Submit.
//  2. Local validation errors go back to the modal as per-field problems.
//  3. A valid Mutation runs as mutationCmd. mutationMsg passes the outcome
//     to ApplyMutation, which returns a refresh on success.
//  4. The form closes only after its own submission succeeds.
//
// Details:
//
//   - s, z or enter on a link cell issue a DetailRequest.
//   - A zoo lookup chains zooDetailMsg into employeesCmd so the panel
//     shows the roster. Both steps carry the same token.
//   - Selecting something else while a lookup is pending supersedes it.
//
// # Modals
//
// The filter dialog, the animal form and the delete confirmation implement
// Modal. A modal receives every key while open and reports its outcome as
// a message (filtersAppliedMsg, formSubmittedMsg, deleteConfirmedMsg) so
// all state changes still happen in Model.Update. Non-key messages such as
// cursor blinks are forwarded to the open modal as well.
//
// The animal form stays open while its submission is in flight. It closes
// when the mutation succeeds and shows per-field problems when local
// validation fails. Server failures surface as header notices.
//
// Closing the filter dialog with esc keeps the edited values as the draft
// without fetching. Only enter applies them.
//
// # Key Routing
//
// handleKey checks, in order:
//
//  1. ctrl+c quits from anywhere, modals and overlays included.
//  2. The help overlay closes on any key.
//  3. An open modal receives the key.
//  4. The log overlay handles its own keys.
//  5. Global keys, then table keys.
//
// # Key Bindings
//
// Table:
//   - j/k, h/l: move between rows and cells
//   - g/G: first and last row
//   - enter: open the species or zoo under the cursor, edit otherwise
//   - 1-6: sort by column, again to reverse
//   - f: filters, r: reload
//   - a/e/x: add, edit, delete
//   - s/z/c: species detail, zoo detail, clear detail
//
// Filter dialog:
//   - tab/shift+tab: move between fields
//   - left/right: cycle species, zoo and gender options
//   - enter: apply, esc: keep draft, ctrl+r: clear fields
//
// Animal form:
//   - tab/shift+tab: move between fields
//   - left/right: cycle species, zoo and gender options
//   - ctrl+s: save, esc: cancel
//
// Delete confirmation:
//   - y: delete, n or esc: keep
//
// Log overlay:
//   - w: warnings only, r: reload
//   - g/G: top and bottom
//   - esc, L or q: close
//
// Global:
//   - D: toggle the detail pane (saved to prefs)
//   - L: client log overlay
//   - T: cycle theme (saved to prefs)
//   - ?: help, q: quit
//   - ctrl+c: quit, even with a modal or overlay open
//
// # Preferences
//
// Theme and detail pane visibility are written to the prefs file each time
// they change. A failed save is logged and otherwise ignored.
//
// # Testing
//
// Tests drive Model through Update with a fake zoo.API. The drain helper
// runs returned commands and feeds their messages back until the model
// settles, skipping timer-based commands such as ticks.
package ui
