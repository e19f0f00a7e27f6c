// Package app is the composition root for the keeper client.
//
// # Overview
//
// Run wires configuration, logging, the zoo API client, the state object
// and the Bubble Tea UI together, then blocks until the user quits or the
// context is cancelled.
//
//	Run()
//	 ├─> config.Load()     ~/.config/keeper/config.toml, flag overrides
//	 ├─> prefs.Load()      theme and detail pane
//	 ├─> openLogger()      slog text handler on the log file
//	 ├─> zoo.NewClient()   HTTP client with the request timeout
//	 ├─> state.New()       client-side state
//	 └─> ui.Run()          TUI (blocks)
//
// # Logging
//
// The TUI owns the terminal, so every log record goes to the file named by
// log_file (default ~/.local/state/keeper/keeper.log). The UI can show the
// tail of that file with the L key.
//
// # Error Handling
//
// Only startup problems are returned: an unreadable config, an invalid API
// address or an unwritable log file. Request failures once the UI is
// running become notices in the header and are never retried.
package app
