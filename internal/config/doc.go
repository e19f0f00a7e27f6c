// Package config loads the keeper client configuration.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicit path (the -config flag)
//  2. ~/.config/keeper/config.toml
//  3. Built-in defaults when the file does not exist
//
// Fields that are missing or blank also fall back to defaults.
//
// # TOML Format
//
//	api_url = "127.0.0.1:5000"
//	request_timeout = "5s"
//	notice_ttl = "6s"
//	log_file = "~/.local/state/keeper/keeper.log"
//
// api_url accepts host:port or a full http(s) URL. Durations use Go
// syntax and must be positive. Tilde expansion applies to log_file.
//
// # Error Handling
//
// Load fails on unreadable files, invalid TOML and bad durations. A
// missing file is not an error, so keeper runs without any setup.
//
// Command-line flags are applied by the caller after Load:
//
//	cfg, err := config.Load(*configPath)
//	if *apiURL != "" {
//		cfg.APIURL = *apiURL
//	}
package config
