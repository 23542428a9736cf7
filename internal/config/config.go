// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite database file. Empty selects the
	// in-memory store, which loses everything on restart.
	DBPath string `koanf:"db_path"`

	// PlayersPerPage sets the player listing page size.
	PlayersPerPage int `koanf:"players_per_page"`

	// ReplaysPerPage sets the scoreboard page size.
	ReplaysPerPage int `koanf:"replays_per_page"`

	// CommentsPerPage sets the comment thread page size.
	CommentsPerPage int `koanf:"comments_per_page"`
}

// New creates a Config with the site's default layout and no database.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		DBPath:          "",
		PlayersPerPage:  48,
		ReplaysPerPage:  24,
		CommentsPerPage: 12,
	}
}
