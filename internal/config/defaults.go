// Package config handles task board configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "taskboard"
	// DefaultBackend is the storage backend of a new board.
	DefaultBackend = "file"
	// DefaultAuthURL is the account service a new board logs in against.
	DefaultAuthURL = "http://localhost:5000"
	// DefaultAuthTimeout bounds each request to the account service.
	DefaultAuthTimeout = "10s"
	// DefaultTitleLines is the default number of title lines in TUI cards.
	DefaultTitleLines = 2
	// DefaultRedisPrefix namespaces board entries in a shared Redis.
	DefaultRedisPrefix = "taskboard:"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3

	// EnvPrefix prefixes every environment override, e.g. TASKBOARD_STORAGE.
	EnvPrefix = "TASKBOARD"
)

// Output formats accepted by the output setting.
var outputFormats = []string{"", "table", "compact", "json"}

// Storage backends accepted by the storage.backend setting.
var backends = []string{"file", "sqlite", "redis", "memory"}

// boolPtr returns a pointer to the given bool value.
func boolPtr(v bool) *bool { return &v }
