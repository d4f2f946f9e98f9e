package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultNameMaxLength bounds category names when no limit is configured
	DefaultNameMaxLength = 255
	// DefaultNotesMaxLength bounds entry notes when no limit is configured
	DefaultNotesMaxLength = 4096
	// DefaultIdentityHeader carries the trusted user id set by the upstream proxy
	DefaultIdentityHeader = "X-Sundial-User"
)

// Config holds all configuration options for Sundial
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Validation  ValidationConfig  `mapstructure:"validation"`
	Server      ServerConfig      `mapstructure:"server"`
	Application ApplicationConfig `mapstructure:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `mapstructure:"dir"`
	Filename       string        `mapstructure:"filename"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	DirPermissions uint32        `mapstructure:"dir_permissions"`
}

// ValidationConfig holds limits applied to submitted forms.
// A zero MaxEntryDuration means entries may be any length.
type ValidationConfig struct {
	NameMaxLength    int           `mapstructure:"name_max_length"`
	NotesMaxLength   int           `mapstructure:"notes_max_length"`
	MaxEntryDuration time.Duration `mapstructure:"max_entry_duration"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Mode            string        `mapstructure:"mode"`
	IdentityHeader  string        `mapstructure:"identity_header"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ApplicationConfig holds application-level configuration.
// User is the owner id the CLI acts as.
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Verbose bool          `mapstructure:"verbose"`
	User    int64         `mapstructure:"user"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".sundial")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "sundial.db",
			QueryTimeout:   10 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			NameMaxLength:  DefaultNameMaxLength,
			NotesMaxLength: DefaultNotesMaxLength,
		},
		Server: ServerConfig{
			Address:         "127.0.0.1:8080",
			Mode:            "release",
			IdentityHeader:  DefaultIdentityHeader,
			ShutdownTimeout: 10 * time.Second,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.NameMaxLength < 1 {
		return &ConfigError{Field: "validation.name_max_length", Message: "name maximum length must be at least 1"}
	}
	if c.Validation.NotesMaxLength < 0 {
		return &ConfigError{Field: "validation.notes_max_length", Message: "notes maximum length cannot be negative"}
	}
	if c.Validation.MaxEntryDuration < 0 {
		return &ConfigError{Field: "validation.max_entry_duration", Message: "max entry duration cannot be negative"}
	}

	// Validate server configuration
	if c.Server.Address == "" {
		return &ConfigError{Field: "server.address", Message: "server address cannot be empty"}
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return &ConfigError{Field: "server.mode", Message: "server mode must be debug, release or test"}
	}
	if c.Server.IdentityHeader == "" {
		return &ConfigError{Field: "server.identity_header", Message: "identity header cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	if c.Application.User < 0 {
		return &ConfigError{Field: "application.user", Message: "user id cannot be negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
