package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SUNDIAL_DATABASE_DIR
const EnvPrefix = "SUNDIAL"

// Loader handles loading configuration from multiple sources
type Loader struct {
	path string
	v    *viper.Viper
}

// NewLoader creates a loader that reads defaults and the environment only
func NewLoader() *Loader {
	return NewLoaderWithFile("")
}

// NewLoaderWithFile creates a loader that also reads path (yaml, toml or json).
// An empty path skips the file.
func NewLoaderWithFile(path string) *Loader {
	return &Loader{path: path, v: viper.New()}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if any
// 3. Override with SUNDIAL_* environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	l.setDefaults(NewConfig())

	if l.path != "" {
		l.v.SetConfigFile(l.path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}

	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.apply(config)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal
func (l *Loader) setDefaults(d *Config) {
	l.v.SetDefault("database.dir", d.Database.Dir)
	l.v.SetDefault("database.filename", d.Database.Filename)
	l.v.SetDefault("database.query_timeout", d.Database.QueryTimeout)
	l.v.SetDefault("database.dir_permissions", d.Database.DirPermissions)

	l.v.SetDefault("validation.name_max_length", d.Validation.NameMaxLength)
	l.v.SetDefault("validation.notes_max_length", d.Validation.NotesMaxLength)
	l.v.SetDefault("validation.max_entry_duration", d.Validation.MaxEntryDuration)

	l.v.SetDefault("server.address", d.Server.Address)
	l.v.SetDefault("server.mode", d.Server.Mode)
	l.v.SetDefault("server.identity_header", d.Server.IdentityHeader)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	l.v.SetDefault("application.timeout", d.Application.Timeout)
	l.v.SetDefault("application.verbose", d.Application.Verbose)
	l.v.SetDefault("application.user", d.Application.User)
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration

	// Server overrides
	ServerAddress *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
	User    *int64
}

// apply copies every set override into config
func (o *ConfigOverrides) apply(config *Config) {
	if o.DBDir != nil {
		config.Database.Dir = *o.DBDir
	}
	if o.DBFilename != nil {
		config.Database.Filename = *o.DBFilename
	}
	if o.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *o.DBQueryTimeout
	}
	if o.ServerAddress != nil {
		config.Server.Address = *o.ServerAddress
	}
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
	if o.User != nil {
		config.Application.User = *o.User
	}
}

// IsConfigError reports whether err came from Validate
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
