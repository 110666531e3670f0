package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "MOVEMATE"
	defaultHTTPAddress   = "0.0.0.0:8080"
	defaultStorageDriver = StorageDriverSQLite
	defaultDatabasePath  = "movemate.db"
	defaultLogLevel      = "info"
	defaultCORSOrigins   = "*"
)

// Storage driver names accepted by storage.driver.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress   string
	StorageDriver string
	DatabasePath  string
	LogLevel      string
	CORSOrigins   string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("storage.driver", defaultStorageDriver)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("http.cors_origins", defaultCORSOrigins)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   configViper.GetString("http.address"),
		StorageDriver: strings.ToLower(strings.TrimSpace(configViper.GetString("storage.driver"))),
		DatabasePath:  configViper.GetString("database.path"),
		LogLevel:      configViper.GetString("log.level"),
		CORSOrigins:   configViper.GetString("http.cors_origins"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// CORSOriginList splits the configured comma-separated origins into the list
// handed to the HTTP layer. A blank value falls back to the wildcard.
func (c AppConfig) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{defaultCORSOrigins}
	}
	return origins
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	switch c.StorageDriver {
	case StorageDriverSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageDriverSQLite, StorageDriverMemory, c.StorageDriver)
	}
	return nil
}
