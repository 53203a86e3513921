package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/transcripts/internal/db/relational"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// Engine drivers.
const (
	EngineRedis         = "redis"
	EngineValkey        = "valkey"
	EngineElasticsearch = "elasticsearch"
	EngineNone          = "none"
)

// Config holds the transcripts search service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Engine   EngineConfig   `yaml:"engine"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig holds full-text engine settings.
type EngineConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, elasticsearch, none (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	Index            string   `yaml:"index"`
	TimeoutMS        int      `yaml:"timeout_ms"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	CreateIndex      bool     `yaml:"create_index"`
}

// Enabled reports whether an engine is configured.
func (e EngineConfig) Enabled() bool { return e.Driver != EngineNone }

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Backend       string `yaml:"backend"` // postgres, mysql, sqlite
	Driver        string `yaml:"driver"`  // sqlite only: sqlite (modernc), sqlite3 (mattn)
	DSN           string `yaml:"dsn"`
	Table         string `yaml:"table"`
	ListDelimiter string `yaml:"list_delimiter"`
}

// SearchConfig holds paging and excerpt settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	ExcerptWidth int `yaml:"excerpt_width"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates raw YAML.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Driver == "" {
		c.Engine.Driver = EngineRedis
	}
	if c.Engine.Index == "" {
		c.Engine.Index = "transcripts"
	}
	if c.Engine.TimeoutMS <= 0 {
		c.Engine.TimeoutMS = 1500
	}
	if c.Engine.ReadinessTimeout <= 0 {
		c.Engine.ReadinessTimeout = 10
	}
	if c.Database.Table == "" {
		c.Database.Table = relational.DefaultTable
	}
	if b, err := predicate.ParseBackend(c.Database.Backend); err == nil && b == predicate.SQLite && c.Database.Driver == "" {
		c.Database.Driver = relational.DriverSQLite
	}
	if c.Database.ListDelimiter == "" {
		c.Database.ListDelimiter = ","
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.ExcerptWidth <= 0 {
		c.Search.ExcerptWidth = 160
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Engine.Driver {
	case EngineRedis, EngineValkey, EngineElasticsearch:
		if len(c.Engine.Addrs) == 0 {
			return fmt.Errorf("engine.addrs is required for driver %q", c.Engine.Driver)
		}
	case EngineNone:
	default:
		return fmt.Errorf("engine.driver must be one of redis, valkey, elasticsearch, none, got %q", c.Engine.Driver)
	}

	backend, err := predicate.ParseBackend(c.Database.Backend)
	if err != nil {
		return fmt.Errorf("database.backend: %w", err)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if backend == predicate.SQLite {
		switch c.Database.Driver {
		case relational.DriverSQLite, relational.DriverSQLite3:
		default:
			return fmt.Errorf("database.driver must be sqlite or sqlite3, got %q", c.Database.Driver)
		}
	}
	if !relational.ValidTableName(c.Database.Table) {
		return fmt.Errorf("database.table %q is not a valid identifier", c.Database.Table)
	}

	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) must not exceed search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	return nil
}

// Backend returns the parsed relational backend. Call after Validate.
func (c *Config) Backend() predicate.Backend {
	b, _ := predicate.ParseBackend(c.Database.Backend)
	return b
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
