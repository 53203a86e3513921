package transcripts

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	engineDriver   string // "redis", "valkey", "elasticsearch" or "" for none
	engineAddrs    []string
	engineUser     string
	enginePassword string
	index          string
	engineTimeout  time.Duration

	backend   predicate.Backend
	sqlDriver string
	dsn       string
	table     string
	delim     string

	defaultLimit int
	maxLimit     int
	excerptWidth int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis uses a Redis 8+ instance with the search module as the engine.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineDriver = "redis"
		c.engineAddrs = []string{addr}
		c.enginePassword = password
	})
}

// WithValkey uses a Valkey instance with the search module as the engine.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineDriver = "valkey"
		c.engineAddrs = []string{addr}
		c.enginePassword = password
	})
}

// WithElasticsearch uses an Elasticsearch 8 cluster as the engine.
func WithElasticsearch(username, password string, addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineDriver = "elasticsearch"
		c.engineAddrs = addrs
		c.engineUser = username
		c.enginePassword = password
	})
}

// WithIndex sets the engine index name. Default: "transcripts".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithEngineTimeout bounds each engine call before falling back.
// Default: 1.5s.
func WithEngineTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.engineTimeout = d
	})
}

// WithPostgres uses PostgreSQL (committees as text[]) as the relational store.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = predicate.Postgres
		c.dsn = dsn
	})
}

// WithMySQL uses MySQL (committees as a JSON array) as the relational store.
func WithMySQL(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = predicate.MySQL
		c.dsn = dsn
	})
}

// WithSQLite uses SQLite (committees as delimited text) through the pure Go
// driver. Register github.com/mattn/go-sqlite3 and use WithSQLiteDriver
// for the cgo one.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend = predicate.SQLite
		c.dsn = dsn
	})
}

// WithSQLiteDriver selects the registered sqlite driver name.
func WithSQLiteDriver(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sqlDriver = name
	})
}

// WithTable sets the transcript table. Default: "transcripts".
func WithTable(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.table = name
	})
}

// WithListDelimiter sets the committees separator of the SQLite backend.
// Default: ",".
func WithListDelimiter(sep string) Option {
	return optionFunc(func(c *clientConfig) {
		c.delim = sep
	})
}

// WithLimits sets the default and maximum page size. Defaults: 20 and 100.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithExcerptWidth sets the excerpt window in characters. Default: 160.
func WithExcerptWidth(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.excerptWidth = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
