package transcripts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/transcripts/internal/db/redis"
	"github.com/kailas-cloud/transcripts/internal/db/relational"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	searchrepo "github.com/kailas-cloud/transcripts/internal/repository/search"
	healthuc "github.com/kailas-cloud/transcripts/internal/usecase/health"
	"github.com/kailas-cloud/transcripts/internal/usecase/reindex"
	searchuc "github.com/kailas-cloud/transcripts/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultIndex            = "transcripts"
)

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Response, error)
	Explain(req *request.Request, backend *predicate.Backend) searchuc.Explanation
}

type reindexUseCase interface {
	Run(ctx context.Context) (int, error)
}

// Client is the transcripts SDK entry point.
type Client struct {
	engine     db.Engine
	sql        *relational.Executor
	index      string
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	reindexSvc reindexUseCase
	limits     request.Limits
	obs        *observer
}

// New creates a Client, connects to the relational store and, when one is
// configured, waits for the engine to become ready. The provided context is
// used for the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{index: defaultIndex}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("transcripts: relational store required (use WithPostgres, WithMySQL or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	sqlStore, err := relational.Open(relational.Config{
		Backend:       cfg.backend,
		Driver:        cfg.sqlDriver,
		DSN:           cfg.dsn,
		Table:         cfg.table,
		ListDelimiter: cfg.delim,
	})
	if err != nil {
		return nil, fmt.Errorf("transcripts: open relational store: %w", err)
	}

	var engine db.Engine
	if cfg.engineDriver != "" {
		engine, err = createEngine(cfg)
		if err != nil {
			_ = sqlStore.Close()
			return nil, err
		}
		if err := engine.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			engine.Close()
			_ = sqlStore.Close()
			return nil, fmt.Errorf("transcripts: engine not ready: %w", err)
		}
	}

	return wireClient(engine, sqlStore, cfg, obs), nil
}

func createEngine(cfg *clientConfig) (db.Engine, error) {
	switch cfg.engineDriver {
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.engineAddrs,
			Username: cfg.engineUser,
			Password: cfg.enginePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("transcripts: create %s store: %w", cfg.engineDriver, err)
		}
		return s, nil
	case "elasticsearch":
		s, err := elastic.NewStore(elastic.Config{
			Addrs:    cfg.engineAddrs,
			Username: cfg.engineUser,
			Password: cfg.enginePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("transcripts: create elasticsearch store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("transcripts: unknown engine driver %q", cfg.engineDriver)
	}
}

func wireClient(engine db.Engine, sqlStore *relational.Executor, cfg *clientConfig, obs *observer) *Client {
	relRepo := searchrepo.NewRelational(sqlStore)

	// Pass nil interfaces, not typed nil pointers, when no engine is set.
	var (
		engineRepo   searchuc.Engine
		enginePinger healthuc.Pinger
		reindexSvc   reindexUseCase
	)
	if engine != nil {
		repo := searchrepo.NewEngine(engine, cfg.index)
		engineRepo = repo
		enginePinger = engine
		reindexSvc = reindex.New(relRepo, repo)
	}

	preview := searchrepo.NewPreview(cfg.engineDriver, cfg.index, sqlStore.Table(), cfg.delim)
	searchSvc := searchuc.New(engineRepo, relRepo, preview, searchuc.Options{
		Backend:       sqlStore.Backend(),
		EngineTimeout: cfg.engineTimeout,
		ExcerptWidth:  cfg.excerptWidth,
	})

	return &Client{
		engine:     engine,
		sql:        sqlStore,
		index:      cfg.index,
		searchSvc:  searchSvc,
		healthSvc:  healthuc.New(sqlStore, enginePinger),
		reindexSvc: reindexSvc,
		limits:     request.Limits{Default: cfg.defaultLimit, Max: cfg.maxLimit},
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.engine != nil {
		c.engine.Close()
	}
	if c.sql != nil {
		_ = c.sql.Close()
	}
}

// EnsureSchema creates the transcript table and the engine index when
// missing.
func (c *Client) EnsureSchema(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("schema.ensure", start, err) }()

	if err = c.sql.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}
	if c.engine == nil {
		return nil
	}
	idx, err := db.TranscriptIndex(c.index)
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	if _, err = db.EnsureIndex(ctx, c.engine, idx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Reindex copies every relational row into the engine index and returns
// the number of rows written.
func (c *Client) Reindex(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reindex", start, err, "rows", n) }()

	if c.reindexSvc == nil {
		return 0, ErrEngineDisabled
	}
	n, err = c.reindexSvc.Run(ctx)
	if err != nil {
		return n, fmt.Errorf("reindex: %w", err)
	}
	return n, nil
}
