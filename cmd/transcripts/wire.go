package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcripts/internal/config"
	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/transcripts/internal/db/redis"
	"github.com/kailas-cloud/transcripts/internal/db/relational"
	logpkg "github.com/kailas-cloud/transcripts/internal/logger"
	searchrepo "github.com/kailas-cloud/transcripts/internal/repository/search"
	searchuc "github.com/kailas-cloud/transcripts/internal/usecase/search"
)

// app holds whatever a command needs. engine is nil when no engine is
// configured.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	sql    *relational.Executor
	engine db.Engine
}

func loadApp(c *cli.Context) (*app, error) {
	env := c.String("env")

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &app{env: env, cfg: cfg, logger: logger}, nil
}

// openStores connects the relational store and, when configured, the engine.
func (a *app) openStores(ctx context.Context) error {
	sqlStore, err := relational.Open(relational.Config{
		Backend:       a.cfg.Backend(),
		Driver:        a.cfg.Database.Driver,
		DSN:           a.cfg.Database.DSN,
		Table:         a.cfg.Database.Table,
		ListDelimiter: a.cfg.Database.ListDelimiter,
	})
	if err != nil {
		return fmt.Errorf("open relational store: %w", err)
	}
	a.sql = sqlStore

	if !a.cfg.Engine.Enabled() {
		a.logger.Info("Engine disabled, serving from the relational store only")
		return nil
	}

	engine, err := newEngineStore(a.cfg.Engine)
	if err != nil {
		return fmt.Errorf("create engine store: %w", err)
	}
	a.engine = engine

	timeout := time.Duration(a.cfg.Engine.ReadinessTimeout) * time.Second
	if err := engine.WaitForReady(ctx, timeout); err != nil {
		return fmt.Errorf("engine not ready: %w", err)
	}
	a.logger.Info("Connected to engine",
		zap.String("driver", a.cfg.Engine.Driver),
		zap.Strings("addrs", a.cfg.Engine.Addrs),
	)
	return nil
}

func newEngineStore(cfg config.EngineConfig) (db.Engine, error) {
	switch cfg.Driver {
	case config.EngineRedis, config.EngineValkey:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case config.EngineElasticsearch:
		return elastic.NewStore(elastic.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	default:
		return nil, fmt.Errorf("unknown engine driver %q", cfg.Driver)
	}
}

// ensureSchema creates the table and the engine index when missing.
func (a *app) ensureSchema(ctx context.Context) error {
	if err := a.sql.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure table: %w", err)
	}
	return a.ensureIndex(ctx)
}

// ensureIndex creates the engine index when missing.
func (a *app) ensureIndex(ctx context.Context) error {
	if a.engine == nil {
		return nil
	}
	idx, err := db.TranscriptIndex(a.cfg.Engine.Index)
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	created, err := db.EnsureIndex(ctx, a.engine, idx)
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	if created {
		a.logger.Info("Created engine index",
			zap.String("index", idx.Name), zap.Stringer("schema", idx))
	}
	return nil
}

// searchService builds the search use case. The engine repository is
// passed as a nil interface when no engine is configured; a typed nil
// pointer would not compare equal to nil.
func (a *app) searchService() *searchuc.Service {
	var engine searchuc.Engine
	if a.engine != nil {
		engine = searchrepo.NewEngine(a.engine, a.cfg.Engine.Index)
	}

	var rel searchuc.Relational
	if a.sql != nil {
		rel = searchrepo.NewRelational(a.sql)
	}

	return searchuc.New(engine, rel, a.preview(), searchuc.Options{
		Backend:       a.cfg.Backend(),
		EngineTimeout: time.Duration(a.cfg.Engine.TimeoutMS) * time.Millisecond,
		ExcerptWidth:  a.cfg.Search.ExcerptWidth,
	})
}

func (a *app) preview() *searchrepo.Preview {
	return searchrepo.NewPreview(
		a.cfg.Engine.Driver, a.cfg.Engine.Index, a.cfg.Database.Table, a.cfg.Database.ListDelimiter,
	)
}

func (a *app) close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.sql != nil {
		if err := a.sql.Close(); err != nil {
			a.logger.Warn("Error closing relational store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
