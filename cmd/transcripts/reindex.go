package main

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	searchrepo "github.com/kailas-cloud/transcripts/internal/repository/search"
	"github.com/kailas-cloud/transcripts/internal/usecase/reindex"
)

// reindexCommand copies the relational table into the engine index,
// creating both when missing.
func reindexCommand(c *cli.Context) error {
	a, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Engine.Enabled() {
		return errors.New("reindex needs an engine; engine.driver is none")
	}
	if err := a.openStores(c.Context); err != nil {
		return err
	}
	if err := a.ensureSchema(c.Context); err != nil {
		return err
	}

	start := time.Now()
	svc := reindex.New(
		searchrepo.NewRelational(a.sql),
		searchrepo.NewEngine(a.engine, a.cfg.Engine.Index),
	).WithBatchSize(c.Int("batch"))

	n, err := svc.Run(c.Context)
	if err != nil {
		return err
	}
	a.logger.Info("Reindex finished",
		zap.Int("rows", n),
		zap.String("index", a.cfg.Engine.Index),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// migrateCommand creates the table and engine index when missing.
func migrateCommand(c *cli.Context) error {
	a, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openStores(c.Context); err != nil {
		return err
	}
	if err := a.ensureSchema(c.Context); err != nil {
		return err
	}
	a.logger.Info("Schema ready",
		zap.String("table", a.sql.Table()),
		zap.String("backend", a.sql.Backend().String()),
	)
	return nil
}
