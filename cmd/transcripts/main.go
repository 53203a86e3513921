package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/transcripts/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "transcripts",
		Usage:   "Transcript search API over a full-text engine with relational fallback",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Environment name; selects config/<env>.yaml",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
			},
			{
				Name:      "explain",
				Usage:     "Print how a query compiles for the engine and the relational store",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "backend",
						Usage: "SQL dialect to render (postgres, mysql, sqlite); defaults to the configured one",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Earliest meeting date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Latest meeting date (YYYY-MM-DD)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size",
					},
					&cli.StringFlag{
						Name:  "committee-pattern",
						Usage: "Raw LIKE pattern a committee label must match (e.g. %福利%)",
					},
				},
				Action: explainCommand,
			},
			{
				Name:  "reindex",
				Usage: "Copy every relational row into the engine index",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch",
						Usage: "Rows per engine write",
						Value: 500,
					},
				},
				Action: reindexCommand,
			},
			{
				Name:   "migrate",
				Usage:  "Create the transcript table and engine index when missing",
				Action: migrateCommand,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
