package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/news-enricher/internal/clean"
	dbcmd "github.com/dtnitsch/news-enricher/internal/db"
	"github.com/dtnitsch/news-enricher/internal/pipeline"
	"github.com/dtnitsch/news-enricher/internal/summary"
	"github.com/dtnitsch/news-enricher/pkg/db"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Value:   db.DefaultDBName,
		Usage:   "sqlite run store",
		EnvVars: []string{pipeline.EnvPrefix + "DB"},
	}

	app := &cli.App{
		Name:  "news-enricher",
		Usage: "Collect news articles from a URL list and enrich them with language, entities, sentiment and summaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; flags override it",
				EnvVars: []string{pipeline.EnvPrefix + "CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Scrape and enrich every URL of the input list and write the dataset",
				Flags:  pipeline.Flags(),
				Action: pipeline.RunAction,
			},
			{
				Name:      "summary",
				Usage:     "Report status, language, disease and location counts of a dataset",
				ArgsUsage: "[dataset]",
				Flags: []cli.Flag{
					dbFlag,
					&cli.Int64Flag{Name: "run", Usage: "report on a stored run instead of a dataset file"},
					&cli.IntFlag{Name: "top", Value: 10, Usage: "rows per table"},
				},
				Action: summary.SummaryAction,
			},
			{
				Name:      "clean",
				Usage:     "Keep rows whose url looks like a URL and drop repeated URLs",
				ArgsUsage: "<dataset.csv>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "cleaned CSV (default <dataset>_cleaned.csv)"},
				},
				Action: clean.CleanAction,
			},
			{
				Name:  "db",
				Usage: "Inspect the sqlite run store",
				Subcommands: []*cli.Command{
					{
						Name:   "runs",
						Usage:  "List runs, newest first",
						Flags:  []cli.Flag{dbFlag, &cli.IntFlag{Name: "limit", Value: 20}},
						Action: dbcmd.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show one run (latest by default)",
						ArgsUsage: "[run-id]",
						Flags:     []cli.Flag{dbFlag},
						Action:    dbcmd.RunAction,
					},
					{
						Name:      "records",
						Usage:     "List the records of a run (latest by default)",
						ArgsUsage: "[run-id]",
						Flags:     []cli.Flag{dbFlag, &cli.StringFlag{Name: "status", Usage: "only ok, too_short or scrape_failed"}},
						Action:    dbcmd.RecordsAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
