package pipeline

import (
	"github.com/urfave/cli/v2"
)

// EnvPrefix prefixes the environment variable bound to every flag.
const EnvPrefix = "NEWS_ENRICHER_"

func env(name string) []string {
	return []string{EnvPrefix + name}
}

// Flags are the options of the run command. Unset flags fall back to the
// config file, then to models.DefaultConfig.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "URL list (CSV with a lien/url column, or NDJSON)", EnvVars: env("INPUT")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "dataset file to write", EnvVars: env("OUTPUT")},
		&cli.StringFlag{Name: "format", Usage: "dataset format: csv, ndjson or yaml (default from the output extension)", EnvVars: env("FORMAT")},
		&cli.StringFlag{Name: "manifest", Usage: "run manifest path (default <output>.manifest.yaml)", EnvVars: env("MANIFEST")},
		&cli.IntFlag{Name: "min-words", Usage: "articles with fewer words are classified too_short", EnvVars: env("MIN_WORDS")},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent URLs (1 processes the list sequentially)", EnvVars: env("WORKERS")},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVars: env("LOG_LEVEL")},
		&cli.StringFlag{Name: "db", Usage: "sqlite run store; the run is not stored when empty", EnvVars: env("DB")},
		&cli.DurationFlag{Name: "primary-timeout", Usage: "timeout of the readability strategy", EnvVars: env("PRIMARY_TIMEOUT")},
		&cli.DurationFlag{Name: "fallback-timeout", Usage: "timeout of the paragraph strategy", EnvVars: env("FALLBACK_TIMEOUT")},
		&cli.StringFlag{Name: "user-agent", Usage: "User-Agent header sent with every request", EnvVars: env("USER_AGENT")},
		&cli.StringSliceFlag{Name: "strategies", Usage: "extraction strategies in order (readability, paragraphs)", EnvVars: env("STRATEGIES")},
		&cli.StringFlag{Name: "model", Usage: "NLP gazetteer YAML (default embedded)", EnvVars: env("MODEL")},
		&cli.StringFlag{Name: "dictionaries", Usage: "disease/animal dictionary YAML (default embedded)", EnvVars: env("DICTIONARIES")},
		&cli.StringFlag{Name: "lexicon", Usage: "sentiment lexicon YAML (default embedded)", EnvVars: env("LEXICON")},
		&cli.StringSliceFlag{Name: "languages", Usage: "ISO-639-1 codes the language detector chooses from", EnvVars: env("LANGUAGES")},
	}
}
