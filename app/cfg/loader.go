package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content directories
	CorpusDir     string `long:"corpus-dir" env:"CORPUS_DIR" default:"./crawled_data" description:"Directory containing crawled question JSON files"`
	StagingDir    string `long:"staging-dir" env:"STAGING_DIR" default:"./staging" description:"Directory for validated MDX documents"`
	TrackerDir    string `long:"tracker-dir" env:"TRACKER_DIR" default:"./tracker" description:"Directory for the processed-id ledger"`
	QuarantineDir string `long:"quarantine-dir" env:"QUARANTINE_DIR" default:"./tracker/failed" description:"Directory for failed records and error reports"`

	// Catalog database
	CatalogPath string `long:"catalog-path" env:"CATALOG_PATH" default:"./tracker/catalog.db" description:"Path to the SQLite document catalog"`

	// Schema and taxonomy
	SchemaFile   string `long:"schema-file" env:"SCHEMA_FILE" description:"Local content schema JSON file (optional)"`
	TaxonomyFile string `long:"taxonomy-file" env:"TAXONOMY_FILE" description:"Local categories JSON file (optional)"`
	SchemaURL    string `long:"schema-url" env:"SCHEMA_URL" description:"Remote content schema URL (optional)"`
	TaxonomyURL  string `long:"taxonomy-url" env:"TAXONOMY_URL" description:"Remote categories URL (optional)"`
	MaxTags      int    `long:"max-tags" env:"MAX_TAGS" default:"5" description:"Maximum number of frontmatter tags per document"`

	// Generation service
	GenerationEndpoint string `long:"generation-endpoint" env:"GENERATION_ENDPOINT" default:"https://openrouter.ai/api/v1/chat/completions" description:"Chat-completions endpoint for article generation"`
	GenerationModel    string `long:"generation-model" env:"GENERATION_MODEL" default:"anthropic/claude-sonnet-4" description:"Model identifier for article generation"`
	GenerationAPIKey   string `long:"generation-api-key" env:"GENERATION_API_KEY" description:"API key for the generation service"`
	GenerationTimeout  int    `long:"generation-timeout" env:"GENERATION_TIMEOUT" default:"300" description:"Generation request timeout in seconds"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	BatchCount        int    `long:"count" env:"BATCH_COUNT" description:"Process this many records and exit (0 runs the HTTP server)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" description:"Sweep the corpus every this many seconds in server mode (0 disables)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Docstage/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		CorpusDir:          raw.CorpusDir,
		StagingDir:         raw.StagingDir,
		TrackerDir:         raw.TrackerDir,
		QuarantineDir:      raw.QuarantineDir,
		CatalogPath:        raw.CatalogPath,
		SchemaFile:         raw.SchemaFile,
		TaxonomyFile:       raw.TaxonomyFile,
		SchemaURL:          raw.SchemaURL,
		TaxonomyURL:        raw.TaxonomyURL,
		MaxTags:            raw.MaxTags,
		GenerationEndpoint: raw.GenerationEndpoint,
		GenerationModel:    raw.GenerationModel,
		GenerationAPIKey:   raw.GenerationAPIKey,
		GenerationTimeout:  raw.GenerationTimeout,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		BatchCount:         raw.BatchCount,
		SchedulerInterval:  raw.SchedulerInterval,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
