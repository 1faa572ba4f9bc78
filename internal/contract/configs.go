package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/preflighthq/preflight/schema"
)

// Default values for configuration.
const (
	DefaultFetchWorkers = 10               // bounded fan-out against third-party rate limits
	MaxFetchWorkers     = 32               // anything beyond this is abusive to the remote host
	DefaultFetchTimeout = 60 * time.Second // whole-fetch ceiling; a timeout is retryable
	DefaultMaxFileKB    = 100              // skip single files above this to bound memory
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for an analysis.
// This struct remains the "final, validated" config.
type Config struct {
	SourceURL       string // GitHub repository URL (positional arg)
	ZipPath         string // Local ZIP archive path, alternative to SourceURL
	AnalysisID      string // Caller-supplied analysis identifier
	UserID          string // Caller-supplied user identifier; never authenticated here
	CurrentPlatform string // Where the app is hosted today, if known

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	FetchWorkers int
	FetchTimeout time.Duration
	MaxFileBytes int64
	GitHubToken  string // Optional; raises the API rate limit

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Set manually from positional args, so no tag
	SourceStr string

	ZipFile         string `mapstructure:"zip-file"`
	AnalysisID      string `mapstructure:"analysis-id"`
	User            string `mapstructure:"user"`
	CurrentPlatform string `mapstructure:"current-platform"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	FetchWorkers int    `mapstructure:"fetch-workers"`
	FetchTimeout string `mapstructure:"fetch-timeout"`
	MaxFileKB    int    `mapstructure:"max-file-kb"`
	GitHubToken  string `mapstructure:"github-token"`

	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.SourceURL = input.SourceStr
	cfg.ZipPath = input.ZipFile
	cfg.AnalysisID = input.AnalysisID
	cfg.UserID = input.User
	cfg.CurrentPlatform = strings.ToLower(strings.TrimSpace(input.CurrentPlatform))
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.GitHubToken = input.GitHubToken

	// --- 1. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv", input.Output)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 2. Fetch bounds ---
	if input.FetchWorkers <= 0 || input.FetchWorkers > MaxFetchWorkers {
		return fmt.Errorf("fetch-workers must be between 1 and %d (received %d)", MaxFetchWorkers, input.FetchWorkers)
	}
	cfg.FetchWorkers = input.FetchWorkers

	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch-timeout %q: %w", input.FetchTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch-timeout must be positive (received %s)", d)
		}
		cfg.FetchTimeout = d
	} else {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	if input.MaxFileKB <= 0 {
		return fmt.Errorf("max-file-kb must be greater than 0 (received %d)", input.MaxFileKB)
	}
	cfg.MaxFileBytes = int64(input.MaxFileKB) * 1024

	// --- 3. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// Clone returns a copy of the config so per-request overrides never mutate
// the base configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SourceLocator returns the canonical locator recorded with run history:
// the GitHub URL when present, otherwise the ZIP path with a "zip:" prefix.
func (c *Config) SourceLocator() string {
	if c.SourceURL != "" {
		return c.SourceURL
	}
	if c.ZipPath != "" {
		return "zip:" + c.ZipPath
	}
	return ""
}

// ApplyLocator reverses SourceLocator, restoring the source fields from a
// stored run history locator.
func (c *Config) ApplyLocator(locator string) {
	if path, ok := strings.CutPrefix(locator, "zip:"); ok {
		c.ZipPath = path
		c.SourceURL = ""
		return
	}
	c.SourceURL = locator
	c.ZipPath = ""
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
