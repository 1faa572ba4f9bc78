package contract

import (
	"testing"
	"time"

	"github.com/preflighthq/preflight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		SourceStr:      "https://github.com/acme/shop",
		AnalysisID:     "a1",
		User:           "local",
		Output:         "text",
		Color:          "yes",
		FetchWorkers:   DefaultFetchWorkers,
		FetchTimeout:   "60s",
		MaxFileKB:      DefaultMaxFileKB,
		HistoryBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			mutate: func(_ *ConfigRawInput) {},
		},
		{
			name:        "invalid output mode",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "invalid color value",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "zero fetch workers",
			mutate:      func(in *ConfigRawInput) { in.FetchWorkers = 0 },
			expectError: true,
		},
		{
			name:        "too many fetch workers",
			mutate:      func(in *ConfigRawInput) { in.FetchWorkers = MaxFetchWorkers + 1 },
			expectError: true,
		},
		{
			name:        "malformed fetch timeout",
			mutate:      func(in *ConfigRawInput) { in.FetchTimeout = "sixty seconds" },
			expectError: true,
		},
		{
			name:        "negative fetch timeout",
			mutate:      func(in *ConfigRawInput) { in.FetchTimeout = "-5s" },
			expectError: true,
		},
		{
			name:        "zero max file size",
			mutate:      func(in *ConfigRawInput) { in.MaxFileKB = 0 },
			expectError: true,
		},
		{
			name:        "invalid history backend",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "oracle" },
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "mysql"
			},
			expectError: true,
		},
		{
			name: "mysql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "mysql"
				in.HistoryDBConnect = "root:pw@tcp(localhost:3306)/preflight"
			},
		},
		{
			name: "postgresql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "postgresql"
				in.HistoryDBConnect = "host=localhost dbname=preflight"
			},
		},
		{
			name: "postgresql backend missing dbname",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "postgresql"
				in.HistoryDBConnect = "host=localhost"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateNormalization(t *testing.T) {
	input := validInput()
	input.Output = "JSON"
	input.HistoryBackend = "SQLite"
	input.CurrentPlatform = "  Render "
	input.FetchTimeout = ""
	input.MaxFileKB = 200

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, "render", cfg.CurrentPlatform)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, int64(200*1024), cfg.MaxFileBytes)
	assert.True(t, cfg.UseColors)
}

func TestSourceLocatorRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		locator string
	}{
		{
			name:    "github url",
			cfg:     Config{SourceURL: "https://github.com/acme/shop"},
			locator: "https://github.com/acme/shop",
		},
		{
			name:    "zip path",
			cfg:     Config{ZipPath: "/tmp/shop.zip"},
			locator: "zip:/tmp/shop.zip",
		},
		{
			name:    "no source",
			cfg:     Config{},
			locator: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.locator, tt.cfg.SourceLocator())

			if tt.locator == "" {
				return
			}
			restored := Config{}
			restored.ApplyLocator(tt.locator)
			assert.Equal(t, tt.cfg.SourceURL, restored.SourceURL)
			assert.Equal(t, tt.cfg.ZipPath, restored.ZipPath)
		})
	}
}

func TestApplyLocatorReplacesPriorSource(t *testing.T) {
	cfg := Config{SourceURL: "https://github.com/acme/shop"}
	cfg.ApplyLocator("zip:/tmp/shop.zip")

	assert.Empty(t, cfg.SourceURL)
	assert.Equal(t, "/tmp/shop.zip", cfg.ZipPath)
}

func TestConfigClone(t *testing.T) {
	base := &Config{
		SourceURL:    "https://github.com/acme/shop",
		AnalysisID:   "a1",
		FetchTimeout: 30 * time.Second,
	}

	clone := base.Clone()
	clone.AnalysisID = "a2"
	clone.SourceURL = ""
	clone.ZipPath = "/tmp/other.zip"

	assert.Equal(t, "a1", base.AnalysisID)
	assert.Equal(t, "https://github.com/acme/shop", base.SourceURL)
	assert.Empty(t, base.ZipPath)
}
