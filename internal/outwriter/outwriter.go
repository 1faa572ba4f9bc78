// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteVerdict prints an analysis verdict using the configured output format.
func (ow *OutWriter) WriteVerdict(verdict schema.LaunchVerdict, stack schema.StackProfile, filesScanned int, cfg *contract.Config, duration time.Duration) error {
	return WriteVerdictResult(verdict, stack, filesScanned, cfg, duration)
}

// WriteAlerts prints alert history using the configured output format.
func (ow *OutWriter) WriteAlerts(alerts []schema.Alert, cfg *contract.Config) error {
	return WriteAlertResults(alerts, cfg)
}

// WriteCatalog prints catalog entries using the configured output format.
func (ow *OutWriter) WriteCatalog(entries []schema.CatalogEntry, cfg *contract.Config) error {
	return WriteCatalogResults(entries, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for free-text table cells
// based on terminal width and table configuration.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (identifiers, severity, points)
	// plus table borders, separators, and padding.
	available := termWidth - 35
	if available < 20 {
		// Minimum reasonable text width
		return 20
	}
	if available > 70 {
		// Maximum text width to prevent overly long lines
		return 70
	}
	return available
}
