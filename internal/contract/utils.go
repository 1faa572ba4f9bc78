package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/preflighthq/preflight/schema"
)

// Color variables for console output.
var (
	FixColor     = color.New(color.FgRed, color.Bold)     // fix verdicts and high severity
	WatchColor   = color.New(color.FgYellow)              // watch verdicts and medium severity
	SafeColor    = color.New(color.FgGreen)               // safe verdicts
	HeadsUpColor = color.New(color.FgMagenta, color.Bold) // heads-up alerts
	NeutralColor = color.New(color.FgCyan)                // informational signal
)

// GetPlainStatusLabel returns the plain text label for a verdict status.
// This is the core logic used for CSV, JSON and table printing.
func GetPlainStatusLabel(status schema.VerdictStatus) string {
	switch status {
	case schema.SafeStatus:
		return "Safe to launch"
	case schema.WatchStatus:
		return "Launch and watch"
	default:
		return "Fix first"
	}
}

// GetColorStatusLabel returns a colored status label for console output.
func GetColorStatusLabel(status schema.VerdictStatus) string {
	text := GetPlainStatusLabel(status)
	switch status {
	case schema.SafeStatus:
		return SafeColor.Sprint(text)
	case schema.WatchStatus:
		return WatchColor.Sprint(text)
	default:
		return FixColor.Sprint(text)
	}
}

// GetColorSeverityLabel returns a colored severity label for console output.
func GetColorSeverityLabel(severity schema.Severity) string {
	switch severity {
	case schema.HighSeverity:
		return FixColor.Sprint("high")
	case schema.MediumSeverity:
		return WatchColor.Sprint("medium")
	default:
		return NeutralColor.Sprint("low")
	}
}

// GetColorAlertLabel returns a colored alert severity label.
func GetColorAlertLabel(severity schema.AlertSeverity) string {
	switch severity {
	case schema.ActionSoonAlert:
		return FixColor.Sprint("action soon")
	case schema.HeadsUpAlert:
		return HeadsUpColor.Sprint("heads up")
	default:
		return NeutralColor.Sprint("informational")
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude
// patterns. Patterns ending with '/' are treated as prefixes (matched at any
// directory depth). Patterns starting with '.' are treated as suffix
// (extension) matches. Anything else is a substring match.
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".preflight_history.db"
	}
	return filepath.Join(homeDir, ".preflight_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// TruncateText truncates a string to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}
