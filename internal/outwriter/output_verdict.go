package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteVerdictResult outputs a launch verdict, dispatching based on the output format configured.
func WriteVerdictResult(verdict schema.LaunchVerdict, stack schema.StackProfile, filesScanned int, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeVerdictJSON(w, verdict, stack, filesScanned)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeVerdictCSV(w, verdict, stack, filesScanned)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeVerdictText(w, verdict, stack, filesScanned, cfg, duration)
		}, "Wrote verdict")
	}
}

// writeVerdictText generates the human-readable verdict report.
func writeVerdictText(w io.Writer, verdict schema.LaunchVerdict, stack schema.StackProfile, filesScanned int, cfg *contract.Config, duration time.Duration) error {
	maxWidth := GetMaxTableTextWidth(cfg)

	if _, err := fmt.Fprintf(w, "Launch verdict for %s\n", verdict.AnalysisID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Status: %s  Confidence: %d/100\n", contract.GetColorStatusLabel(verdict.Status), verdict.ConfidenceScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", verdict.Summary); err != nil {
		return err
	}
	if line := formatStackLine(stack); line != "" {
		if _, err := fmt.Fprintf(w, "Stack: %s\n\n", line); err != nil {
			return err
		}
	}

	if err := writeFactorTable(w, verdict.Factors, maxWidth); err != nil {
		return err
	}
	if err := writeRiskTable(w, verdict.Risks, maxWidth); err != nil {
		return err
	}

	platform := verdict.Platform
	if _, err := fmt.Fprintf(w, "Platform: %s (%s)\n", platform.DisplayName, platform.Badge); err != nil {
		return err
	}
	for _, bullet := range platform.WhyBullets {
		if _, err := fmt.Fprintf(w, "  - %s\n", bullet); err != nil {
			return err
		}
	}
	if platform.WhenThisChanges != "" {
		if _, err := fmt.Fprintf(w, "  When this changes: %s\n", platform.WhenThisChanges); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %s\n\n", platform.Reassurance); err != nil {
		return err
	}

	next := verdict.NextStep
	if _, err := fmt.Fprintf(w, "Next step: %s\n", next.Headline); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s\n", next.Explanation); err != nil {
		return err
	}
	if next.CallToAction != "" {
		if _, err := fmt.Fprintf(w, "  -> %s\n", next.CallToAction); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nScanned %d files in %v.\n", filesScanned, duration)
	return err
}

// writeFactorTable renders the confidence factor breakdown.
func writeFactorTable(w io.Writer, factors []schema.ConfidenceFactor, maxWidth int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Factor", "Points", "Why"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, factor := range factors {
		points := strconv.Itoa(factor.Points)
		if factor.Points == 0 {
			points = "-"
		}
		data = append(data, []string{
			factor.Name,
			points,
			contract.TruncateText(factor.Text, maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeRiskTable renders the ranked risk list, or a reassuring line when empty.
func writeRiskTable(w io.Writer, risks []schema.RiskScenario, maxWidth int) error {
	if len(risks) == 0 {
		_, err := fmt.Fprintf(w, "No launch risks detected.\n\n")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Risk", "Severity", "What you'd see"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, risk := range risks {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			risk.Title,
			contract.GetColorSeverityLabel(risk.Severity),
			contract.TruncateText(risk.UserSymptom, maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeVerdictJSON writes the verdict in JSON format.
func writeVerdictJSON(w io.Writer, verdict schema.LaunchVerdict, stack schema.StackProfile, filesScanned int) error {
	type JSONVerdictResult struct {
		schema.LaunchVerdict
		Stack        schema.StackProfile `json:"stack"`
		FilesScanned int                 `json:"files_scanned"`
	}
	return writeJSON(w, JSONVerdictResult{
		LaunchVerdict: verdict,
		Stack:         stack,
		FilesScanned:  filesScanned,
	})
}

// writeVerdictCSV writes the verdict as one summary row.
func writeVerdictCSV(w io.Writer, verdict schema.LaunchVerdict, stack schema.StackProfile, filesScanned int) error {
	header := []string{
		"analysis_id",
		"status",
		"confidence_score",
		"summary",
		"top_risk",
		"platform",
		"platform_badge",
		"next_step",
		"stack",
		"files_scanned",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		topRisk := ""
		if len(verdict.Risks) > 0 {
			topRisk = verdict.Risks[0].Title
		}
		rec := []string{
			verdict.AnalysisID,
			string(verdict.Status),
			strconv.Itoa(verdict.ConfidenceScore),
			verdict.Summary,
			topRisk,
			verdict.Platform.DisplayName,
			verdict.Platform.Badge,
			verdict.NextStep.Headline,
			formatStackLine(stack),
			strconv.Itoa(filesScanned),
		}
		return csvWriter.Write(rec)
	})
}

// formatStackLine joins the detected stack facts into one display line.
func formatStackLine(stack schema.StackProfile) string {
	var parts []string
	if stack.Runtime != "" {
		parts = append(parts, stack.Runtime)
	}
	if stack.Framework != "" {
		parts = append(parts, stack.Framework)
	}
	if len(stack.Databases) > 0 {
		parts = append(parts, strings.Join(stack.Databases, "+"))
	}
	line := strings.Join(parts, " / ")
	if stack.DeployPlatform != "" {
		if line == "" {
			return fmt.Sprintf("deployed on %s", stack.DeployPlatform)
		}
		line = fmt.Sprintf("%s (deployed on %s)", line, stack.DeployPlatform)
	}
	return line
}
