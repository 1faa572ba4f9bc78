package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAlertResults outputs alert history, dispatching based on the output format configured.
func WriteAlertResults(alerts []schema.Alert, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, alerts)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertCSV(w, alerts)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAlertTable(w, alerts, cfg)
		}, "Wrote table")
	}
}

// writeAlertTable renders alert history as a human-readable table.
func writeAlertTable(w io.Writer, alerts []schema.Alert, cfg *contract.Config) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, "No alerts recorded.")
		return err
	}

	maxWidth := GetMaxTableTextWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Created", "Category", "Severity", "Title", "Read"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, alert := range alerts {
		read := "no"
		if alert.ReadAt != nil {
			read = "yes"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			alert.CreatedAt.Format("2006-01-02 15:04"),
			string(alert.Category),
			contract.GetColorAlertLabel(alert.Severity),
			contract.TruncateText(alert.Title, maxWidth),
			read,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d alerts. Use 'preflight alerts read <id>' to mark one read.\n", len(alerts))
	return err
}

// writeAlertCSV writes alert history in CSV format.
func writeAlertCSV(w io.Writer, alerts []schema.Alert) error {
	header := []string{
		"alert_id",
		"user_id",
		"analysis_id",
		"category",
		"severity",
		"title",
		"body",
		"what_changed",
		"next_step",
		"created_at",
		"read_at",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, alert := range alerts {
			readAt := ""
			if alert.ReadAt != nil {
				readAt = alert.ReadAt.Format(time.RFC3339)
			}
			rec := []string{
				alert.ID,
				alert.UserID,
				alert.AnalysisID,
				string(alert.Category),
				string(alert.Severity),
				alert.Title,
				alert.Body,
				alert.WhatChanged,
				alert.NextStep,
				alert.CreatedAt.Format(time.RFC3339),
				readAt,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintNewAlerts prints freshly created alerts after a re-check. Full detail
// is shown because these are the alerts the user has not seen yet.
func PrintNewAlerts(w io.Writer, alerts []schema.Alert) error {
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, "No new alerts since the last check.")
		return err
	}
	for _, alert := range alerts {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", contract.GetColorAlertLabel(alert.Severity), alert.Title); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %s\n", alert.Body); err != nil {
			return err
		}
		if alert.WhatChanged != "" {
			if _, err := fmt.Fprintf(w, "  What changed: %s\n", alert.WhatChanged); err != nil {
				return err
			}
		}
		if alert.NextStep != "" {
			if _, err := fmt.Fprintf(w, "  Next step: %s\n", alert.NextStep); err != nil {
				return err
			}
		}
	}
	return nil
}
