package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCatalogResults outputs the content catalog, dispatching based on the output format configured.
func WriteCatalogResults(entries []schema.CatalogEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogCSV(w, entries)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(w, entries, cfg)
		}, "Wrote table")
	}
}

// writeCatalogTable renders catalog entries as a human-readable table.
func writeCatalogTable(w io.Writer, entries []schema.CatalogEntry, cfg *contract.Config) error {
	maxWidth := GetMaxTableTextWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Kind", "Key", "Title"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, entry := range entries {
		data = append(data, []string{
			entry.Kind,
			entry.Key,
			contract.TruncateText(entry.Title, maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d catalog entries.\n", len(entries))
	return err
}

// writeCatalogCSV writes catalog entries in CSV format.
func writeCatalogCSV(w io.Writer, entries []schema.CatalogEntry) error {
	header := []string{"kind", "key", "title", "body"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, entry := range entries {
			if err := csvWriter.Write([]string{entry.Kind, entry.Key, entry.Title, entry.Body}); err != nil {
				return err
			}
		}
		return nil
	})
}
