package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/schema"

	"github.com/olekukonko/tablewriter"
)

// PreviewOutput is the JSON shape of a data preview.
type PreviewOutput struct {
	Columns      []string        `json:"columns"`
	Rows         []schema.Record `json:"rows"`
	TotalRecords int             `json:"totalRecords"`
}

// BuildPreview keeps the first limit records and the union of their column names
// in order of first appearance.
func BuildPreview(records []schema.Record, limit int) PreviewOutput {
	rows := records
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	seen := make(map[string]struct{})
	columns := []string{}
	for _, r := range rows {
		for _, name := range r.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			columns = append(columns, name)
		}
	}
	return PreviewOutput{
		Columns:      columns,
		Rows:         append([]schema.Record{}, rows...),
		TotalRecords: len(records),
	}
}

// previewCells renders one record in column order. Missing fields are blank.
func previewCells(r schema.Record, columns []string) []string {
	cells := make([]string, len(columns))
	for i, name := range columns {
		v, _ := r.Get(name)
		cells[i], _ = schema.ValueString(v)
	}
	return cells
}

// WritePreview prints the first rows of the decoded input.
func WritePreview(records []schema.Record, cfg *contract.Config) error {
	preview := BuildPreview(records, cfg.PreviewRows)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, preview)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, preview.Columns, func(cw *csv.Writer) error {
				for _, r := range preview.Rows {
					if err := cw.Write(previewCells(r, preview.Columns)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for previews")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePreviewTable(w, preview, cfg)
		}, "Wrote table")
	}
}

// writePreviewTable renders the preview as a left-aligned table.
func writePreviewTable(w io.Writer, preview PreviewOutput, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header(preview.Columns)

	maxWidth := GetMaxCombinationWidth(cfg)
	data := make([][]string, 0, len(preview.Rows))
	for _, r := range preview.Rows {
		cells := previewCells(r, preview.Columns)
		for i := range cells {
			cells[i] = contract.TruncateText(cells[i], maxWidth)
		}
		data = append(data, cells)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d records\n", len(preview.Rows), preview.TotalRecords)
	return err
}
