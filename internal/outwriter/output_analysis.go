package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// combinationCSVHeader is the column set of the combinations export.
var combinationCSVHeader = []string{"combination", "count", "frequency", "percentage"}

// writeAnalysisTable generates and writes the human-readable tables.
func writeAnalysisTable(w io.Writer, result schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	// 1. Combinations
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Combination", "Count", "Frequency", "Percent", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxCombinationWidth(cfg)
	data := make([][]string, 0, len(result.Combinations))
	for i, c := range result.Combinations {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(c.Combination, maxWidth),
			fmt.Sprintf(intFmt, c.Count),
			fmtFloat(c.Frequency),
			c.Percentage + "%",
			labelFor(c.Frequency, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// 2. Top items
	if len(result.ItemStats) > 0 {
		items := tablewriter.NewWriter(w)
		items.Header([]string{"Rank", "Item", "Count"})
		items.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		rows := make([][]string, 0, len(result.ItemStats))
		for i, it := range result.ItemStats {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(it.Item, maxWidth),
				fmt.Sprintf(intFmt, it.Count),
			})
		}
		if err := items.Bulk(rows); err != nil {
			return err
		}
		if err := items.Render(); err != nil {
			return err
		}
	}

	// 3. Summary
	if _, err := fmt.Fprintf(w, "Showing %d significant combinations across %d baskets (records: %d, unique items: %d)\n",
		result.SignificantCombinationCount, result.AnalyzedBaskets, result.TotalRecords, result.UniqueItems); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. Tracking backend: %s\n", duration, cfg.Workers, cfg.AnalysisBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForCombinations writes the significant combinations in CSV format.
func writeCSVResultsForCombinations(w io.Writer, stats []schema.FrequencyStat, fmtFloat func(float64) string, intFmt string, percentSign bool) error {
	return writeCSVWithHeader(w, combinationCSVHeader, func(cw *csv.Writer) error {
		for _, s := range stats {
			pct := s.Percentage
			if percentSign {
				pct += "%"
			}
			rec := []string{
				s.Combination,
				fmt.Sprintf(intFmt, s.Count),
				fmtFloat(s.Frequency),
				pct,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
