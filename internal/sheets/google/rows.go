package google

import (
	"fmt"

	"gastos/internal/core"
	"gastos/internal/report"
)

var (
	header        = []interface{}{"Ano", "Mês", "Categoria", "Descrição", "Valor", "ID"}
	summaryHeader = []interface{}{"Mês", "Total"}
)

// Records start at column A. The subtotals start at H, one blank column to
// the right of them.
const (
	recordsColumn = 'A'
	summaryColumn = 'H'
)

// sheetRanges is where one export clears and writes on the sheet.
type sheetRanges struct {
	Clear   string
	Records string
	Summary string
}

func rangesFor(sheet string) sheetRanges {
	last := summaryColumn + rune(len(summaryHeader)) - 1
	return sheetRanges{
		Clear:   fmt.Sprintf("%s!%c:%c", sheet, recordsColumn, last),
		Records: fmt.Sprintf("%s!%c1", sheet, recordsColumn),
		Summary: fmt.Sprintf("%s!%c1", sheet, summaryColumn),
	}
}

// recordsRef names the block the records were written to, e.g. "Gastos!A1:F3".
func recordsRef(sheet string, rows int) string {
	last := recordsColumn + rune(len(header)) - 1
	return fmt.Sprintf("%s!%c1:%c%d", sheet, recordsColumn, last, rows)
}

// buildRows lays the collection out as a header plus one row per record,
// in chronological order.
func buildRows(records []core.Expense) [][]interface{} {
	sorted := report.Sort(records)
	rows := make([][]interface{}, 0, len(sorted)+1)
	rows = append(rows, header)
	for _, e := range sorted {
		rows = append(rows, []interface{}{
			e.Year,
			e.Month,
			e.Category,
			e.Description,
			e.Amount.String(),
			e.ID,
		})
	}
	return rows
}

// buildSummaryRows lists the month-group subtotals, written beside the
// records from column H.
func buildSummaryRows(records []core.Expense) [][]interface{} {
	groups := report.GroupByMonth(report.Sort(records))
	rows := make([][]interface{}, 0, len(groups)+1)
	rows = append(rows, summaryHeader)
	for _, g := range groups {
		rows = append(rows, []interface{}{g.Key, g.Total.String()})
	}
	return rows
}
