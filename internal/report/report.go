// Package report turns a list of expense records into the view shown in the
// results container: chronologically sorted rows, the grand total and the
// month-over-month variance lines.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

const (
	Placeholder = "Nenhum gasto encontrado."

	ClassIncrease = "text-danger"
	ClassDecrease = "text-success"
)

var hundred = decimal.NewFromInt(100)

type (
	// Row is one table line. ID addresses the record for edit and delete.
	Row struct {
		ID          string
		Year        string
		Month       string
		Category    string
		Description string
		Amount      string
	}

	// Group is a month-group: every record sharing year and month.
	Group struct {
		Key   string
		Year  string
		Month string
		Count int
		Total core.Amount
	}

	Variance struct {
		Current  string
		Previous string
		Percent  decimal.Decimal
		Sign     string
		Class    string
		Label    string
	}

	Report struct {
		Empty       bool
		Placeholder string
		Rows        []Row
		Groups      []Group
		Total       string
		TotalLabel  string
		Variances   []Variance
		Count       int
	}
)

// Build computes the report for records, which may be the full collection
// or a filtered view. The input slice is not reordered.
func Build(records []core.Expense) Report {
	if len(records) == 0 {
		return Report{Empty: true, Placeholder: Placeholder, Total: "0.00", TotalLabel: FormatReais(core.ZeroAmount)}
	}

	sorted := Sort(records)
	groups := GroupByMonth(sorted)

	total := core.ZeroAmount
	rows := make([]Row, 0, len(sorted))
	for _, e := range sorted {
		total = total.Add(e.Amount)
		rows = append(rows, Row{
			ID:          e.ID,
			Year:        e.Year,
			Month:       e.Month,
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount.String(),
		})
	}

	return Report{
		Rows:       rows,
		Groups:     groups,
		Total:      total.String(),
		TotalLabel: FormatReais(total),
		Variances:  Variances(groups),
		Count:      len(records),
	}
}

// Sort returns a copy ordered by year, then month ordinal. Records in the
// same month keep their relative order.
func Sort(records []core.Expense) []core.Expense {
	out := make([]core.Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortKey() < out[j].SortKey()
	})
	return out
}

// GroupByMonth sums amounts per "year-month" key. Groups come out in the
// order their first record appears in sorted.
func GroupByMonth(sorted []core.Expense) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, e := range sorted {
		key := e.Year + "-" + e.Month
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Year: e.Year, Month: e.Month})
		}
		groups[i].Count++
		groups[i].Total = groups[i].Total.Add(e.Amount)
	}
	return groups
}

// Variances compares each month-group with the one before it. Pairs whose
// previous total is zero or negative produce no line.
func Variances(groups []Group) []Variance {
	var out []Variance
	for i := 1; i < len(groups); i++ {
		prev, cur := groups[i-1], groups[i]
		if !prev.Total.IsPositive() {
			continue
		}
		pct := cur.Total.Decimal().Sub(prev.Total.Decimal()).
			Div(prev.Total.Decimal()).
			Mul(hundred)

		v := Variance{
			Current:  cur.Key,
			Previous: prev.Key,
			Percent:  pct,
			Sign:     "+",
			Class:    ClassIncrease,
		}
		if pct.IsNegative() {
			v.Sign = "-"
			v.Class = ClassDecrease
		}
		v.Label = cur.Key + " vs " + prev.Key + ": " + v.Sign + pct.Abs().StringFixed(1) + "%"
		out = append(out, v)
	}
	return out
}

// FormatReais renders an amount the way the total line shows it.
func FormatReais(a core.Amount) string {
	return "R$ " + a.String()
}
