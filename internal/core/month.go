package core

import "fmt"

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthNames returns the twelve month names in calendar order.
func MonthNames() []string {
	out := make([]string, len(monthNames))
	copy(out, monthNames[:])
	return out
}

// MonthOrdinal maps a month name to its two-digit ordinal ("01".."12").
// Unknown names map to "00", which sorts before January.
func MonthOrdinal(name string) string {
	for i, m := range monthNames {
		if m == name {
			return fmt.Sprintf("%02d", i+1)
		}
	}
	return "00"
}

// MonthName maps a two-digit ordinal back to its name.
func MonthName(ordinal string) (string, bool) {
	var n int
	if _, err := fmt.Sscanf(ordinal, "%d", &n); err != nil || n < 1 || n > 12 {
		return "", false
	}
	return monthNames[n-1], true
}

func IsMonth(name string) bool {
	return MonthOrdinal(name) != "00"
}

// SortKey builds the "YYYY-MM" pseudo-date used for chronological ordering.
func (e Expense) SortKey() string {
	return e.Year + "-" + MonthOrdinal(e.Month)
}
