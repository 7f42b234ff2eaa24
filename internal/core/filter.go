package core

// Filter holds the three optional criteria of the filter bar. An empty
// criterion places no constraint on its field.
type Filter struct {
	Year     string
	Month    string
	Category string
}

func (f Filter) IsEmpty() bool {
	return f.Year == "" && f.Month == "" && f.Category == ""
}

// Matches is a conjunctive, exact, case-sensitive comparison.
func (f Filter) Matches(e Expense) bool {
	if f.Year != "" && e.Year != f.Year {
		return false
	}
	if f.Month != "" && e.Month != f.Month {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	return true
}

// Apply returns the matching records in their original order. The input
// slice is never modified.
func (f Filter) Apply(records []Expense) []Expense {
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Key identifies the filter in caches.
func (f Filter) Key() string {
	return f.Year + "|" + f.Month + "|" + f.Category
}
