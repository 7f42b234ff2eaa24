package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func rec(id, year, month, amount string) core.Expense {
	return core.Expense{ID: id, Year: year, Month: month, Category: "Food", Description: id, Amount: core.MustParseAmount(amount)}
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil)
	require.True(t, r.Empty)
	require.Equal(t, "Nenhum gasto encontrado.", r.Placeholder)
	require.Empty(t, r.Rows)
	require.Empty(t, r.Variances)
}

func TestBuildSingleRecord(t *testing.T) {
	r := Build([]core.Expense{rec("a", "2024", "Janeiro", "10")})
	require.False(t, r.Empty)
	require.Len(t, r.Rows, 1)
	require.Equal(t, "10.00", r.Rows[0].Amount)
	require.Equal(t, "R$ 10.00", r.TotalLabel)
	require.Empty(t, r.Variances)
}

func TestBuildSortsChronologically(t *testing.T) {
	input := []core.Expense{
		rec("feb", "2024", "Fevereiro", "120.00"),
		rec("jan", "2024", "Janeiro", "100.00"),
	}
	r := Build(input)

	require.Equal(t, "jan", r.Rows[0].ID)
	require.Equal(t, "feb", r.Rows[1].ID)
	require.Equal(t, "feb", input[0].ID, "input order must be preserved")

	require.Len(t, r.Variances, 1)
	require.Equal(t, "2024-Fevereiro vs 2024-Janeiro: +20.0%", r.Variances[0].Label)
	require.Equal(t, ClassIncrease, r.Variances[0].Class)
	require.Equal(t, "R$ 220.00", r.TotalLabel)
}

func TestSortIsStableAndCrossesYears(t *testing.T) {
	input := []core.Expense{
		rec("b1", "2024", "Janeiro", "1"),
		rec("z", "2023", "Dezembro", "1"),
		rec("b2", "2024", "Janeiro", "1"),
		rec("unknown", "2024", "Smarch", "1"),
	}
	got := Sort(input)
	order := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	require.Equal(t, []string{"z", "unknown", "b1", "b2"}, order)
}

func TestVariances(t *testing.T) {
	cases := []struct {
		name       string
		prev, cur  string
		wantLabel  string
		wantClass  string
		wantNoLine bool
	}{
		{"increase", "100.00", "150.00", "2024-Fevereiro vs 2024-Janeiro: +50.0%", ClassIncrease, false},
		{"decrease", "150.00", "100.00", "2024-Fevereiro vs 2024-Janeiro: -33.3%", ClassDecrease, false},
		{"unchanged", "80.00", "80.00", "2024-Fevereiro vs 2024-Janeiro: +0.0%", ClassIncrease, false},
		{"zero previous", "0", "10.00", "", "", true},
		{"negative previous", "-5", "10.00", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Build([]core.Expense{
				rec("p", "2024", "Janeiro", tc.prev),
				rec("c", "2024", "Fevereiro", tc.cur),
			})
			if tc.wantNoLine {
				require.Empty(t, r.Variances)
				return
			}
			require.Len(t, r.Variances, 1)
			require.Equal(t, tc.wantLabel, r.Variances[0].Label)
			require.Equal(t, tc.wantClass, r.Variances[0].Class)
		})
	}
}

func TestGroupByMonthSubtotals(t *testing.T) {
	sorted := Sort([]core.Expense{
		rec("a", "2024", "Março", "10.10"),
		rec("b", "2024", "Janeiro", "1.00"),
		rec("c", "2024", "Março", "0.20"),
	})
	groups := GroupByMonth(sorted)
	require.Len(t, groups, 2)
	require.Equal(t, "2024-Janeiro", groups[0].Key)
	require.Equal(t, "2024-Março", groups[1].Key)
	require.Equal(t, "10.30", groups[1].Total.String())
	require.Equal(t, 2, groups[1].Count)
}

func TestTotalSumsAllInputRecords(t *testing.T) {
	r := Build([]core.Expense{
		rec("a", "2024", "Janeiro", "0.10"),
		rec("b", "2024", "Janeiro", "0.20"),
		rec("c", "2023", "Abril", "-1.00"),
	})
	require.Equal(t, "-0.70", r.Total)
	require.Equal(t, 3, r.Count)
}
