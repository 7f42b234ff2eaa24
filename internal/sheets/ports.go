// Package sheets defines the spreadsheet export target for the collection.
package sheets

import (
	"context"

	"gastos/internal/core"
)

// Exporter writes the whole collection to an external spreadsheet. The
// export is one-way; nothing is ever read back.
type Exporter interface {
	Export(ctx context.Context, records []core.Expense) (ref string, err error)
}
