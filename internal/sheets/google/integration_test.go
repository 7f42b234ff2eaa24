package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"gastos/internal/core"
)

// Exports to a real spreadsheet; set GOOGLE_SPREADSHEET_ID_TEST and service
// account credentials to run it.
func TestExportIntegration(t *testing.T) {
	id := os.Getenv("GOOGLE_SPREADSHEET_ID_TEST")
	if id == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID_TEST not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, Config{
		SpreadsheetID:      id,
		SheetName:          "GastosTest",
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ref, err := client.Export(ctx, []core.Expense{
		{ID: core.NewID(), Year: "2024", Month: "Janeiro", Category: "Test", Description: "integration", Amount: core.MustParseAmount("1.23")},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(ref, "GastosTest!") {
		t.Fatalf("unexpected ref %q", ref)
	}
}
