package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Component: ComponentStorage})

	l.Info("opened", FieldCount, 3)
	l.WithComponent(ComponentHTTP).Warn("slow")

	out := buf.String()
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "count=3") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Fatalf("WithComponent not applied:\n%s", out)
	}
	if strings.Count(out, "component=") != 2 {
		t.Fatalf("component written more than once per record:\n%s", out)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil || l.Component() != "unknown" {
		t.Fatalf("fallback logger = %+v", l)
	}

	mine := Discard()
	if got := FromContext(NewContext(context.Background(), mine)); got != mine {
		t.Fatal("context logger not returned")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_abc" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req_abc") {
		t.Fatalf("request id missing:\n%s", buf.String())
	}
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf, Level: slog.LevelDebug}))
	r := httptest.NewRequest(http.MethodPost, "/expenses", nil)

	sl.LogHTTPEnd(context.Background(), r, 500, 0, "127.0.0.1", "req_1")
	sl.LogExpenseSaved(context.Background(), OpCreate, "id-1", "2024", "Março", "Casa", "10.00")
	sl.LogError(context.Background(), "save failed", errors.New("disk full"), ComponentStorage, OpUpdate, nil)

	out := buf.String()
	for _, want := range []string{"level=ERROR", "status_code=500", "expense_id=id-1", "mes=Março", "error=\"disk full\"", "component=storage"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLogErrorKeepsErrorType(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))

	sl.LogError(context.Background(), "delete failed", errors.New("locked"), ComponentExpense, OpDelete,
		LogFields{FieldExpenseID: "id-9"}.WithErrorType(ErrorTypeDatabase))

	out := buf.String()
	for _, want := range []string{"error_type=database_error", "expense_id=id-9", "operation=delete", "error=locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
