// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the expense form (form-encoded from the page, or JSON from scripts), the
// filter bar query and method checks.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gastos/internal/core"
)

// Form and query parameter names, shared with the templates.
const (
	paramID          = "id"
	paramYear        = "ano"
	paramMonth       = "mes"
	paramCategory    = "categoria"
	paramDescription = "descricao"
	paramAmount      = "valor"
)

// maxBodyBytes bounds a single form submission.
const maxBodyBytes = 64 << 10

// ExpenseForm is the raw content of the expense form. Amount stays a string
// until validation so it can be echoed back when rejected.
type ExpenseForm struct {
	Cursor      string
	Year        string
	Month       string
	Category    string
	Description string
	Amount      string

	viaJSON bool
}

// Expense converts the form into a record, rejecting unparseable amounts.
func (f ExpenseForm) Expense() (core.Expense, error) {
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Year:        f.Year,
		Month:       f.Month,
		Category:    f.Category,
		Description: f.Description,
		Amount:      amount,
	}, nil
}

// FormFromExpense fills the form from a stored record, with the cursor set.
func FormFromExpense(e core.Expense) ExpenseForm {
	return ExpenseForm{
		Cursor:      e.ID,
		Year:        e.Year,
		Month:       e.Month,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.String(),
	}
}

// ParseExpenseForm reads the expense form from a form-encoded or JSON body.
func ParseExpenseForm(w http.ResponseWriter, r *http.Request) (ExpenseForm, error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return ExpenseForm{}, err
	}
	return ExpenseForm{
		Cursor:      p.Get(paramID),
		Year:        p.Get(paramYear),
		Month:       p.Get(paramMonth),
		Category:    p.Get(paramCategory),
		Description: p.Get(paramDescription),
		Amount:      p.Get(paramAmount),
		viaJSON:     p.IsJSON(),
	}, nil
}

// ParseFilterParams reads the three optional filter criteria. Values are
// trimmed and sanitized but otherwise compared exactly.
func ParseFilterParams(query url.Values) core.Filter {
	return core.Filter{
		Year:     sanitizeInput(query.Get(paramYear)),
		Month:    sanitizeInput(query.Get(paramMonth)),
		Category: sanitizeInput(query.Get(paramCategory)),
	}
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and keeps it for Parse.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(r.Body)
	return p
}

var errEmptyJSON = errors.New("empty JSON body")

// Parse decodes the body as JSON when the content type says so or the body
// looks like an object, and as form data otherwise.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	isJSON := strings.HasPrefix(p.contentType, "application/json") || strings.HasPrefix(trimmed, "{")

	if trimmed == "" {
		if isJSON && strings.HasPrefix(p.contentType, "application/json") {
			p.err = errEmptyJSON
			return p.err
		}
		p.formData = url.Values{}
		return nil
	}

	if isJSON {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string. Numbers keep their
// shortest representation, so 12.5 becomes "12.5".
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}
