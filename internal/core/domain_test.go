package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Year:        "2024",
		Month:       "Janeiro",
		Category:    "Food",
		Description: "Lunch",
		Amount:      MustParseAmount("10"),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	noDesc := good
	noDesc.Description = ""
	if err := noDesc.Validate(); err != nil {
		t.Fatalf("empty description should be accepted, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"short year", func(e *Expense) { e.Year = "24" }, ErrInvalidYear},
		{"signed year", func(e *Expense) { e.Year = "-202" }, ErrInvalidYear},
		{"empty year", func(e *Expense) { e.Year = "" }, ErrInvalidYear},
		{"unknown month", func(e *Expense) { e.Month = "January" }, ErrInvalidMonth},
		{"lowercase month", func(e *Expense) { e.Month = "janeiro" }, ErrInvalidMonth},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"long category", func(e *Expense) { e.Category = strings.Repeat("c", 101) }, ErrCategoryTooLong},
		{"long description", func(e *Expense) { e.Description = strings.Repeat("d", 201) }, ErrDescriptionTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidationError(err) {
				t.Fatalf("expected %v to be a validation error", err)
			}
		})
	}
}

func TestExpenseJSONUsesStoredFieldNames(t *testing.T) {
	e := Expense{ID: "x", Year: "2024", Month: "Março", Category: "Casa", Description: "Luz", Amount: MustParseAmount("7.5")}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"x","ano":"2024","mes":"Março","categoria":"Casa","descricao":"Luz","valor":"7.50"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestNormalize(t *testing.T) {
	e := Expense{Year: " 2024 ", Month: "Maio ", Category: " Food", Description: "  x  "}.Normalize()
	if e.Year != "2024" || e.Month != "Maio" || e.Category != "Food" || e.Description != "x" {
		t.Fatalf("unexpected normalized record: %+v", e)
	}
}
