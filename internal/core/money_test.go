package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"10", "10.00", true},
		{"1.0", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.00", true}, // float64 is 1.00499...
		{"1.255", "1.25", true},
		{"2.345", "2.35", true},
		{"8.345", "8.35", true},
		{"12,345", "12.34", true},
		{"0.125", "0.13", true}, // exact tie, away from zero
		{"-0.125", "-0.13", true},
		{"0.375", "0.38", true},
		{"2.675", "2.67", true},
		{" 2.50 ", "2.50", true},
		{"0", "0.00", true},
		{"-12.5", "-12.50", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"0x1p-2", "", false},
		{"1e400", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestAmountAdd(t *testing.T) {
	sum := MustParseAmount("0.1").Add(MustParseAmount("0.2"))
	if sum.String() != "0.30" {
		t.Fatalf("expected 0.30, got %s", sum)
	}
	if ZeroAmount.String() != "0.00" {
		t.Fatalf("expected zero amount to render 0.00, got %s", ZeroAmount)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"12.30"`), &a); err != nil || a.String() != "12.30" {
		t.Fatalf("quoted: got %s err=%v", a, err)
	}
	if err := json.Unmarshal([]byte(`4.5`), &a); err != nil || a.String() != "4.50" {
		t.Fatalf("bare number: got %s err=%v", a, err)
	}
	if err := json.Unmarshal([]byte(`"NaN"`), &a); err == nil {
		t.Fatalf("expected error for NaN")
	}
}
