// Package core holds the expense record, month codec, amount parsing and
// filtering used by every other layer.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal value always carried with two fractional digits.
type Amount struct {
	d decimal.Decimal
}

// ZeroAmount is the value used when stored data cannot be parsed.
var ZeroAmount = Amount{}

// ParseAmount parses a decimal string and fixes it to two places the way
// Number.prototype.toFixed(2) does on the parsed float64, so stored values
// match the ones written by the browser version of the tracker.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Zero and
// negative values are valid; anything that is not a number is rejected.
//
// Examples:
//
//	ParseAmount("10")     -> 10.00
//	ParseAmount("1.005")  -> 1.00 (the float is 1.00499...)
//	ParseAmount("0.125")  -> 0.13
//	ParseAmount("abc")    -> ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	// decimal rejects the NaN, Inf and hex forms ParseFloat would accept.
	if _, err := decimal.NewFromString(s); err != nil {
		return Amount{}, ErrInvalidAmount
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return amountFromFloat(f), nil
}

// amountFromFloat rounds f to cents from its exact binary value. Exact
// half-cent ties only occur when f is a multiple of 1/8; those round away
// from zero like toFixed, where strconv would round to even.
func amountFromFloat(f float64) Amount {
	if scaled := f * 8; scaled == math.Trunc(scaled) {
		return Amount{d: decimal.NewFromFloat(f).Round(2)}
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', 2, 64))
	if err != nil {
		return ZeroAmount
	}
	return Amount{d: d}
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) IsPositive() bool { return a.d.IsPositive() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// String renders the amount fixed to two decimals ("10.00").
func (a Amount) String() string {
	return a.d.StringFixed(2)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a quoted decimal and a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
