// Package core holds the expense domain model and the pure aggregation
// functions derived from it.
//
// This file contains money parsing and formatting. Amounts are stored as
// integer cents to keep arithmetic exact; the decimal form only appears at
// the edges (JSON snapshot, API payloads, AI responses).
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a non-negative amount in cents.
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Zero is a valid amount; negative values are not.
//
// Examples:
//
//	ParseDecimalToCents("45.50") -> 4550, nil
//	ParseDecimalToCents("45,50") -> 4550, nil
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Sign prefixes are rejected outright, amounts are unsigned.
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// CentsFromFloat converts a decimal amount (as decoded from JSON) to cents
// with half-up rounding. Negative values are invalid.
func CentsFromFloat(v float64) (int64, error) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Floor(v*100 + 0.5)), nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Amount returns the decimal value for display. Use cents for arithmetic.
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the canonical two-decimal form, e.g. "45.50".
func (m Money) String() string {
	neg := ""
	c := m.Cents
	if c < 0 {
		neg = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", neg, c/100, c%100)
}

// MarshalJSON emits the amount as a plain decimal number, the format the
// persisted snapshot and the AI wire contract use. Whole amounts are emitted
// without a fractional part ("1200", not "1200.00").
func (m Money) MarshalJSON() ([]byte, error) {
	if m.Cents%100 == 0 {
		return []byte(strconv.FormatInt(m.Cents/100, 10)), nil
	}
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts any JSON number and rounds it to cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := ParseDecimalToCents(string(data))
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
