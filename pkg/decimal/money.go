package decimal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned by ParseAmount for blank input.
var ErrEmptyAmount = errors.New("empty amount")

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// ParseAmount converts user-entered text such as "₡ 1,250,000.50" or
// "$2_000" into Money. Currency symbols, thousands separators and
// whitespace are stripped before parsing.
func ParseAmount(value string) (Money, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Sc, r), unicode.IsSpace(r):
			return -1
		case r == ',' || r == '_' || r == '\'':
			return -1
		}
		return r
	}, value)
	if cleaned == "" {
		return Money{}, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if math.IsInf(d.InexactFloat64(), 0) {
		return Money{}, fmt.Errorf("invalid amount %q: out of range", value)
	}
	return Money{d}, nil
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// IsPositive checks if the amount is positive
func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

// String returns the string representation with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Grouped renders the amount with comma thousands separators and the given
// number of decimal places, e.g. 1234567.891 -> "1,234,567.89".
func (m Money) Grouped(places int32) string {
	s := m.Decimal.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Format formats the amount with a currency label, e.g. "₡ 253,546".
func (m Money) Format(currency string) string {
	if currency == "" {
		return m.Grouped(0)
	}
	return currency + " " + m.Grouped(0)
}
