package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DateCell is the date column of an extra-contribution row. It holds either
// a native date or the raw text the user typed; the scheduler resolves it.
type DateCell struct {
	Time time.Time
	Text string
}

// DateValue wraps a native date.
func DateValue(t time.Time) DateCell { return DateCell{Time: t} }

// DateText wraps a raw, unparsed date string.
func DateText(s string) DateCell { return DateCell{Text: s} }

// IsBlank reports whether the cell carries neither a date nor text.
func (c DateCell) IsBlank() bool {
	return c.Time.IsZero() && len(bytes.TrimSpace([]byte(c.Text))) == 0
}

func (c DateCell) String() string {
	if !c.Time.IsZero() {
		return c.Time.Format("2006-01-02")
	}
	return c.Text
}

func (c DateCell) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *DateCell) UnmarshalJSON(data []byte) error {
	*c = DateCell{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Text)
	}
	c.Text = string(data)
	return nil
}

func (c DateCell) MarshalYAML() (interface{}, error) { return c.String(), nil }

func (c *DateCell) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	*c = DateCell{Text: value.Value}
	return nil
}

// MarshalTOML writes native dates as TOML local dates and text as a string.
func (c DateCell) MarshalTOML() ([]byte, error) {
	if !c.Time.IsZero() {
		return []byte(c.Time.Format("2006-01-02")), nil
	}
	return []byte(strconv.Quote(c.Text)), nil
}

// UnmarshalTOML accepts TOML dates natively and anything else as text.
func (c *DateCell) UnmarshalTOML(v interface{}) error {
	*c = DateCell{}
	switch t := v.(type) {
	case time.Time:
		c.Time = t
	case string:
		c.Text = t
	default:
		c.Text = fmt.Sprint(t)
	}
	return nil
}

// AmountCell is the amount column of an extra-contribution row: a native
// number or the raw text the user typed.
type AmountCell struct {
	Value *decimal.Decimal
	Text  string
}

// AmountValue wraps a native amount.
func AmountValue(v float64) AmountCell {
	d := decimal.NewFromFloat(v)
	return AmountCell{Value: &d}
}

// AmountText wraps a raw, unparsed amount string.
func AmountText(s string) AmountCell { return AmountCell{Text: s} }

// IsBlank reports whether the cell carries neither a number nor text.
func (c AmountCell) IsBlank() bool {
	return c.Value == nil && len(bytes.TrimSpace([]byte(c.Text))) == 0
}

func (c AmountCell) String() string {
	if c.Value != nil {
		return c.Value.String()
	}
	return c.Text
}

func (c AmountCell) MarshalJSON() ([]byte, error) {
	if c.Value != nil {
		return []byte(c.Value.String()), nil
	}
	return json.Marshal(c.Text)
}

func (c *AmountCell) UnmarshalJSON(data []byte) error {
	*c = AmountCell{}
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &c.Text)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		// Leave malformed numbers for the scheduler to reject per row.
		c.Text = string(data)
		return nil
	}
	c.Value = &d
	return nil
}

func (c AmountCell) MarshalYAML() (interface{}, error) {
	if c.Value != nil {
		return c.Value.InexactFloat64(), nil
	}
	return c.Text, nil
}

func (c *AmountCell) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	*c = AmountCell{}
	if value.Tag == "!!int" || value.Tag == "!!float" {
		if d, err := decimal.NewFromString(value.Value); err == nil {
			c.Value = &d
			return nil
		}
	}
	c.Text = value.Value
	return nil
}

func (c AmountCell) MarshalTOML() ([]byte, error) {
	if c.Value != nil {
		return []byte(c.Value.String()), nil
	}
	return []byte(strconv.Quote(c.Text)), nil
}

func (c *AmountCell) UnmarshalTOML(v interface{}) error {
	*c = AmountCell{}
	switch t := v.(type) {
	case int64:
		d := decimal.NewFromInt(t)
		c.Value = &d
	case float64:
		d := decimal.NewFromFloat(t)
		c.Value = &d
	case string:
		c.Text = t
	default:
		c.Text = fmt.Sprint(t)
	}
	return nil
}

// ExtraContributionEntry is one row of the user-editable extra contributions
// table. Entries are consumed by the scheduler and never mutated.
type ExtraContributionEntry struct {
	Date   DateCell   `yaml:"date" json:"date" toml:"date"`
	Amount AmountCell `yaml:"amount" json:"amount" toml:"amount"`
	Note   string     `yaml:"note,omitempty" json:"note,omitempty" toml:"note,omitempty"`
}

// RejectReason is the diagnostic code attached to a rejected entry.
type RejectReason string

const (
	RejectInvalidDate   RejectReason = "invalid_date"
	RejectInvalidAmount RejectReason = "invalid_amount"
	RejectBeforeStart   RejectReason = "before_start"
	RejectAfterTerm     RejectReason = "after_term"
)

// RejectedEntry records why an extra contribution was left out.
type RejectedEntry struct {
	Index      int                    `json:"index"`
	Entry      ExtraContributionEntry `json:"entry"`
	Reason     RejectReason           `json:"reason"`
	Detail     string                 `json:"detail,omitempty"`
	MonthIndex *int                   `json:"month_index,omitempty"`
}
