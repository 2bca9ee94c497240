package output

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{252929.958, "₡", "₡ 252,930"},
		{1234.4, "$", "$ 1,234"},
		{999, "", "999"},
		{0, "€", "€ 0"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatCurrency(%v, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got, want := FormatPercentage(12.3456), "12.35%"; got != want {
		t.Errorf("FormatPercentage = %q, want %q", got, want)
	}
}

func TestCSVHelpers(t *testing.T) {
	if got, want := formatAmount(1234.567), "1234.57"; got != want {
		t.Errorf("formatAmount = %q, want %q", got, want)
	}
	if got, want := formatRate(0.5), "0.500000"; got != want {
		t.Errorf("formatRate = %q, want %q", got, want)
	}
	if got, want := intToString(42), "42"; got != want {
		t.Errorf("intToString(42) = %q, want %q", got, want)
	}
}
