package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	money "github.com/rpgo/investment-calculator/pkg/decimal"
)

// FormatCurrency formats an amount rounded to whole units with thousands
// grouping and the plan's currency label, e.g. "₡ 253,546".
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount float64, currency string) string {
	return money.NewMoney(amount).Format(currency)
}

// FormatPercentage formats a percentage with 2 decimals.
func FormatPercentage(pct float64) string { return decimal.NewFromFloat(pct).StringFixed(2) + "%" }

// formatAmount renders a machine-readable amount with 2 decimals for CSV output.
func formatAmount(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }

// formatRate renders a rate or ratio with 6 decimals for CSV output.
func formatRate(v float64) string { return decimal.NewFromFloat(v).StringFixed(6) }

func intToString(i int) string { return strconv.Itoa(i) }
