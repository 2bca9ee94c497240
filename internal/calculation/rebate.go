package calculation

import (
	"fmt"
	"sort"
)

// RebateMatrix maps (account age band, opening balance band) to the share
// of the management fee refunded, in percent.
//
// AgeBounds are inclusive lower bounds in elapsed months; the last band is
// open-ended. BalanceBounds are exclusive upper bounds; balances at or above
// the last bound fall into the final band. Rates has len(AgeBounds) rows of
// len(BalanceBounds)+1 columns.
type RebateMatrix struct {
	AgeBounds     []int       `json:"age_bounds"`
	BalanceBounds []float64   `json:"balance_bounds"`
	Rates         [][]float64 `json:"rates"`
}

var defaultRebateMatrix = &RebateMatrix{
	AgeBounds:     []int{1, 24, 48, 72, 96},
	BalanceBounds: []float64{1_000_000, 2_000_000, 5_000_000, 10_000_000, 50_000_000, 100_000_000},
	Rates: [][]float64{
		{0.00, 1.00, 1.50, 2.00, 2.50, 3.00, 3.50},
		{1.50, 2.50, 3.00, 3.50, 4.00, 4.50, 5.00},
		{2.50, 3.50, 4.00, 4.50, 5.00, 5.50, 6.00},
		{3.50, 4.50, 5.00, 5.50, 6.00, 6.50, 7.00},
		{4.50, 5.50, 6.00, 6.50, 7.00, 7.50, 8.00},
	},
}

// DefaultRebateMatrix returns the shared reference schedule. It must be
// treated as read-only.
func DefaultRebateMatrix() *RebateMatrix { return defaultRebateMatrix }

// Validate checks the band layout is consistent and ordered.
func (m *RebateMatrix) Validate() error {
	if len(m.AgeBounds) == 0 || len(m.BalanceBounds) == 0 {
		return fmt.Errorf("rebate matrix needs at least one age and one balance bound")
	}
	if len(m.Rates) != len(m.AgeBounds) {
		return fmt.Errorf("rebate matrix has %d rate rows for %d age bands", len(m.Rates), len(m.AgeBounds))
	}
	for i := 1; i < len(m.AgeBounds); i++ {
		if m.AgeBounds[i] <= m.AgeBounds[i-1] {
			return fmt.Errorf("age bounds must be strictly increasing")
		}
	}
	for i := 1; i < len(m.BalanceBounds); i++ {
		if m.BalanceBounds[i] <= m.BalanceBounds[i-1] {
			return fmt.Errorf("balance bounds must be strictly increasing")
		}
	}
	for i, row := range m.Rates {
		if len(row) != len(m.BalanceBounds)+1 {
			return fmt.Errorf("rate row %d has %d columns, want %d", i, len(row), len(m.BalanceBounds)+1)
		}
		for _, r := range row {
			if r < 0 || r > 100 {
				return fmt.Errorf("rate row %d holds %g, outside [0, 100]", i, r)
			}
		}
	}
	return nil
}

// AgeBand returns the age band index for an account age in months, or -1
// when the account is younger than the first band.
func (m *RebateMatrix) AgeBand(ageMonths int) int {
	return sort.Search(len(m.AgeBounds), func(i int) bool { return m.AgeBounds[i] > ageMonths }) - 1
}

// BalanceBand returns the balance band index for an opening balance.
func (m *RebateMatrix) BalanceBand(balance float64) int {
	return sort.Search(len(m.BalanceBounds), func(i int) bool { return balance < m.BalanceBounds[i] })
}

// Lookup returns the rebate percentage for the given account age and balance.
func (m *RebateMatrix) Lookup(ageMonths int, balance float64) float64 {
	age := m.AgeBand(ageMonths)
	if age < 0 {
		return 0
	}
	return m.Rates[age][m.BalanceBand(balance)]
}

// AgeLabels describes the age bands, e.g. "[24,48)".
func (m *RebateMatrix) AgeLabels() []string {
	labels := make([]string, len(m.AgeBounds))
	for i, lo := range m.AgeBounds {
		if i == len(m.AgeBounds)-1 {
			labels[i] = fmt.Sprintf("[%d,∞)", lo)
			continue
		}
		labels[i] = fmt.Sprintf("[%d,%d)", lo, m.AgeBounds[i+1])
	}
	return labels
}

// BalanceLabels describes the balance bands, e.g. "<2M" or "≥100M".
func (m *RebateMatrix) BalanceLabels() []string {
	labels := make([]string, 0, len(m.BalanceBounds)+1)
	for _, b := range m.BalanceBounds {
		labels = append(labels, "<"+shortAmount(b))
	}
	return append(labels, "≥"+shortAmount(m.BalanceBounds[len(m.BalanceBounds)-1]))
}

func shortAmount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%gM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%gK", v/1_000)
	default:
		return fmt.Sprintf("%g", v)
	}
}
