package calculation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
	"github.com/rpgo/investment-calculator/pkg/decimal"
)

// ContributionSchedule maps a zero-based month index (0 = first projection
// month) to the aggregated extra contribution landing in that month.
type ContributionSchedule struct {
	startDate  time.Time
	termMonths int
	amounts    map[int]float64
	total      float64
	rejected   []domain.RejectedEntry
}

// NewContributionSchedule builds a schedule from an already normalized map.
// Indices outside [0, termMonths) are dropped.
func NewContributionSchedule(startDate time.Time, termMonths int, amounts map[int]float64) *ContributionSchedule {
	s := &ContributionSchedule{
		startDate:  dateutil.DateOnly(startDate),
		termMonths: termMonths,
		amounts:    make(map[int]float64, len(amounts)),
	}
	for idx, amt := range amounts {
		if idx < 0 || idx >= termMonths || amt == 0 {
			continue
		}
		s.amounts[idx] = amt
		s.total += amt
	}
	return s
}

// NormalizeContributions resolves raw extra-contribution rows against the
// plan start date. Valid rows are summed per month index; invalid or
// out-of-range rows are returned as diagnostics. Non-positive amounts and
// fully blank rows are skipped without a diagnostic.
func NormalizeContributions(entries []domain.ExtraContributionEntry, startDate time.Time, termMonths int) (*ContributionSchedule, []domain.RejectedEntry) {
	sums := make(map[int]decimal.Money)
	var total decimal.Money
	var rejected []domain.RejectedEntry

	reject := func(i int, e domain.ExtraContributionEntry, reason domain.RejectReason, detail string, monthIndex *int) {
		rejected = append(rejected, domain.RejectedEntry{
			Index:      i,
			Entry:      e,
			Reason:     reason,
			Detail:     detail,
			MonthIndex: monthIndex,
		})
	}

	for i, e := range entries {
		if e.Date.IsBlank() && e.Amount.IsBlank() {
			continue
		}

		date, err := resolveDate(e.Date)
		if err != nil {
			reject(i, e, domain.RejectInvalidDate, err.Error(), nil)
			continue
		}

		amount, err := resolveAmount(e.Amount)
		if err != nil {
			reject(i, e, domain.RejectInvalidAmount, err.Error(), nil)
			continue
		}
		if !amount.IsPositive() {
			continue
		}

		idx := dateutil.MonthsBetween(startDate, date)
		switch {
		case idx < 0:
			reject(i, e, domain.RejectBeforeStart,
				fmt.Sprintf("%s is before plan start %s", date.Format("2006-01-02"), startDate.Format("2006-01-02")), &idx)
			continue
		case idx >= termMonths:
			reject(i, e, domain.RejectAfterTerm,
				fmt.Sprintf("month %d is beyond the %d-month term", idx, termMonths), &idx)
			continue
		}

		next := total.Add(amount)
		if math.IsInf(next.InexactFloat64(), 0) {
			reject(i, e, domain.RejectInvalidAmount,
				fmt.Sprintf("amount %s is out of range", e.Amount.String()), &idx)
			continue
		}
		total = next
		sums[idx] = sums[idx].Add(amount)
	}

	amounts := make(map[int]float64, len(sums))
	for idx, m := range sums {
		amounts[idx] = m.InexactFloat64()
	}
	s := NewContributionSchedule(startDate, termMonths, amounts)
	s.rejected = rejected
	return s, rejected
}

func resolveDate(c domain.DateCell) (time.Time, error) {
	if !c.Time.IsZero() {
		return dateutil.DateOnly(c.Time), nil
	}
	return dateutil.ParseFlexible(c.Text)
}

func resolveAmount(c domain.AmountCell) (decimal.Money, error) {
	if c.Value != nil {
		return decimal.NewMoneyFromDecimal(*c.Value), nil
	}
	return decimal.ParseAmount(c.Text)
}

// Extra returns the extra contribution at a zero-based month index.
func (s *ContributionSchedule) Extra(monthIndex int) float64 {
	if s == nil {
		return 0
	}
	return s.amounts[monthIndex]
}

// Total returns the sum of all scheduled extra contributions.
func (s *ContributionSchedule) Total() float64 {
	if s == nil {
		return 0
	}
	return s.total
}

// Len returns the number of months carrying an extra contribution.
func (s *ContributionSchedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.amounts)
}

// Months returns the month indices with an extra contribution, ascending.
func (s *ContributionSchedule) Months() []int {
	if s == nil {
		return nil
	}
	months := make([]int, 0, len(s.amounts))
	for idx := range s.amounts {
		months = append(months, idx)
	}
	sort.Ints(months)
	return months
}

// Amounts returns a copy of the month index to amount mapping.
func (s *ContributionSchedule) Amounts() map[int]float64 {
	out := make(map[int]float64, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.amounts {
		out[k] = v
	}
	return out
}

func (s *ContributionSchedule) StartDate() time.Time { return s.startDate }
func (s *ContributionSchedule) TermMonths() int      { return s.termMonths }

// Rejected returns the diagnostics produced while normalizing.
func (s *ContributionSchedule) Rejected() []domain.RejectedEntry {
	if s == nil {
		return nil
	}
	return append([]domain.RejectedEntry(nil), s.rejected...)
}
