package calculation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/internal/metrics"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// ProjectionOptions selects the projection variant.
type ProjectionOptions struct {
	// Rebates switches to the rebate-matrix fee model when non-nil.
	Rebates *RebateMatrix
	// IncludeLedger requests one MonthlyLedgerRow per month.
	IncludeLedger bool
}

// FeeModel reports which fee model the options select.
func (o ProjectionOptions) FeeModel() domain.FeeModel {
	if o.Rebates != nil {
		return domain.FeeModelRebate
	}
	return domain.FeeModelSimple
}

// Projector runs a single projection.
type Projector interface {
	Project(ctx context.Context, params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (*domain.ProjectionResult, error)
}

// PureProjector calls Project directly and records metrics.
type PureProjector struct{}

func (PureProjector) Project(_ context.Context, params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (*domain.ProjectionResult, error) {
	start := time.Now()
	res, err := Project(params, schedule, opts)
	if err != nil {
		return nil, err
	}
	metrics.ProjectionsTotal.WithLabelValues(string(opts.FeeModel())).Inc()
	metrics.ProjectionDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

// MonthlyRate converts an annual effective rate in percent into the
// equivalent monthly effective rate (as a fraction).
func MonthlyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/12) - 1
}

// NetAnnualRate returns the gross rate reduced by the fee share, both in percent.
func NetAnnualRate(grossAnnualRatePct, feeRatePct float64) float64 {
	return grossAnnualRatePct * (1 - feeRatePct/100)
}

// RealAnnualRate deflates a nominal annual rate by inflation (Fisher), in percent.
func RealAnnualRate(nominalPct, inflationPct float64) float64 {
	return ((1+nominalPct/100)/(1+inflationPct/100) - 1) * 100
}

// Project runs the month-by-month projection. It is a pure function of its
// arguments: identical inputs yield bit-identical series. Parameters that
// violate the engine preconditions return an error wrapping
// domain.ErrInvalidParameters before any month is computed.
//
// A nil schedule means no extra contributions.
func Project(params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (*domain.ProjectionResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := params.TermMonths()
	if schedule != nil {
		if schedule.TermMonths() != n {
			return nil, fmt.Errorf("%w: contribution schedule covers %d months, projection has %d",
				domain.ErrInvalidParameters, schedule.TermMonths(), n)
		}
		if dateutil.MonthsBetween(schedule.StartDate(), params.StartDate) != 0 {
			return nil, fmt.Errorf("%w: contribution schedule starts %s, projection starts %s",
				domain.ErrInvalidParameters, schedule.StartDate().Format("2006-01"), params.StartDate.Format("2006-01"))
		}
	}
	if opts.Rebates != nil {
		if err := opts.Rebates.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidParameters, err)
		}
	}

	fee := params.FeeRatePct / 100
	monthlyGross := MonthlyRate(params.GrossAnnualRatePct)
	monthlyNet := MonthlyRate(NetAnnualRate(params.GrossAnnualRatePct, params.FeeRatePct))
	inflationFactor := 1 + MonthlyRate(params.AnnualInflationPct)

	nominal := make([]float64, n+1)
	deflated := make([]float64, n+1)
	cumulative := make([]float64, n+1)
	nominal[0] = params.InitialBalance
	deflated[0] = params.InitialBalance
	cumulative[0] = params.InitialBalance

	var ledger []domain.MonthlyLedgerRow
	if opts.IncludeLedger {
		ledger = make([]domain.MonthlyLedgerRow, 0, n+1)
		ledger = append(ledger, domain.MonthlyLedgerRow{
			MonthIndex:                 0,
			Date:                       dateutil.DateOnly(params.StartDate),
			OpeningBalance:             params.InitialBalance,
			TotalContributionThisMonth: params.InitialBalance,
			ClosingBalance:             params.InitialBalance,
			RealBalance:                params.InitialBalance,
		})
	}

	for i := 1; i <= n; i++ {
		opening := nominal[i-1]
		contribution := params.MonthlyContribution + schedule.Extra(i-1)

		var row domain.MonthlyLedgerRow
		row.GrossReturn = opening * monthlyGross
		if opts.Rebates == nil {
			row.NetReturn = opening * monthlyNet
			row.GrossFee = row.GrossReturn - row.NetReturn
			row.NetFee = row.GrossFee
		} else {
			row.GrossFee = row.GrossReturn * fee
			row.RebatePct = opts.Rebates.Lookup(i, opening)
			row.RebateAmount = row.GrossFee * row.RebatePct / 100
			row.NetFee = row.GrossFee - row.RebateAmount
			row.NetReturn = row.GrossReturn - row.NetFee
		}

		closing := opening + row.NetReturn + contribution
		nominal[i] = closing
		cumulative[i] = cumulative[i-1] + contribution
		deflated[i] = closing / math.Pow(inflationFactor, float64(i))

		if opts.IncludeLedger {
			row.MonthIndex = i
			row.Date = dateutil.AddMonths(dateutil.DateOnly(params.StartDate), i)
			row.OpeningBalance = opening
			row.TotalContributionThisMonth = contribution
			row.ClosingBalance = closing
			row.RealBalance = deflated[i]
			ledger = append(ledger, row)
		}
	}

	return &domain.ProjectionResult{
		NominalSeries:                nominal,
		RealSeries:                   deflated,
		CumulativeContributionSeries: cumulative,
		FinalNominalBalance:          nominal[n],
		FinalRealBalance:             deflated[n],
		TotalContributed:             cumulative[n],
		RejectedEntries:              schedule.Rejected(),
		Ledger:                       ledger,
	}, nil
}
