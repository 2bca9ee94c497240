package output

import (
	"sort"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName        string
	FinalRealBalance    float64
	AdvantageOverWorst  float64
	PercentageAdvantage float64
}

// AnalyzeScenarios picks the scenario with the highest inflation-adjusted
// final balance and measures its lead over the weakest one.
// Extracted from embedded console logic for testability.
func AnalyzeScenarios(report *domain.ProjectionReport) Recommendation {
	if report == nil || len(report.Scenarios) == 0 {
		return Recommendation{}
	}
	ranks := make([]domain.ScenarioSummary, 0, len(report.Scenarios))
	for _, sc := range report.Scenarios {
		ranks = append(ranks, sc.Summary)
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].FinalRealBalance > ranks[j].FinalRealBalance })

	best, worst := ranks[0], ranks[len(ranks)-1]
	delta := best.FinalRealBalance - worst.FinalRealBalance
	return Recommendation{
		ScenarioName:        best.Name,
		FinalRealBalance:    best.FinalRealBalance,
		AdvantageOverWorst:  delta,
		PercentageAdvantage: domain.SafeRatio(delta, worst.FinalRealBalance) * 100,
	}
}
