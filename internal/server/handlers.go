package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// NormalizeRequest asks for an extra-contribution schedule without running
// a projection.
type NormalizeRequest struct {
	StartDate  string                          `json:"start_date"`
	TermMonths int                             `json:"term_months"`
	Entries    []domain.ExtraContributionEntry `json:"entries"`
}

// ScheduledContribution is one month of a normalized schedule.
type ScheduledContribution struct {
	MonthIndex int     `json:"month_index"`
	Month      string  `json:"month"`
	Amount     float64 `json:"amount"`
}

// NormalizeResponse is the normalized schedule plus diagnostics.
type NormalizeResponse struct {
	Contributions []ScheduledContribution `json:"contributions"`
	Total         float64                 `json:"total"`
	Rejected      []domain.RejectedEntry  `json:"rejected"`
}

// RebatesResponse describes the fee-rebate matrix.
type RebatesResponse struct {
	AgeBands      []string    `json:"age_bands"`
	BalanceBands  []string    `json:"balance_bands"`
	AgeBounds     []int       `json:"age_bounds"`
	BalanceBounds []float64   `json:"balance_bounds"`
	Rates         [][]float64 `json:"rates"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "invcalc"})
}

// CreateProjection runs every scenario of the posted configuration.
// ?ledger=true adds the monthly ledger to each scenario.
func (s *Server) CreateProjection(w http.ResponseWriter, r *http.Request) {
	includeLedger := false
	if v := r.URL.Query().Get("ledger"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "ledger must be a boolean")
			return
		}
		includeLedger = b
	}

	var cfg domain.Configuration
	if err := decodeBody(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.parser.ApplyDefaults(&cfg)
	if err := s.parser.ValidateConfiguration(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.engine.RunScenarios(r.Context(), &cfg, includeLedger)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidParameters):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "projection cancelled")
		return
	default:
		s.logger.Error("projection failed", "err", err)
		writeError(w, http.StatusInternalServerError, "projection failed")
		return
	}

	w.Header().Set("X-Run-ID", report.RunID)
	writeJSON(w, http.StatusOK, report)
}

// NormalizeContributions resolves raw extra-contribution rows to month
// indices, returning the schedule and per-row diagnostics.
func (s *Server) NormalizeContributions(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	start, err := dateutil.ParseFlexible(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date: "+err.Error())
		return
	}
	maxMonths := domain.MaxTermYears * 12
	if req.TermMonths < 1 || req.TermMonths > maxMonths {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("term_months must be between 1 and %d", maxMonths))
		return
	}

	schedule, rejected := calculation.NormalizeContributions(req.Entries, start, req.TermMonths)
	resp := NormalizeResponse{
		Contributions: make([]ScheduledContribution, 0, schedule.Len()),
		Total:         schedule.Total(),
		Rejected:      rejected,
	}
	if resp.Rejected == nil {
		resp.Rejected = []domain.RejectedEntry{}
	}
	for _, idx := range schedule.Months() {
		resp.Contributions = append(resp.Contributions, ScheduledContribution{
			MonthIndex: idx,
			Month:      dateutil.AddMonths(dateutil.BeginningOfMonth(start), idx).Format("2006-01"),
			Amount:     schedule.Extra(idx),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRebates returns the fee-rebate matrix the rebate fee model uses.
func (s *Server) GetRebates(w http.ResponseWriter, r *http.Request) {
	m := s.engine.Rebates
	if m == nil {
		m = calculation.DefaultRebateMatrix()
	}
	writeJSON(w, http.StatusOK, RebatesResponse{
		AgeBands:      m.AgeLabels(),
		BalanceBands:  m.BalanceLabels(),
		AgeBounds:     m.AgeBounds,
		BalanceBounds: m.BalanceBounds,
		Rates:         m.Rates,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("response encoding failed", "err", err)
		status = http.StatusInternalServerError
		body = []byte(`{"status":500,"message":"response encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}
