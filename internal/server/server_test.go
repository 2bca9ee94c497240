package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/investment-calculator/internal/cache"
	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/domain"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := calculation.NewCachedCalculationEngine(cache.NewMemoryCache(64), calculation.NewSlogLogger(logger))
	s := New(engine, logger, Options{})
	return s, s.Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const projectionBody = `{
	"plan": {
		"currency": "₡",
		"start_date": "2025-01-15",
		"term_years": 1,
		"monthly_contribution": 20000,
		"fee_rate_pct": 0,
		"annual_inflation_pct": 0
	},
	"scenarios": [{"name": "Twelve", "gross_annual_rate_pct": 12}],
	"extra_contributions": [
		{"date": "10/02/2025", "amount": "₡ 5,000"},
		{"date": "2024-12-01", "amount": 100},
		{"date": "2026-01-01", "amount": 100},
		{"date": "2025-03-01", "amount": "n/a"}
	]
}`

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"invcalc"}`, rec.Body.String())
}

func TestCreateProjection(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/projections?ledger=true", projectionBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	var report domain.ProjectionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Scenarios, 1)

	sc := report.Scenarios[0]
	assert.Equal(t, "Twelve", sc.Summary.Name)
	assert.InDelta(t, 240000+5000.0, sc.Summary.TotalContributed, 1e-6)
	assert.Len(t, sc.Result.Ledger, 13)
	assert.Equal(t, report.RunID, rec.Header().Get("X-Run-ID"))

	reasons := []domain.RejectReason{}
	for _, r := range report.RejectedEntries {
		reasons = append(reasons, r.Reason)
	}
	assert.Equal(t, []domain.RejectReason{domain.RejectBeforeStart, domain.RejectAfterTerm, domain.RejectInvalidAmount}, reasons)
}

func TestCreateProjection_DefaultsScenarios(t *testing.T) {
	_, h := newTestServer(t)
	body := `{"plan": {"start_date": "2025-01-01", "term_years": 10, "monthly_contribution": 100}}`
	rec := do(t, h, http.MethodPost, "/api/v1/projections", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report domain.ProjectionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Scenarios, 3)
	assert.Equal(t, "₡", report.Currency)
	assert.Nil(t, report.Scenarios[0].Result.Ledger)
}

func TestCreateProjection_BadRequests(t *testing.T) {
	_, h := newTestServer(t)
	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/api/v1/projections", `{"plan": `},
		{"unknown field", "/api/v1/projections", `{"plan": {"term_years": 1}, "bogus": true}`},
		{"bad ledger flag", "/api/v1/projections?ledger=maybe", projectionBody},
		{"bad start date", "/api/v1/projections", `{"plan": {"start_date": "someday", "term_years": 1, "monthly_contribution": 1}}`},
		{"term too long", "/api/v1/projections", `{"plan": {"start_date": "2025-01-01", "term_years": 90, "monthly_contribution": 1}}`},
		{"nothing invested", "/api/v1/projections", `{"plan": {"start_date": "2025-01-01", "term_years": 5}}`},
		{"unknown fee model", "/api/v1/projections", `{"plan": {"start_date": "2025-01-01", "term_years": 5, "monthly_contribution": 1, "fee_model": "flat"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestNormalizeContributions(t *testing.T) {
	_, h := newTestServer(t)
	body := `{
		"start_date": "2025-01-20",
		"term_months": 12,
		"entries": [
			{"date": "03/04/2025", "amount": 100},
			{"date": "2025-04-30", "amount": "250.50"},
			{"date": "2025-01-01", "amount": 5},
			{"date": "2024-12-31", "amount": 5},
			{"date": "", "amount": ""}
		]
	}`
	rec := do(t, h, http.MethodPost, "/api/v1/contributions/normalize", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []ScheduledContribution{
		{MonthIndex: 0, Month: "2025-01", Amount: 5},
		{MonthIndex: 3, Month: "2025-04", Amount: 350.5},
	}, resp.Contributions)
	assert.InDelta(t, 355.5, resp.Total, 1e-9)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, domain.RejectBeforeStart, resp.Rejected[0].Reason)
	assert.Equal(t, 3, resp.Rejected[0].Index)
}

func TestNormalizeContributions_OverflowingAmount(t *testing.T) {
	_, h := newTestServer(t)
	body := `{
		"start_date": "2025-01-01",
		"term_months": 12,
		"entries": [
			{"date": "2025-02-01", "amount": "1e400"},
			{"date": "2025-03-01", "amount": 1e400},
			{"date": "2025-04-01", "amount": 10}
		]
	}`
	rec := do(t, h, http.MethodPost, "/api/v1/contributions/normalize", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 10.0, resp.Total, 1e-9)
	require.Len(t, resp.Rejected, 2)
	for _, r := range resp.Rejected {
		assert.Equal(t, domain.RejectInvalidAmount, r.Reason)
	}
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"total": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
}

func TestNormalizeContributions_BadRequests(t *testing.T) {
	_, h := newTestServer(t)
	for name, body := range map[string]string{
		"bad date": `{"start_date": "nope", "term_months": 12}`,
		"no term":  `{"start_date": "2025-01-01"}`,
		"too long": `{"start_date": "2025-01-01", "term_months": 601}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/contributions/normalize", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetRebates(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/v1/rebates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RebatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.AgeBands, 5)
	assert.Len(t, resp.BalanceBands, 7)
	assert.Equal(t, 2.5, resp.Rates[1][1])
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projections", nil)
	req.Header.Set("Origin", "https://planner.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodGet, "/health", "")
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invcalc_http_requests_total")
}

func TestListenAndServe_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
