package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"docket/internal/core/queryspec"
	phttp "docket/internal/platform/net/http"
	"docket/internal/services/comments/domain"
	commentshttp "docket/internal/services/comments/http"
)

// fakePort records the spec it was handed and serves canned results
type fakePort struct {
	lastList  queryspec.Spec
	lastStats queryspec.Spec
	list      domain.ListResult
	stats     domain.StatsResult
}

func (f *fakePort) List(_ context.Context, spec queryspec.Spec) domain.ListResult {
	f.lastList = spec
	return f.list
}

func (f *fakePort) Stats(_ context.Context, spec queryspec.Spec) domain.StatsResult {
	f.lastStats = spec
	return f.stats
}

func newRouter(p *fakePort) http.Handler {
	m := chi.NewRouter()
	commentshttp.Register(phttp.AdaptChi(m), p)
	return m
}

func TestListParsesURLParameters(t *testing.T) {
	p := &fakePort{list: domain.ListResult{Success: true, Data: []domain.Comment{{ID: "c-1"}}, Total: 1}}
	srv := newRouter(p)

	req := httptest.NewRequest(http.MethodGet,
		`/?filter_state=CA&search=solar&page=2&pageSize=10`, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rr.Code, rr.Body.String())
	}
	if p.lastList.Search != "solar" || p.lastList.Page != 2 || p.lastList.PageSize != 10 {
		t.Fatalf("unexpected spec %+v", p.lastList)
	}
	if p.lastList.Filters["state"].ScalarValue() != "CA" {
		t.Fatalf("unexpected filters %+v", p.lastList.Filters)
	}

	var env struct {
		Data domain.ListResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !env.Data.Success || env.Data.Total != 1 {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestQueryParsesJSONBody(t *testing.T) {
	p := &fakePort{list: domain.ListResult{Success: true}}
	srv := newRouter(p)

	body := `{
		"filters": {
			"stance": {"values": ["For"], "mode": "exact"},
			"submitted_at": {"mode": "range", "start": "2026-01-01", "end": "2026-03-31"}
		},
		"search": "solar",
		"page": 1,
		"page_size": 25
	}`
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rr.Code, rr.Body.String())
	}
	stance := p.lastList.Filters["stance"]
	if stance.Kind() != queryspec.KindModeSet || stance.Mode() != queryspec.ModeExact {
		t.Fatalf("unexpected stance filter %+v", stance)
	}
	dr := p.lastList.Filters["submitted_at"]
	if dr.Kind() != queryspec.KindDateRange {
		t.Fatalf("unexpected date filter %+v", dr)
	}
	if p.lastList.PageSize != 25 {
		t.Fatalf("unexpected spec %+v", p.lastList)
	}
}

func TestQueryRejectsMalformedBody(t *testing.T) {
	p := &fakePort{}
	srv := newRouter(p)

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"page":`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestQueryRejectsOversizedPage(t *testing.T) {
	p := &fakePort{}
	srv := newRouter(p)

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"page_size": 5000}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body %s", rr.Code, rr.Body.String())
	}
}

func TestStatsEndpoint(t *testing.T) {
	p := &fakePort{stats: domain.StatsResult{
		Success: true,
		Stats:   domain.Stats{Total: 25, ForCount: 10, AgainstCount: 10, NeutralCount: 5},
	}}
	srv := newRouter(p)

	req := httptest.NewRequest(http.MethodGet, `/stats?filter_state=CA`, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if p.lastStats.Filters["state"].ScalarValue() != "CA" {
		t.Fatalf("unexpected spec %+v", p.lastStats)
	}

	var env struct {
		Data domain.StatsResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Data.Stats.ForCount != 10 {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestDegradedResultStillReturns200(t *testing.T) {
	p := &fakePort{list: domain.ListResult{Data: []domain.Comment{}, Error: "query timed out"}}
	srv := newRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var env struct {
		Data domain.ListResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Data.Success {
		t.Fatal("expected unsuccessful payload")
	}
	if env.Data.Error != "query timed out" {
		t.Fatalf("expected timeout message got %q", env.Data.Error)
	}
}
