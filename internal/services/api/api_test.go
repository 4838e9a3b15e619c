package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"docket/internal/platform/cache"
	"docket/internal/platform/config"
	phttp "docket/internal/platform/net/http"
	"docket/internal/platform/store"
	"docket/internal/services/api"
)

// emptyRows is a result set with no rows
type emptyRows struct{ cols []string }

func (emptyRows) Next() bool          { return false }
func (emptyRows) Scan(...any) error   { return nil }
func (emptyRows) Err() error          { return nil }
func (emptyRows) Close()              {}
func (e emptyRows) Columns() []string { return e.cols }

// stubPG satisfies store.TxRunner with empty results
type stubPG struct{}

func (stubPG) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }

func (stubPG) Query(_ context.Context, sql string, _ ...any) (store.Rows, error) {
	if strings.Contains(sql, "COUNT(*)") {
		return emptyRows{cols: []string{"count"}}, nil
	}
	return emptyRows{}, nil
}

func (stubPG) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (s stubPG) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(s) }

func mount(t *testing.T) http.Handler {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Shutdown)

	m := chi.NewRouter()
	api.Mount(phttp.AdaptChi(m), api.Options{
		Config: config.New(),
		Store:  &store.Store{PG: stubPG{}},
		Cache:  c,
	})
	return m
}

func TestHealthHeartbeat(t *testing.T) {
	srv := mount(t)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestMetaReportsBuildInfo(t *testing.T) {
	srv := mount(t)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/meta", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Service string `json:"service"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Data.Service != "docket-api" {
		t.Fatalf("unexpected service %q", env.Data.Service)
	}
}

func TestCommentsListThroughTheFullStack(t *testing.T) {
	srv := mount(t)

	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/comments?filter_state=CA", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header from the stack")
	}
	var env struct {
		Data struct {
			Success bool  `json:"success"`
			Total   int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !env.Data.Success || env.Data.Total != 0 {
		t.Fatalf("unexpected payload %+v", env.Data)
	}
}

func TestAdminInvalidateRequiresTagsOrKeys(t *testing.T) {
	srv := mount(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/invalidate",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body %s", rr.Code, rr.Body.String())
	}
}

func TestAdminInvalidateDropsTaggedEntries(t *testing.T) {
	c := cache.New(time.Minute)
	t.Cleanup(c.Shutdown)

	if _, err := c.GetOrCompute(context.Background(), "k", 0, []string{"comments"},
		func(context.Context) (any, error) { return 1, nil }); err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := chi.NewRouter()
	api.Mount(phttp.AdaptChi(m), api.Options{
		Config: config.New(),
		Store:  &store.Store{PG: stubPG{}},
		Cache:  c,
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/invalidate",
		strings.NewReader(`{"tags":["comments"]}`))
	req.Header.Set("Content-Type", "application/json")
	m.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", rr.Code, rr.Body.String())
	}
	if c.Len() != 0 {
		t.Fatalf("expected entry dropped got %d", c.Len())
	}
	var env struct {
		Data struct {
			Dropped int `json:"dropped"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Data.Dropped != 1 {
		t.Fatalf("expected 1 dropped got %d", env.Data.Dropped)
	}
}
