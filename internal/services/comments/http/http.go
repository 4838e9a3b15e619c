// Package http provides http transport for comments
package http

import (
	stdhttp "net/http"

	"docket/internal/core/queryspec"
	phttp "docket/internal/platform/net/http"
	"docket/internal/services/comments/domain"
)

// Register mounts the comments endpoints on the given router
func Register(r phttp.Router, s domain.QueryPort) {
	h := &handlers{svc: s}

	// list via serialized URL parameters (filter_<field>=..., search, sort, page)
	phttp.GetJSON(r, "/", h.list)

	// list via a structured JSON body
	phttp.PostJSON[domain.QueryInput](r, "/query", h.query)

	// per-stance counts over the same filter surface
	phttp.GetJSON(r, "/stats", h.stats)
}

type handlers struct{ svc domain.QueryPort }

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	spec := queryspec.FromURL(r.URL.Query())
	return h.svc.List(r.Context(), spec), nil
}

func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.List(r.Context(), in.Spec()), nil
}

func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	spec := queryspec.FromURL(r.URL.Query())
	return h.svc.Stats(r.Context(), spec), nil
}
