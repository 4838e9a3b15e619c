// Package api wires the HTTP surface: the comments read endpoints plus the
// admin cache controls, mounted under a versioned prefix with the common
// middleware stack
package api

import (
	stdhttp "net/http"

	"docket/internal/core/version"
	"docket/internal/modkit/repokit"
	"docket/internal/platform/cache"
	"docket/internal/platform/config"
	perr "docket/internal/platform/errors"
	"docket/internal/platform/logger"
	phttp "docket/internal/platform/net/http"
	"docket/internal/platform/net/middleware"
	"docket/internal/platform/store"
	pstrings "docket/internal/platform/strings"
	commentshttp "docket/internal/services/comments/http"
	commentsrepo "docket/internal/services/comments/repo"
	commentssvc "docket/internal/services/comments/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Cache          *cache.Service
	EnableProfiler bool
}

// Mount assembles the services and mounts them on the given router
func Mount(r phttp.Router, opt Options) {
	ccfg := opt.Config.Prefix("COMMENTS_")
	storage := repokit.MustBind(
		commentsrepo.NewPG(ccfg.MayDuration("QUERY_TIMEOUT", commentsrepo.DefaultQueryTimeout)),
		opt.Store.PG,
	)
	comments := commentssvc.New(storage, opt.Cache, commentssvc.Config{
		ListTTL:  ccfg.MayDuration("LIST_TTL", 0),
		StatsTTL: ccfg.MayDuration("STATS_TTL", 0),
	})

	// the stack goes on the root so the /health heartbeat answers there
	r.Use(middleware.CommonStack()...)

	r.Route(pstrings.MustPrefix("/api/v1"), func(api phttp.Router) {
		phttp.GetJSON(api, "/meta", func(*stdhttp.Request) (any, error) {
			return version.Info(), nil
		})

		api.Route("/comments", func(cr phttp.Router) {
			commentshttp.Register(cr, comments)
		})

		api.Route("/admin", func(ar phttp.Router) {
			registerAdmin(ar, opt.Cache)
		})
	})

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
}

// invalidateInput names the cache tags or exact keys to drop
type invalidateInput struct {
	Tags []string `json:"tags" validate:"omitempty,dive,required"`
	Keys []string `json:"keys" validate:"omitempty,dive,required"`
}

func registerAdmin(r phttp.Router, c *cache.Service) {
	phttp.PostJSON[invalidateInput](r, "/cache/invalidate",
		func(req *stdhttp.Request, in invalidateInput) (any, error) {
			if len(in.Tags) == 0 && len(in.Keys) == 0 {
				return nil, perr.InvalidArgf("at least one tag or key is required")
			}
			dropped := 0
			for _, t := range in.Tags {
				dropped += c.InvalidateTag(t)
			}
			for _, k := range in.Keys {
				c.InvalidateKey(k)
				dropped++
			}
			logger.C(req.Context()).Info().
				Strs("tags", in.Tags).
				Int("dropped", dropped).
				Msg("cache invalidated")
			return struct {
				Dropped int `json:"dropped"`
			}{Dropped: dropped}, nil
		})
}
