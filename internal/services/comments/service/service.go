// Package service provides the comments service implementation
package service

import (
	"context"
	"time"

	"docket/internal/core/queryspec"
	"docket/internal/platform/cache"
	perr "docket/internal/platform/errors"
	"docket/internal/platform/logger"
	"docket/internal/services/comments/domain"
	"docket/internal/services/comments/repo"
)

// Cache key prefixes and tags. The list and stats namespaces are disjoint so
// the same spec caches independently per read shape
const (
	listKeyPrefix  = "comments:list:"
	statsKeyPrefix = "comments:stats:"

	// TagComments covers every cached comments read
	TagComments = "comments"

	// TagStats covers only the statistics reads
	TagStats = "stats"
)

// Config for the comments service
type Config struct {
	ListTTL  time.Duration
	StatsTTL time.Duration
}

// Service implements domain.QueryPort with a read-through cache in front of
// the repository
type Service struct {
	Storage repo.Storage
	Cache   *cache.Service
	Cfg     Config
}

// New constructs a comments service; the cache is required
func New(storage repo.Storage, c *cache.Service, cfg Config) *Service {
	if storage == nil {
		panic("comments service: nil storage")
	}
	if c == nil {
		panic("comments service: nil cache")
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = time.Minute
	}
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = 5 * time.Minute
	}
	return &Service{Storage: storage, Cache: c, Cfg: cfg}
}

// List implements domain.QueryPort. Failures degrade to an unsuccessful
// result with safe defaults; only successful reads enter the cache
func (s *Service) List(ctx context.Context, spec queryspec.Spec) domain.ListResult {
	key := spec.CacheKey(listKeyPrefix)
	res, err := cache.Through(s.Cache, ctx, key, s.Cfg.ListTTL, []string{TagComments},
		func(ctx context.Context) (domain.ListResult, error) {
			data, total, err := s.Storage.List(ctx, spec)
			if err != nil {
				return domain.ListResult{}, err
			}
			r := domain.ListResult{Success: true, Data: data, Total: total}
			if spec.Paginated() {
				r.Page = spec.EffectivePage()
				r.PageSize = spec.PageSize
			}
			return r, nil
		})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("comments list failed")
		return domain.ListResult{Data: []domain.Comment{}, Error: clientMessage(err)}
	}
	return res
}

// Stats implements domain.QueryPort
func (s *Service) Stats(ctx context.Context, spec queryspec.Spec) domain.StatsResult {
	key := spec.CacheKey(statsKeyPrefix)
	res, err := cache.Through(s.Cache, ctx, key, s.Cfg.StatsTTL, []string{TagComments, TagStats},
		func(ctx context.Context) (domain.StatsResult, error) {
			st, err := s.Storage.Stats(ctx, spec)
			if err != nil {
				return domain.StatsResult{}, err
			}
			return domain.StatsResult{Success: true, Stats: st}, nil
		})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("comments stats failed")
		return domain.StatsResult{Error: clientMessage(err)}
	}
	return res
}

// clientMessage reduces an execution error to the safe string clients see
func clientMessage(err error) string {
	if perr.IsTimeout(err) {
		return "query timed out"
	}
	return "query failed"
}
