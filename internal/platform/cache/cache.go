// Package cache provides an in-process read-through cache with TTL expiry,
// tag-based bulk invalidation, and single-flight recompute sharing.
//
// The service is constructor-injected (no package singleton) so tests can run
// isolated instances; Shutdown stops the janitor and turns the cache into a
// pass-through
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ComputeFn produces the value for a key on a cache miss
type ComputeFn func(ctx context.Context) (any, error)

// entry is immutable once stored; refresh replaces it wholesale
type entry struct {
	value     any
	tags      []string
	expiresAt time.Time
}

func (e entry) live(now time.Time) bool { return now.Before(e.expiresAt) }

// Service memoizes computations keyed by a canonical string key
type Service struct {
	mu      sync.RWMutex
	entries map[string]entry

	defaultTTL time.Duration
	now        func() time.Time // clock seam for tests
	bypass     bool

	group singleflight.Group

	stopOnce       sync.Once
	stop           chan struct{}
	closed         bool
	startedJanitor bool
}

// Option mutates the Service during New
type Option func(*Service)

// WithClock swaps the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBypass disables memoization entirely; every call recomputes.
// Meant for development and debugging, wired from config not per call site
func WithBypass(b bool) Option {
	return func(s *Service) { s.bypass = b }
}

// WithJanitorInterval overrides how often expired entries are swept
func WithJanitorInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			go s.janitor(d)
			s.startedJanitor = true
		}
	}
}

// New builds a Service with the given default TTL
func New(defaultTTL time.Duration, opts ...Option) *Service {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	s := &Service{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if !s.startedJanitor {
		go s.janitor(defaultTTL)
	}
	return s
}

// GetOrCompute returns the live cached value for key, or invokes fn to
// compute, store, and return it. ttl <= 0 means the service default.
// Concurrent misses on the same key share one fn execution; errors are
// never cached
func (s *Service) GetOrCompute(
	ctx context.Context,
	key string,
	ttl time.Duration,
	tags []string,
	fn ComputeFn,
) (any, error) {
	if s.bypass || s.isClosed() {
		return fn(ctx)
	}

	if v, ok := s.get(key); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// another flight may have landed while we queued
		if v, ok := s.get(key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		s.put(key, v, ttl, tags)
		return v, nil
	})
	return v, err
}

// Through is a typed convenience over GetOrCompute
func Through[T any](
	s *Service,
	ctx context.Context,
	key string,
	ttl time.Duration,
	tags []string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	v, err := s.GetOrCompute(ctx, key, ttl, tags, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// InvalidateKey drops a single entry if present
func (s *Service) InvalidateKey(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateTag removes every entry whose tag set contains tag.
// Used when the underlying data is known to have changed
func (s *Service) InvalidateTag(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		for _, t := range e.tags {
			if t == tag {
				delete(s.entries, k)
				n++
				break
			}
		}
	}
	return n
}

// Len reports the number of stored entries, expired or not
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Shutdown stops the janitor; later calls compute without caching
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.entries = make(map[string]entry)
		s.mu.Unlock()
		close(s.stop)
	})
}

func (s *Service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Service) get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	now := s.now()
	s.mu.RUnlock()
	if !ok || !e.live(now) {
		return nil, false
	}
	return e.value, true
}

func (s *Service) put(key string, v any, ttl time.Duration, tags []string) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	cp := make([]string, len(tags))
	copy(cp, tags)
	s.mu.Lock()
	if !s.closed {
		s.entries[key] = entry{value: v, tags: cp, expiresAt: s.now().Add(ttl)}
	}
	s.mu.Unlock()
}

// janitor sweeps expired entries so tag sets do not pin dead values
func (s *Service) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			now := s.now()
			s.mu.Lock()
			for k, e := range s.entries {
				if !e.live(now) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
