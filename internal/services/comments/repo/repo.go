// Package repo provides the comments repository implementation
package repo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"docket/internal/core/querybuild"
	"docket/internal/core/queryspec"
	"docket/internal/modkit/repokit"
	perr "docket/internal/platform/errors"
	"docket/internal/platform/store"
	"docket/internal/services/comments/domain"
)

// DefaultQueryTimeout bounds a single read when no override is configured
const DefaultQueryTimeout = 30 * time.Second

// Storage defines the comments repository
type Storage interface {
	List(ctx context.Context, spec queryspec.Spec) ([]domain.Comment, int64, error)
	Stats(ctx context.Context, spec queryspec.Spec) (domain.Stats, error)
}

type (
	pg struct {
		q       repokit.Queryer
		sch     querybuild.Schema
		timeout time.Duration
	}
	binder struct{ timeout time.Duration }
)

// NewPG constructs a repo binder for Postgres. Every statement bound through
// it runs under the given deadline; zero means no deadline
func NewPG(timeout time.Duration) repokit.Binder[Storage] { return binder{timeout: timeout} }

// Bind implements repokit.Binder
func (b binder) Bind(q repokit.Queryer) Storage {
	return &pg{q: q, sch: querybuild.Comments(), timeout: b.timeout}
}

func (s *pg) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// List implements Storage. The data and count statements share one deadline:
// if either overruns, the whole read fails as a timeout
func (s *pg) List(ctx context.Context, spec queryspec.Spec) ([]domain.Comment, int64, error) {
	q, err := querybuild.Build(s.sch, spec)
	if err != nil {
		return nil, 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "query compilation failed")
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	out, err := store.Many(ctx, s.q, scanComment, q.DataSQL, q.DataArgs...)
	if err != nil {
		return nil, 0, perr.FromPg(err)
	}
	if out == nil {
		out = []domain.Comment{}
	}

	crows, err := s.q.Query(ctx, q.CountSQL, q.CountArgs...)
	if err != nil {
		return nil, 0, perr.FromPg(err)
	}
	total, err := querybuild.CountFromRows(crows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats implements Storage. The total and per-stance counts run concurrently
// under one shared deadline; the first failure cancels the rest
func (s *pg) Stats(ctx context.Context, spec queryspec.Spec) (domain.Stats, error) {
	qs, err := querybuild.BuildStats(s.sch, spec)
	if err != nil {
		return domain.Stats{}, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "stats compilation failed")
	}

	ctx, cancel := s.deadline(ctx)
	defer cancel()

	counts := make([]int64, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sq := range qs {
		g.Go(func() error {
			rows, err := s.q.Query(gctx, sq.SQL, sq.Args...)
			if err != nil {
				return perr.FromPg(err)
			}
			n, err := querybuild.CountFromRows(rows)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}

	var st domain.Stats
	for i, sq := range qs {
		switch sq.Stance {
		case "":
			st.Total = counts[i]
		case querybuild.StanceFor:
			st.ForCount = counts[i]
		case querybuild.StanceAgainst:
			st.AgainstCount = counts[i]
		case querybuild.StanceNeutral:
			st.NeutralCount = counts[i]
		}
	}
	return st, nil
}

// scanComment maps one projected row, tolerating NULLs in the optional columns
func scanComment(r store.Row) (domain.Comment, error) {
	var c domain.Comment
	var org, state, stance, themes *string
	if err := r.Scan(
		&c.ID, &c.DocketID, &c.SubmitterName, &org, &state,
		&stance, &themes, &c.CommentText, &c.SubmittedAt,
	); err != nil {
		return domain.Comment{}, err
	}
	c.Organization = deref(org)
	c.State = deref(state)
	c.Stance = deref(stance)
	c.Themes = deref(themes)
	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
