package querybuild

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"docket/internal/core/queryspec"
)

// Queries is a compiled data+count pair. Both statements share the same
// WHERE clause; only projection, ordering, and the page window differ
type Queries struct {
	DataSQL   string
	DataArgs  []any
	CountSQL  string
	CountArgs []any
}

// selectColumns is the projection for list queries, in wire order
var selectColumns = []string{
	"id",
	"docket_id",
	"submitter_name",
	"organization",
	"state",
	"stance",
	"themes",
	"comment_text",
	"submitted_at",
}

// Build compiles a spec into the paired data and count statements with
// Postgres placeholders. Filters are compiled in sorted field order so the
// same spec always renders the same SQL
func Build(sch Schema, spec queryspec.Spec) (Queries, error) {
	conds := Conditions(sch, spec)

	data := sq.Select(selectColumns...).
		From(sch.Table).
		PlaceholderFormat(sq.Dollar)
	count := sq.Select("COUNT(*)").
		From(sch.Table).
		PlaceholderFormat(sq.Dollar)

	for _, c := range conds {
		data = data.Where(c)
		count = count.Where(c)
	}

	data = data.OrderBy(orderClauses(sch, spec.Sort)...)

	if spec.Paginated() {
		data = data.
			Limit(uint64(spec.PageSize)).
			Offset(uint64((spec.EffectivePage() - 1) * spec.PageSize))
	}

	var q Queries
	var err error
	if q.DataSQL, q.DataArgs, err = data.ToSql(); err != nil {
		return Queries{}, err
	}
	if q.CountSQL, q.CountArgs, err = count.ToSql(); err != nil {
		return Queries{}, err
	}
	return q, nil
}

// Conditions compiles the spec's filters and search term into the shared
// WHERE conditions, in deterministic order
func Conditions(sch Schema, spec queryspec.Spec) []sq.Sqlizer {
	fields := make([]string, 0, len(spec.Filters))
	for f := range spec.Filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var conds []sq.Sqlizer
	for _, f := range fields {
		conds = append(conds, CompileFilter(sch, f, spec.Filters[f])...)
	}
	if c := CompileSearch(sch, spec.Search, spec.SearchFields); c != nil {
		conds = append(conds, c)
	}
	return conds
}

// orderClauses validates the requested sort against the registry and falls
// back to newest-first. The tiebreak column keeps pagination stable when the
// sort column has duplicates
func orderClauses(sch Schema, s *queryspec.Sort) []string {
	col := sch.sortDefault
	dir := "DESC"

	if s != nil {
		if c, ok := sch.Column(s.Column); ok {
			col = c.Name
			if s.Direction == queryspec.Asc {
				dir = "ASC"
			}
		}
	}

	clauses := []string{col + " " + dir}
	if !strings.EqualFold(col, sch.tieBreak) {
		clauses = append(clauses, sch.tieBreak+" "+dir)
	}
	return clauses
}
