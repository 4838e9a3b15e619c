package querybuild

import (
	sq "github.com/Masterminds/squirrel"

	"docket/internal/core/queryspec"
)

// StatQuery is one compiled count, labeled with the stance code it measures
// or "" for the unsegmented total
type StatQuery struct {
	Stance string
	SQL    string
	Args   []any
}

// BuildStats compiles the statistics bundle for a spec: a total count plus
// one count per stance code, all sharing the spec's WHERE conditions. The
// stance predicate is appended after the shared conditions so every query
// sees the same filtered population
func BuildStats(sch Schema, spec queryspec.Spec) ([]StatQuery, error) {
	conds := Conditions(sch, spec)

	build := func(stance string) (StatQuery, error) {
		b := sq.Select("COUNT(*)").
			From(sch.Table).
			PlaceholderFormat(sq.Dollar)
		for _, c := range conds {
			b = b.Where(c)
		}
		if stance != "" {
			b = b.Where(sq.Eq{"stance": stance})
		}
		sqlStr, args, err := b.ToSql()
		if err != nil {
			return StatQuery{}, err
		}
		return StatQuery{Stance: stance, SQL: sqlStr, Args: args}, nil
	}

	out := make([]StatQuery, 0, 1+len(StanceCodes()))
	total, err := build("")
	if err != nil {
		return nil, err
	}
	out = append(out, total)

	for _, code := range StanceCodes() {
		q, err := build(code)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
