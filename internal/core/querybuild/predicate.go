package querybuild

import (
	"strings"

	"docket/internal/core/queryspec"
	"docket/internal/platform/logger"

	sq "github.com/Masterminds/squirrel"
)

// CompileFilter turns one (field, value) entry into zero or more boolean
// conditions. Zero conditions means the filter is absent: unknown fields,
// empty values, and unmappable enum labels are skipped, never errors
func CompileFilter(sch Schema, field string, fv queryspec.FilterValue) []sq.Sqlizer {
	col, ok := sch.Column(field)
	if !ok {
		logger.Named("querybuild").Debug().Str("field", field).Msg("unknown filter field skipped")
		return nil
	}
	if fv.Empty() {
		return nil
	}

	// ModeSet on a multi-value column wins over the generic list/scalar rules
	if fv.Kind() == queryspec.KindModeSet && col.Kind == ColMulti {
		return compileModeSet(col, fv)
	}

	if col.Kind == ColEnum {
		return compileStance(col, fv)
	}

	if fv.Kind() == queryspec.KindDateRange {
		return compileDate(col, fv)
	}

	switch fv.Kind() {
	case queryspec.KindList, queryspec.KindModeSet:
		// a ModeSet aimed at a non-multi column degrades to membership
		return compileList(col, fv.Values())
	case queryspec.KindScalar:
		return compileScalar(col, fv.ScalarValue())
	}
	return nil
}

func compileModeSet(col Column, fv queryspec.FilterValue) []sq.Sqlizer {
	vals := nonEmpty(fv.Values())
	if len(vals) == 0 {
		return nil
	}
	switch fv.Mode() {
	case queryspec.ModeAtLeast:
		// every selected value must appear
		and := make(sq.And, 0, len(vals))
		for _, v := range vals {
			and = append(and, contains(col.Name, v))
		}
		return []sq.Sqlizer{and}
	case queryspec.ModeExact:
		// equality against the serialized set; order-sensitive by contract
		return []sq.Sqlizer{sq.Eq{col.Name: strings.Join(vals, multiSeparator)}}
	default: // includes
		or := make(sq.Or, 0, len(vals))
		for _, v := range vals {
			or = append(or, contains(col.Name, v))
		}
		return []sq.Sqlizer{or}
	}
}

// compileStance maps logical labels to stored codes before comparing.
// Labels that do not map are dropped with a warning rather than rejected
func compileStance(col Column, fv queryspec.FilterValue) []sq.Sqlizer {
	var labels []string
	switch fv.Kind() {
	case queryspec.KindScalar:
		labels = []string{fv.ScalarValue()}
	case queryspec.KindList, queryspec.KindModeSet:
		labels = fv.Values()
	default:
		return nil
	}

	codes := make([]string, 0, len(labels))
	for _, l := range nonEmpty(labels) {
		code, ok := StanceCode(l)
		if !ok {
			logger.Named("querybuild").Warn().Str("stance", l).Msg("unmappable stance label skipped")
			continue
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	if len(codes) == 1 {
		return []sq.Sqlizer{sq.Eq{col.Name: codes[0]}}
	}
	return []sq.Sqlizer{sq.Eq{col.Name: codes}} // IN
}

// compileDate turns a date filter into comparisons on the timestamp column.
// The source system silently dropped these; here a date filter on a
// non-date column is skipped loudly instead
func compileDate(col Column, fv queryspec.FilterValue) []sq.Sqlizer {
	if col.Kind != ColDate {
		logger.Named("querybuild").Warn().Str("column", col.Name).Msg("date filter on non-date column skipped")
		return nil
	}
	mode, start, end := fv.Date()

	// before/after accept a single bound from either slot
	bound := start
	if bound == "" {
		bound = end
	}

	switch mode {
	case queryspec.DateExact:
		if bound == "" {
			return nil
		}
		return []sq.Sqlizer{sq.Expr(col.Name+"::date = ?::date", bound)}
	case queryspec.DateBefore:
		if bound == "" {
			return nil
		}
		return []sq.Sqlizer{sq.Expr(col.Name+" < ?::date", bound)}
	case queryspec.DateAfter:
		if bound == "" {
			return nil
		}
		return []sq.Sqlizer{sq.Expr(col.Name+" > ?::date", bound)}
	case queryspec.DateSpan:
		var conds []sq.Sqlizer
		if start != "" {
			conds = append(conds, sq.Expr(col.Name+" >= ?::date", start))
		}
		if end != "" {
			conds = append(conds, sq.Expr(col.Name+" <= ?::date", end))
		}
		return conds
	}
	return nil
}

func compileList(col Column, vals []string) []sq.Sqlizer {
	vals = nonEmpty(vals)
	if len(vals) == 0 {
		// an empty list is a filter that is not applied, never IN ()
		return nil
	}
	if col.Kind == ColText {
		or := make(sq.Or, 0, len(vals))
		for _, v := range vals {
			or = append(or, contains(col.Name, v))
		}
		return []sq.Sqlizer{or}
	}
	return []sq.Sqlizer{sq.Eq{col.Name: vals}}
}

func compileScalar(col Column, v string) []sq.Sqlizer {
	if col.Kind == ColText {
		return []sq.Sqlizer{contains(col.Name, v)}
	}
	return []sq.Sqlizer{sq.Eq{col.Name: v}}
}

// contains is a case-insensitive substring match
func contains(col, v string) sq.Sqlizer {
	return sq.ILike{col: "%" + escapeLike(v) + "%"}
}

// escapeLike neutralizes LIKE metacharacters in user input
func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
