package querybuild

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"docket/internal/platform/logger"
	pstrings "docket/internal/platform/strings"
)

// CompileSearch turns a free-text term into a single OR condition across the
// searchable text columns. An empty term compiles to nothing. Requested
// fields are validated against the registry; fields that are unknown or not
// text are dropped, and when nothing survives the default set applies
func CompileSearch(sch Schema, term string, fields []string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	cols := searchColumns(sch, fields)
	if len(cols) == 0 {
		return nil
	}

	or := make(sq.Or, 0, len(cols))
	for _, c := range cols {
		or = append(or, contains(c, term))
	}
	return or
}

func searchColumns(sch Schema, fields []string) []string {
	if len(fields) == 0 {
		return sch.SearchDefault()
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := sch.Column(f)
		if !ok || col.Kind != ColText {
			logger.Named("querybuild").Debug().Str("field", f).Msg("unsearchable field dropped")
			continue
		}
		out = append(out, col.Name)
	}
	if len(out) == 0 {
		return sch.SearchDefault()
	}
	return pstrings.Dedup(out)
}
