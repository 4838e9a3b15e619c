package querybuild

import (
	"strconv"
	"strings"

	perr "docket/internal/platform/errors"
	"docket/internal/platform/logger"
	"docket/internal/platform/store"
)

// countColumns are the column names recognized as carrying a count, in
// preference order. When none match, the first column is used
var countColumns = []string{"count", "total", "cnt", "n"}

// CountFromRows extracts a single scalar count from a result set, tolerant
// of driver differences in column naming and numeric width. An empty result
// set is zero, not an error
func CountFromRows(rows store.Rows) (int64, error) {
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, perr.FromPg(err)
		}
		return 0, nil
	}

	cols := rows.Columns()
	idx := countIndex(cols)

	dest := make([]any, len(cols))
	for i := range dest {
		var v any
		dest[i] = &v
	}
	if len(dest) == 0 {
		return 0, nil
	}
	if err := rows.Scan(dest...); err != nil {
		return 0, perr.FromPg(err)
	}
	if err := rows.Err(); err != nil {
		return 0, perr.FromPg(err)
	}

	return coerceCount(*dest[idx].(*any)), nil
}

// countIndex picks the column holding the count
func countIndex(cols []string) int {
	for _, want := range countColumns {
		for i, c := range cols {
			if strings.EqualFold(strings.TrimSpace(c), want) {
				return i
			}
		}
	}
	return 0
}

// coerceCount normalizes the values drivers hand back for COUNT(*).
// Values it cannot read collapse to zero rather than failing the read
func coerceCount(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case uint64:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			logger.Named("querybuild").Warn().Str("value", t).Msg("non-numeric count treated as zero")
			return 0
		}
		return n
	case []byte:
		return coerceCount(string(t))
	default:
		logger.Named("querybuild").Warn().Type("type", v).Msg("unreadable count treated as zero")
		return 0
	}
}
