package queryspec

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// filterParamPrefix marks URL parameters that carry a field filter,
// e.g. filter_stance={"values":["For"],"mode":"exact"}
const filterParamPrefix = "filter_"

// FromURL builds a Spec from serialized URL query parameters.
// Unknown parameters are ignored; malformed JSON in a filter value falls
// back to treating it as a raw string scalar
func FromURL(v url.Values) Spec {
	s := Spec{}

	for key := range v {
		if !strings.HasPrefix(key, filterParamPrefix) {
			continue
		}
		field := strings.TrimPrefix(key, filterParamPrefix)
		if field == "" {
			continue
		}
		fv := ParseValue(v.Get(key))
		if fv.Kind() == KindInvalid {
			continue
		}
		if s.Filters == nil {
			s.Filters = make(map[string]FilterValue)
		}
		s.Filters[field] = fv
	}

	s.Search = strings.TrimSpace(v.Get("search"))
	if sf := strings.TrimSpace(v.Get("searchFields")); sf != "" {
		for _, f := range strings.Split(sf, ",") {
			if f = strings.TrimSpace(f); f != "" {
				s.SearchFields = append(s.SearchFields, f)
			}
		}
	}

	if col := strings.TrimSpace(v.Get("sort")); col != "" {
		dir := Desc
		if strings.EqualFold(v.Get("sortDirection"), string(Asc)) {
			dir = Asc
		}
		s.Sort = &Sort{Column: col, Direction: dir}
	}

	s.Page = atoiOrZero(v.Get("page"))
	s.PageSize = atoiOrZero(v.Get("pageSize"))
	return s
}

// ParseValue interprets one filter parameter: JSON when it parses as JSON,
// a raw string scalar otherwise
func ParseValue(raw string) FilterValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FilterValue{}
	}
	if json.Valid([]byte(trimmed)) {
		switch trimmed[0] {
		case '{', '[', '"':
			return ParseJSONValue([]byte(trimmed))
		}
		// bare numbers and booleans filter as their literal text
	}
	return Scalar(trimmed)
}

// ParseJSONValue maps a JSON payload onto the FilterValue union.
// Shapes it does not recognize produce KindInvalid, which compiles to no
// condition downstream
func ParseJSONValue(b []byte) FilterValue {
	b = []byte(strings.TrimSpace(string(b)))
	if len(b) == 0 || string(b) == "null" {
		return FilterValue{}
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return FilterValue{}
		}
		return Scalar(s)

	case '[':
		vs, ok := stringList(b)
		if !ok {
			return FilterValue{}
		}
		return List(vs...)

	case '{':
		var w filterWire
		if err := json.Unmarshal(b, &w); err != nil {
			return FilterValue{}
		}
		if w.Scalar != nil {
			return Scalar(*w.Scalar)
		}
		if w.List != nil {
			return List(w.List...)
		}
		if dm, ok := dateMode(w.Mode); ok && (w.Start != "" || w.End != "" || len(w.Values) == 0) {
			return DateRange(dm, w.Start, w.End)
		}
		if len(w.Values) > 0 {
			m, ok := setMode(w.Mode)
			if !ok {
				m = ModeIncludes
			}
			return ModeSet(w.Values, m)
		}
		return FilterValue{}

	default:
		// bare JSON number or boolean, filter on its literal text
		return Scalar(string(b))
	}
}

// stringList decodes a JSON array, stringifying numeric elements
func stringList(b []byte) ([]string, bool) {
	var anyVals []any
	if err := json.Unmarshal(b, &anyVals); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(anyVals))
	for _, v := range anyVals {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(t))
		default:
			return nil, false
		}
	}
	return out, true
}

func setMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeIncludes:
		return ModeIncludes, true
	case ModeAtLeast:
		return ModeAtLeast, true
	case ModeExact:
		return ModeExact, true
	}
	return "", false
}

func dateMode(s string) (DateMode, bool) {
	switch DateMode(strings.ToLower(strings.TrimSpace(s))) {
	case DateSpan:
		return DateSpan, true
	case DateBefore:
		return DateBefore, true
	case DateAfter:
		return DateAfter, true
	}
	// "exact" is shared with ModeExact; it only reads as a date mode when
	// the payload carries start/end bounds instead of values
	if strings.EqualFold(strings.TrimSpace(s), string(DateExact)) {
		return DateExact, true
	}
	return "", false
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
