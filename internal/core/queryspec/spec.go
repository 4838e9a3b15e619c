// Package queryspec defines the declarative query specification the compiler
// consumes: field filters, free-text search, sort, and pagination.
//
// A Spec is built once at the boundary (URL parameters or a JSON body) and is
// immutable from the compiler's point of view; its canonical serialization
// doubles as the cache key
package queryspec

import (
	"encoding/json"
	"strings"
)

// Mode is the combination semantics for a multi-valued categorical filter
type Mode string

// Modes for ModeSet filters
const (
	ModeIncludes Mode = "includes" // any-of, OR
	ModeAtLeast  Mode = "at_least" // all-of, AND
	ModeExact    Mode = "exact"    // serialized equality, order-sensitive
)

// DateMode selects the comparison shape for a date filter
type DateMode string

// Date filter modes
const (
	DateExact  DateMode = "exact"
	DateSpan   DateMode = "range"
	DateBefore DateMode = "before"
	DateAfter  DateMode = "after"
)

// Kind tags the FilterValue union
type Kind int

// FilterValue kinds; KindInvalid compiles to no condition
const (
	KindInvalid Kind = iota
	KindScalar
	KindList
	KindModeSet
	KindDateRange
)

// FilterValue is a tagged union of the supported filter payload shapes
type FilterValue struct {
	kind     Kind
	scalar   string
	values   []string
	mode     Mode
	dateMode DateMode
	start    string
	end      string
}

// Scalar builds an equality / substring filter value
func Scalar(v string) FilterValue { return FilterValue{kind: KindScalar, scalar: v} }

// List builds a membership filter value
func List(vs ...string) FilterValue { return FilterValue{kind: KindList, values: vs} }

// ModeSet builds a multi-value categorical filter with combination semantics
func ModeSet(vs []string, mode Mode) FilterValue {
	return FilterValue{kind: KindModeSet, values: vs, mode: mode}
}

// DateRange builds a date comparison filter; start/end are ISO dates, either may be empty
func DateRange(mode DateMode, start, end string) FilterValue {
	return FilterValue{kind: KindDateRange, dateMode: mode, start: start, end: end}
}

// Kind returns the union tag
func (f FilterValue) Kind() Kind { return f.kind }

// ScalarValue returns the scalar payload
func (f FilterValue) ScalarValue() string { return f.scalar }

// Values returns the list/modeset payload
func (f FilterValue) Values() []string { return f.values }

// Mode returns the modeset combination mode
func (f FilterValue) Mode() Mode { return f.mode }

// Date returns the date mode and bounds
func (f FilterValue) Date() (DateMode, string, string) { return f.dateMode, f.start, f.end }

// Empty reports whether the value carries nothing to filter on.
// An empty value means the filter is absent, never "match nothing"
func (f FilterValue) Empty() bool {
	switch f.kind {
	case KindScalar:
		return strings.TrimSpace(f.scalar) == ""
	case KindList, KindModeSet:
		for _, v := range f.values {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	case KindDateRange:
		return f.start == "" && f.end == ""
	default:
		return true
	}
}

// filterWire is the canonical JSON shape, shared by MarshalJSON and the
// boundary parsers so URL and body payloads land on the same union
type filterWire struct {
	Scalar *string  `json:"scalar,omitempty"`
	List   []string `json:"list,omitempty"`
	Values []string `json:"values,omitempty"`
	Mode   string   `json:"mode,omitempty"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
}

// MarshalJSON emits a deterministic kind-tagged shape
func (f FilterValue) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case KindScalar:
		s := f.scalar
		return json.Marshal(filterWire{Scalar: &s})
	case KindList:
		return json.Marshal(filterWire{List: f.values})
	case KindModeSet:
		return json.Marshal(filterWire{Values: f.values, Mode: string(f.mode)})
	case KindDateRange:
		return json.Marshal(filterWire{Mode: string(f.dateMode), Start: f.start, End: f.end})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the loose shapes clients actually send: a bare
// string, an array of strings, an object with values+mode, or an object
// with a date mode and start/end. Unrecognized shapes become KindInvalid
// rather than errors, per the boundary policy of ignoring what we do not
// understand
func (f *FilterValue) UnmarshalJSON(b []byte) error {
	*f = ParseJSONValue(b)
	return nil
}

// Direction is a sort direction
type Direction string

// Sort directions
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names a column and direction for ordering
type Sort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Spec is the full query specification. Treated as immutable once handed
// to the compiler
type Spec struct {
	Filters      map[string]FilterValue `json:"filters,omitempty"`
	Search       string                 `json:"search,omitempty"`
	SearchFields []string               `json:"search_fields,omitempty"`
	Sort         *Sort                  `json:"sort,omitempty"`
	Page         int                    `json:"page,omitempty"`
	PageSize     int                    `json:"page_size,omitempty"`
}

// Paginated reports whether a page window applies
func (s Spec) Paginated() bool { return s.PageSize >= 1 }

// EffectivePage returns the 1-based page, defaulting to 1
func (s Spec) EffectivePage() int {
	if s.Page >= 1 {
		return s.Page
	}
	return 1
}

// CacheKey returns prefix plus the canonical serialization of the spec.
// encoding/json sorts map keys, so equal specs always produce equal keys
func (s Spec) CacheKey(prefix string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Spec contains only marshalable fields; this cannot happen in practice
		return prefix + "unserializable"
	}
	return prefix + string(b)
}
