package queryspec_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/core/queryspec"
)

func TestFromURLFilters(t *testing.T) {
	v := url.Values{}
	v.Set("filter_state", "CA")
	v.Set("filter_stance", `{"values":["For","Against"],"mode":"includes"}`)
	v.Set("filter_themes", `["Safety","Costs"]`)
	v.Set("filter_submitted_at", `{"mode":"range","start":"2026-01-01","end":"2026-03-31"}`)

	s := queryspec.FromURL(v)
	require.Len(t, s.Filters, 4)

	assert.Equal(t, queryspec.KindScalar, s.Filters["state"].Kind())
	assert.Equal(t, "CA", s.Filters["state"].ScalarValue())

	stance := s.Filters["stance"]
	assert.Equal(t, queryspec.KindModeSet, stance.Kind())
	assert.Equal(t, queryspec.ModeIncludes, stance.Mode())
	assert.Equal(t, []string{"For", "Against"}, stance.Values())

	themes := s.Filters["themes"]
	assert.Equal(t, queryspec.KindList, themes.Kind())
	assert.Equal(t, []string{"Safety", "Costs"}, themes.Values())

	dr := s.Filters["submitted_at"]
	assert.Equal(t, queryspec.KindDateRange, dr.Kind())
	mode, start, end := dr.Date()
	assert.Equal(t, queryspec.DateSpan, mode)
	assert.Equal(t, "2026-01-01", start)
	assert.Equal(t, "2026-03-31", end)
}

func TestFromURLMalformedJSONFallsBackToRawScalar(t *testing.T) {
	v := url.Values{}
	v.Set("filter_organization", `{"values":[broken`)

	s := queryspec.FromURL(v)
	require.Len(t, s.Filters, 1)
	fv := s.Filters["organization"]
	assert.Equal(t, queryspec.KindScalar, fv.Kind())
	assert.Equal(t, `{"values":[broken`, fv.ScalarValue())
}

func TestFromURLUnrecognizedObjectShapeIsSkipped(t *testing.T) {
	v := url.Values{}
	v.Set("filter_state", `{"bogus":true}`)

	s := queryspec.FromURL(v)
	assert.Empty(t, s.Filters)
}

func TestFromURLSearchSortPagination(t *testing.T) {
	v := url.Values{}
	v.Set("search", " pipeline ")
	v.Set("searchFields", "organization, comment_text ,")
	v.Set("sort", "submitted_at")
	v.Set("sortDirection", "asc")
	v.Set("page", "3")
	v.Set("pageSize", "25")

	s := queryspec.FromURL(v)
	assert.Equal(t, "pipeline", s.Search)
	assert.Equal(t, []string{"organization", "comment_text"}, s.SearchFields)
	require.NotNil(t, s.Sort)
	assert.Equal(t, "submitted_at", s.Sort.Column)
	assert.Equal(t, queryspec.Asc, s.Sort.Direction)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, 25, s.PageSize)
}

func TestFromURLDefaults(t *testing.T) {
	s := queryspec.FromURL(url.Values{})
	assert.Empty(t, s.Filters)
	assert.Empty(t, s.Search)
	assert.Nil(t, s.Sort)
	assert.Zero(t, s.Page)
	assert.Zero(t, s.PageSize)
	assert.False(t, s.Paginated())
	assert.Equal(t, 1, s.EffectivePage())
}

func TestFromURLSortDirectionDefaultsToDesc(t *testing.T) {
	v := url.Values{}
	v.Set("sort", "state")

	s := queryspec.FromURL(v)
	require.NotNil(t, s.Sort)
	assert.Equal(t, queryspec.Desc, s.Sort.Direction)
}

func TestFromURLNegativePageClampsToZero(t *testing.T) {
	v := url.Values{}
	v.Set("page", "-4")
	v.Set("pageSize", "junk")

	s := queryspec.FromURL(v)
	assert.Zero(t, s.Page)
	assert.Zero(t, s.PageSize)
}

func TestParseJSONValueShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want queryspec.Kind
	}{
		{"string", `"CA"`, queryspec.KindScalar},
		{"array", `["a","b"]`, queryspec.KindList},
		{"scalar object", `{"scalar":"x"}`, queryspec.KindScalar},
		{"list object", `{"list":["x"]}`, queryspec.KindList},
		{"modeset", `{"values":["x"],"mode":"at_least"}`, queryspec.KindModeSet},
		{"modeset default mode", `{"values":["x"]}`, queryspec.KindModeSet},
		{"date range", `{"mode":"range","start":"2026-01-01"}`, queryspec.KindDateRange},
		{"date before", `{"mode":"before","start":"2026-01-01"}`, queryspec.KindDateRange},
		{"null", `null`, queryspec.KindInvalid},
		{"empty object", `{}`, queryspec.KindInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := queryspec.ParseJSONValue([]byte(tc.in))
			assert.Equal(t, tc.want, got.Kind())
		})
	}
}

func TestParseJSONValueExactModeDisambiguation(t *testing.T) {
	// "exact" with values is a set filter
	fv := queryspec.ParseJSONValue([]byte(`{"values":["A","B"],"mode":"exact"}`))
	assert.Equal(t, queryspec.KindModeSet, fv.Kind())
	assert.Equal(t, queryspec.ModeExact, fv.Mode())

	// "exact" with bounds and no values is a date filter
	fv = queryspec.ParseJSONValue([]byte(`{"mode":"exact","start":"2026-02-14"}`))
	assert.Equal(t, queryspec.KindDateRange, fv.Kind())
	mode, start, _ := fv.Date()
	assert.Equal(t, queryspec.DateExact, mode)
	assert.Equal(t, "2026-02-14", start)
}

func TestParseValueBareNumberFiltersOnLiteralText(t *testing.T) {
	fv := queryspec.ParseValue("42")
	assert.Equal(t, queryspec.KindScalar, fv.Kind())
	assert.Equal(t, "42", fv.ScalarValue())
}

func TestStringListStringifiesNumbers(t *testing.T) {
	fv := queryspec.ParseJSONValue([]byte(`[1, "two", true]`))
	assert.Equal(t, queryspec.KindList, fv.Kind())
	assert.Equal(t, []string{"1", "two", "true"}, fv.Values())
}
