package queryspec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/core/queryspec"
)

func TestCacheKeyStableAcrossFilterInsertionOrder(t *testing.T) {
	a := queryspec.Spec{Filters: map[string]queryspec.FilterValue{
		"state":  queryspec.Scalar("CA"),
		"stance": queryspec.Scalar("For"),
	}}
	b := queryspec.Spec{Filters: map[string]queryspec.FilterValue{
		"stance": queryspec.Scalar("For"),
		"state":  queryspec.Scalar("CA"),
	}}
	assert.Equal(t, a.CacheKey("comments:list:"), b.CacheKey("comments:list:"))
}

func TestCacheKeyDistinguishesSpecs(t *testing.T) {
	base := queryspec.Spec{Search: "solar"}
	other := queryspec.Spec{Search: "solar", Page: 2, PageSize: 10}
	assert.NotEqual(t, base.CacheKey("p:"), other.CacheKey("p:"))

	list := base.CacheKey("comments:list:")
	stats := base.CacheKey("comments:stats:")
	assert.NotEqual(t, list, stats)
}

func TestFilterValueJSONRoundTrip(t *testing.T) {
	cases := map[string]queryspec.FilterValue{
		"scalar":  queryspec.Scalar("CA"),
		"list":    queryspec.List("a", "b"),
		"modeset": queryspec.ModeSet([]string{"x", "y"}, queryspec.ModeAtLeast),
		"span":    queryspec.DateRange(queryspec.DateSpan, "2026-01-01", "2026-02-01"),
		"before":  queryspec.DateRange(queryspec.DateBefore, "2026-01-01", ""),
	}
	for name, fv := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(fv)
			require.NoError(t, err)

			var got queryspec.FilterValue
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, fv, got)
		})
	}
}

func TestFilterValueEmpty(t *testing.T) {
	assert.True(t, queryspec.FilterValue{}.Empty())
	assert.True(t, queryspec.Scalar("   ").Empty())
	assert.True(t, queryspec.List("", " ").Empty())
	assert.True(t, queryspec.DateRange(queryspec.DateSpan, "", "").Empty())

	assert.False(t, queryspec.Scalar("x").Empty())
	assert.False(t, queryspec.List("", "x").Empty())
	assert.False(t, queryspec.DateRange(queryspec.DateAfter, "2026-01-01", "").Empty())
}

func TestSpecPagination(t *testing.T) {
	s := queryspec.Spec{Page: 0, PageSize: 0}
	assert.False(t, s.Paginated())

	s = queryspec.Spec{Page: 0, PageSize: 25}
	assert.True(t, s.Paginated())
	assert.Equal(t, 1, s.EffectivePage())

	s = queryspec.Spec{Page: 4, PageSize: 25}
	assert.Equal(t, 4, s.EffectivePage())
}
