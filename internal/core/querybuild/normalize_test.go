package querybuild_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docket/internal/core/querybuild"
	perr "docket/internal/platform/errors"
)

// fakeRows serves canned rows through the store.Rows surface
type fakeRows struct {
	cols   []string
	rows   [][]any
	idx    int
	err    error
	closed bool
}

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.idx-1]
	for i := range dest {
		if p, ok := dest[i].(*any); ok {
			*p = row[i]
		}
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            { f.closed = true }
func (f *fakeRows) Columns() []string { return f.cols }

func TestCountFromRowsNamedColumn(t *testing.T) {
	cases := []struct {
		name string
		cols []string
		row  []any
		want int64
	}{
		{"count int64", []string{"count"}, []any{int64(42)}, 42},
		{"total mixed case", []string{"Total"}, []any{int64(7)}, 7},
		{"cnt int32", []string{"cnt"}, []any{int32(9)}, 9},
		{"n float", []string{"n"}, []any{float64(3)}, 3},
		{"string digits", []string{"count"}, []any{"15"}, 15},
		{"byte digits", []string{"count"}, []any{[]byte("8")}, 8},
		{"null is zero", []string{"count"}, []any{nil}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := &fakeRows{cols: tc.cols, rows: [][]any{tc.row}}
			n, err := querybuild.CountFromRows(rows)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
			assert.True(t, rows.closed)
		})
	}
}

func TestCountFromRowsPrefersNamedColumnOverFirst(t *testing.T) {
	rows := &fakeRows{
		cols: []string{"stance", "count"},
		rows: [][]any{{"for", int64(12)}},
	}
	n, err := querybuild.CountFromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestCountFromRowsFallsBackToFirstColumn(t *testing.T) {
	rows := &fakeRows{
		cols: []string{"whatever"},
		rows: [][]any{{int64(5)}},
	}
	n, err := querybuild.CountFromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestCountFromRowsEmptyResultIsZero(t *testing.T) {
	rows := &fakeRows{cols: []string{"count"}}
	n, err := querybuild.CountFromRows(rows)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, rows.closed)
}

func TestCountFromRowsIterationError(t *testing.T) {
	rows := &fakeRows{cols: []string{"count"}, err: errors.New("conn reset")}
	_, err := querybuild.CountFromRows(rows)
	require.Error(t, err)
	assert.Equal(t, perr.ErrorCodeDB, perr.CodeOf(err))
}

func TestCountFromRowsUnreadableValuesAreZero(t *testing.T) {
	for _, row := range [][]any{{"many"}, {struct{}{}}} {
		rows := &fakeRows{cols: []string{"count"}, rows: [][]any{row}}
		n, err := querybuild.CountFromRows(rows)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}
