package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i + 1
	}
	return rows
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{30, 10, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, tt.size), "TotalPages(%d, %d)", tt.n, tt.size)
	}
}

func TestList_TwentyThreeRows(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(23))

	page := list.Page()
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.TotalRows)
	assert.Len(t, page.Rows, 10)

	require.NoError(t, list.SetPage(3))
	page = list.Page()
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, []int{21, 22, 23}, page.Rows)
}

func TestList_LastPageSize(t *testing.T) {
	for _, n := range []int{1, 9, 10, 11, 20, 37} {
		list := New[int](10)
		list.SetRows(intRows(n))
		total := list.Page().TotalPages
		require.NoError(t, list.SetPage(total))

		want := n % 10
		if want == 0 {
			want = 10
		}
		assert.Len(t, list.Page().Rows, want, "n=%d", n)
	}
}

func TestList_FilterIsConjunction(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(30))

	list.SetFilter("even", func(v int) bool { return v%2 == 0 })
	list.SetFilter("multiple_of_3", func(v int) bool { return v%3 == 0 })

	filtered := list.Filtered()
	assert.Equal(t, []int{6, 12, 18, 24, 30}, filtered)
	assert.LessOrEqual(t, len(filtered), len(list.Rows()))
	assert.Equal(t, []string{"even", "multiple_of_3"}, list.Filters())
}

func TestList_FilterChangeResetsPage(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(30))
	require.NoError(t, list.SetPage(3))

	list.SetFilter("small", func(v int) bool { return v < 25 })
	assert.Equal(t, 1, list.CurrentPage())

	require.NoError(t, list.SetPage(2))
	list.ClearFilter("small")
	assert.Equal(t, 1, list.CurrentPage())

	require.NoError(t, list.SetPage(2))
	list.ReplaceFilters(nil)
	assert.Equal(t, 1, list.CurrentPage())
}

func TestList_EmptyState(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(5))
	list.SetFilter("none", func(int) bool { return false })

	page := list.Page()
	assert.True(t, page.Empty)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Rows)
}

func TestList_SetPageOutOfRange(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(15))

	assert.ErrorIs(t, list.SetPage(0), ErrPageOutOfRange)
	assert.ErrorIs(t, list.SetPage(3), ErrPageOutOfRange)
	assert.NoError(t, list.SetPage(2))
}

func TestList_SetRowsClampsPage(t *testing.T) {
	list := New[int](10)
	list.SetRows(intRows(30))
	require.NoError(t, list.SetPage(3))

	list.SetRows(intRows(12))
	assert.Equal(t, 2, list.CurrentPage())

	list.SetRows(nil)
	assert.Equal(t, 1, list.CurrentPage())
}

func TestNew_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, New[string](0).PageSize())
}
