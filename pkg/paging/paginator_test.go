package paging

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i + 1
	}
	return ret
}

// formatWindow renders a window like "1 2 3 4 … 10", current page in brackets.
func formatWindow(links []Link) string {
	parts := make([]string, len(links))
	for i, l := range links {
		switch {
		case l.Ellipsis:
			parts[i] = "…"
		case l.Current:
			parts[i] = fmt.Sprintf("[%d]", l.Page)
		default:
			parts[i] = fmt.Sprintf("%d", l.Page)
		}
	}
	return strings.Join(parts, " ")
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		items, size, expected int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{57, 10, 6},
		{57, 1, 57},
		{5, 0, 5},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.items, tc.size); got != tc.expected {
			t.Errorf("TotalPages(%d, %d): expected %d, got %d", tc.items, tc.size, tc.expected, got)
		}
	}
}

func TestSliceRows(t *testing.T) {
	items := numbers(25)

	page := Slice(items, 10, 1)
	assert.Equal(t, numbers(10), page.Rows)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.From)
	assert.Equal(t, 10, page.To)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)

	page = Slice(items, 10, 3)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, page.Rows)
	assert.Equal(t, 21, page.From)
	assert.Equal(t, 25, page.To)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)

	page = Slice(items, 10, 4)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 4, page.CurrentPage, "the paginator does not clamp")
}

func TestSliceEmptyWorkingSet(t *testing.T) {
	page := Slice([]int{}, 10, 1)
	require.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.From)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
	assert.Equal(t, "[1]", formatWindow(page.Window))
}

func TestSliceDoesNotAlias(t *testing.T) {
	items := numbers(5)
	page := Slice(items, 2, 1)
	page.Rows[0] = 100
	assert.Equal(t, 1, items[0])
}

func TestWindow(t *testing.T) {
	cases := []struct {
		current, total int
		expected       string
	}{
		{1, 1, "[1]"},
		{3, 7, "1 2 [3] 4 5 6 7"},
		{1, 10, "[1] 2 3 4 … 10"},
		{3, 10, "1 2 [3] 4 … 10"},
		{4, 10, "1 … 3 [4] 5 … 10"},
		{5, 10, "1 … 4 [5] 6 … 10"},
		{7, 10, "1 … 6 [7] 8 … 10"},
		{8, 10, "1 … 7 [8] 9 10"},
		{10, 10, "1 … 7 8 9 [10]"},
		{1, 8, "[1] 2 3 4 … 8"},
		{6, 8, "1 … 5 [6] 7 8"},
		{50, 100, "1 … 49 [50] 51 … 100"},
	}
	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatWindow(Window(tc.current, tc.total)))
		})
	}
}

func TestWindowIsBounded(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			links := Window(current, total)
			ellipsis := 0
			seen := false
			for _, l := range links {
				if l.Ellipsis {
					ellipsis++
					continue
				}
				require.True(t, l.Page >= 1 && l.Page <= total, "page %d out of range", l.Page)
				if l.Current {
					seen = true
				}
			}
			require.LessOrEqual(t, ellipsis, 2)
			require.LessOrEqual(t, len(links), 7)
			require.True(t, seen, "current page %d/%d missing from window", current, total)
		}
	}
}
