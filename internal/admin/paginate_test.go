package admin

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("totalPages is max(1, ceil(N/P))", prop.ForAll(
		func(n, size int) bool {
			want := (n + size - 1) / size
			if want < 1 {
				want = 1
			}
			return TotalPages(n, size) == want
		},
		gen.IntRange(0, 1000),
		gen.IntRange(1, 50),
	))

	properties.Property("page length is min(P, N-(p-1)P)", prop.ForAll(
		func(n, size int) bool {
			items := seq(n)
			total := TotalPages(n, size)
			for p := 1; p <= total; p++ {
				want := n - (p-1)*size
				if want > size {
					want = size
				}
				if want < 0 {
					want = 0
				}
				if len(Paginate(items, p, size).Items) != want {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(1, 20),
	))

	properties.Property("pages partition the collection in order", prop.ForAll(
		func(n, size int) bool {
			items := seq(n)
			var joined []int
			for p := 1; p <= TotalPages(n, size); p++ {
				joined = append(joined, Paginate(items, p, size).Items...)
			}
			if len(joined) != n {
				return false
			}
			for i, v := range joined {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(1, 20),
	))

	properties.Property("clamp never leaves the page beyond the last one", prop.ForAll(
		func(page, n, size int) bool {
			p := Pager{Page: page, Size: size}
			p.Clamp(n)
			return p.Page >= 1 && p.Page <= TotalPages(n, size)
		},
		gen.IntRange(-5, 100),
		gen.IntRange(0, 300),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]int{}, 1, 8)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestPaginateLastPartialPage(t *testing.T) {
	page := Paginate(seq(20), 3, 8)
	assert.Equal(t, []int{16, 17, 18, 19}, page.Items)
	assert.Equal(t, 16, page.Offset)
	assert.Equal(t, 3, page.TotalPages)
}

func TestPaginateOutOfRange(t *testing.T) {
	assert.Empty(t, Paginate(seq(5), 2, 8).Items)
	assert.Empty(t, Paginate(seq(5), 0, 8).Items)
}

func TestPaginateDoesNotAliasAppend(t *testing.T) {
	items := seq(10)
	page := Paginate(items, 1, 4)
	_ = append(page.Items, 99)
	assert.Equal(t, 4, items[4])
}

func TestPagerClampAfterShrink(t *testing.T) {
	p := NewPager(8)
	assert.True(t, p.GoTo(3, 20))
	assert.Equal(t, 3, p.Page)

	p.Clamp(7)
	assert.Equal(t, 1, p.Page)
}

func TestPagerClampKeepsValidPage(t *testing.T) {
	p := NewPager(8)
	p.GoTo(2, 20)
	p.Clamp(9)
	assert.Equal(t, 2, p.Page)
}

func TestPagerIgnoresOutOfRange(t *testing.T) {
	p := NewPager(8)
	assert.False(t, p.GoTo(0, 20))
	assert.False(t, p.GoTo(4, 20))
	assert.Equal(t, 1, p.Page)

	assert.False(t, p.Prev(20))
	assert.True(t, p.Next(20))
	assert.True(t, p.Next(20))
	assert.False(t, p.Next(20))
	assert.Equal(t, 3, p.Page)
}
