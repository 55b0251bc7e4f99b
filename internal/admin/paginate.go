package admin

// DefaultPageSize is the number of rows per admin list page.
const DefaultPageSize = 8

// Page is the visible slice of a collection plus its page metadata.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
	PageSize   int `json:"page_size"`
	Offset     int `json:"offset"` // row number of the first item minus one
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns page p of items. A page outside [1, TotalPages] yields an
// empty slice with the requested index kept, so callers can see it was out of range.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(items)
	out := Page[T]{
		Page:       page,
		TotalPages: TotalPages(n, size),
		Total:      n,
		PageSize:   size,
		Offset:     (page - 1) * size,
	}
	if page < 1 || page > out.TotalPages {
		out.Items = []T{}
		return out
	}

	start := (page - 1) * size
	end := start + size
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	out.Items = items[start:end:end]
	return out
}

// Pager tracks the current page index of one list.
type Pager struct {
	Page int
	Size int
}

func NewPager(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{Page: 1, Size: size}
}

// GoTo moves to page p if it exists for a collection of n items. Requests out of
// range are ignored.
func (p *Pager) GoTo(page, n int) bool {
	if page < 1 || page > TotalPages(n, p.Size) {
		return false
	}
	p.Page = page
	return true
}

func (p *Pager) Next(n int) bool { return p.GoTo(p.Page+1, n) }

func (p *Pager) Prev(n int) bool { return p.GoTo(p.Page-1, n) }

// Clamp resets the page to 1 when the collection shrank below it. It must run
// after every collection change.
func (p *Pager) Clamp(n int) {
	if p.Page < 1 || p.Page > TotalPages(n, p.Size) {
		p.Page = 1
	}
}
