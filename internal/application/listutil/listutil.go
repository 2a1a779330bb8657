// Package listutil pages the in-memory lists the collection endpoints return.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// PageParams is the page a client asked for. Page is 1-indexed.
type PageParams struct {
	Page    int
	PerPage int
}

// PageInfo describes the page actually served.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is the JSON envelope for list endpoints.
type Page[T any] struct {
	Items []T      `json:"items"`
	Info  PageInfo `json:"page"`
}

const DefaultPerPage = 20

// PerPageOptions are the page sizes a client may request; anything else gets DefaultPerPage.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams reads ?page= and ?per_page=.
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	p := PageParams{Page: 1, PerPage: DefaultPerPage}
	if n := atoi(q.Get("page")); n > 1 {
		p.Page = n
	}
	if n := atoi(q.Get("per_page")); slices.Contains(PerPageOptions, n) {
		p.PerPage = n
	}
	return p
}

// ParseLimit reads ?limit=, using def when absent or not positive and ceiling as the upper bound.
func ParseLimit(q url.Values, def, ceiling int) int {
	n := atoi(q.Get("limit"))
	if n < 1 {
		return def
	}
	return min(n, ceiling)
}

// NewPageInfo counts pages for total rows and clamps page into [1, TotalPages].
// POST: TotalPages >= 1 even for an empty list
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := max(1, (total+perPage-1)/perPage)
	return PageInfo{
		Page:       min(max(page, 1), pages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// Offset is the index of the first row on the page.
func (p PageInfo) Offset() int { return (p.Page - 1) * p.PerPage }

// Paginate copies the requested page out of items.
// POST: Items is non-nil so it encodes as []
func Paginate[T any](items []T, params PageParams) Page[T] {
	info := NewPageInfo(params.Page, params.PerPage, len(items))
	from := info.Offset()
	to := min(from+info.PerPage, len(items))
	return Page[T]{Items: append(make([]T, 0, to-from), items[from:to]...), Info: info}
}

// atoi returns 0 for anything that is not an integer.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
