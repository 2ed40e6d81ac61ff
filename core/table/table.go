// Package table holds the client-side list mechanics shared by the management
// screens: case-insensitive search matching and fixed-size pagination over an
// already-filtered in-memory list.
package table

import "strings"

const DefaultPerPage = 10

// MatchesSearch reports whether any of fields contains search,
// case-insensitively. An empty search matches everything.
func MatchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, fld := range fields {
		if strings.Contains(strings.ToLower(fld), search) {
			return true
		}
	}
	return false
}

// Pagination is a window over a filtered list. Page is always clamped to
// [1, Pages()]; out-of-range requests never error.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

func Paginate(total, page, perPage int) Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	p := Pagination{PerPage: perPage, Total: total}
	max := p.Pages()
	switch {
	case page < 1:
		page = 1
	case page > max:
		page = max
	}
	p.Page = page
	return p
}

// Pages returns the number of pages; at least 1 even when the list is empty.
func (p Pagination) Pages() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Bounds returns the [lo, hi) slice indices of the current page.
func (p Pagination) Bounds() (int, int) {
	lo := (p.Page - 1) * p.PerPage
	if lo > p.Total {
		lo = p.Total
	}
	hi := lo + p.PerPage
	if hi > p.Total {
		hi = p.Total
	}
	return lo, hi
}
