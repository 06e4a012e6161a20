// Package pagination carries the page metadata returned with every
// collection read.
package pagination

import "net/http"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination describes one page of a collection result.
// Pages is ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// New builds a Pagination for the given page, limit and total row count.
func New(page, limit int, total int64) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// Offset returns the number of rows to skip for this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromRequest reads page and limit query parameters with defaults and caps.
func FromRequest(r *http.Request) (page, limit int) {
	page = atoiDefault(r.URL.Query().Get("page"), DefaultPage)
	limit = atoiDefault(r.URL.Query().Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
		if n > 1_000_000 {
			return def
		}
	}
	if n == 0 {
		return def
	}
	return n
}
