package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagesIsCeiling(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
	}
	for _, c := range cases {
		p := New(1, c.limit, c.total)
		assert.Equal(t, c.pages, p.Pages, "total=%d limit=%d", c.total, c.limit)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, New(1, 10, 100).Offset())
	assert.Equal(t, 20, New(3, 10, 100).Offset())
}

func TestFromRequest(t *testing.T) {
	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?page=0&limit=0", 1, 10},
		{"?page=-2&limit=-5", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
		{"?limit=5000", 1, 100}, // capped
	}
	for _, c := range cases {
		r := httptest.NewRequest("GET", "/products"+c.query, nil)
		page, limit := FromRequest(r)
		assert.Equal(t, c.page, page, c.query)
		assert.Equal(t, c.limit, limit, c.query)
	}
}
