package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products", nil)
	pg := ParsePagination(r)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 10, pg.Limit)
	assert.Equal(t, int64(0), pg.Skip())
}

func TestParsePaginationBounds(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=-3&limit=5000", nil)
	pg := ParsePagination(r)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 100, pg.Limit)

	r = httptest.NewRequest("GET", "/api/products?page=3&limit=25", nil)
	pg = ParsePagination(r)
	assert.Equal(t, int64(50), pg.Skip())
	assert.Equal(t, int64(25), pg.Limit64())
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(Pagination{Page: 2, Limit: 10}, 25)
	assert.Equal(t, int64(25), meta.TotalItems)
	assert.Equal(t, int64(3), meta.TotalPages)
	assert.True(t, meta.HasPrevPage)
	assert.True(t, meta.HasNextPage)

	last := NewPageMeta(Pagination{Page: 3, Limit: 10}, 25)
	assert.False(t, last.HasNextPage)

	empty := NewPageMeta(Pagination{Page: 1, Limit: 10}, 0)
	assert.Equal(t, int64(1), empty.TotalPages)
	assert.False(t, empty.HasPrevPage)
	assert.False(t, empty.HasNextPage)
}
