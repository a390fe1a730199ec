package utils

import (
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page/limit query params. Page defaults to 1,
// limit to 10 and is capped at 100.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

func (p Pagination) Limit64() int64 {
	return int64(p.Limit)
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

func NewPageMeta(p Pagination, total int64) PageMeta {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return PageMeta{
		Page:        p.Page,
		Limit:       p.Limit,
		TotalItems:  total,
		TotalPages:  pages,
		HasPrevPage: p.Page > 1,
		HasNextPage: int64(p.Page) < pages,
	}
}
