package services

import (
	"math"
	"strconv"
)

const (
	maxPageSize = 100
	// keeps (Page-1)*Limit far from int overflow; such pages are always empty
	maxPageNumber = 1_000_000
)

// Pagination is the page metadata returned with every list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PageRequest is a 1-indexed page and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePage reads page/limit strings, falling back to page 1 and defLimit
// when absent, non-numeric or non-positive.
func ParsePage(page, limit string, defLimit int) PageRequest {
	p := PageRequest{Page: 1, Limit: defLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if p.Page > maxPageNumber {
		p.Page = maxPageNumber
	}
	return p
}

// Offset saturates instead of wrapping for hand-built requests.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

func (p PageRequest) Meta(total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
