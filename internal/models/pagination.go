package models

import "math"

// PageMeta is the pagination block returned alongside every paged list.
type PageMeta struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page and limit. Limits outside [1, max] fall back to def.
func NewPage(number, limit, def, max int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 || limit > max {
		limit = def
	}
	return Page{Number: number, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Meta builds the pagination block for a total row count.
func (p Page) Meta(total int64) PageMeta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return PageMeta{
		CurrentPage:     p.Number,
		TotalPages:      totalPages,
		TotalItems:      total,
		ItemsPerPage:    p.Limit,
		HasNextPage:     p.Number < totalPages,
		HasPreviousPage: p.Number > 1,
	}
}
