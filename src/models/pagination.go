package models

import "math"

// PaginationParams holds paging and sorting options for list endpoints.
type PaginationParams struct {
	Page   int    `json:"page" query:"page" example:"1"`
	Limit  int    `json:"limit" query:"limit" example:"10"`
	SortBy string `json:"sortBy" query:"sortBy" example:"submittedAt"`
	Order  string `json:"order" query:"order" example:"desc"`
}

// DefaultPagination returns the defaults applied when query params are
// absent.
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:   1,
		Limit:  10,
		SortBy: "submittedAt",
		Order:  "desc",
	}
}

// GetSkip computes how many documents to skip for the requested page.
func (p *PaginationParams) GetSkip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// GetSortOrder builds the Mongo sort document (1 = asc, -1 = desc).
func (p *PaginationParams) GetSortOrder() map[string]int {
	order := 1
	if p.Order == "desc" {
		order = -1
	}
	return map[string]int{p.SortBy: order}
}

// TotalPages computes the page count for a result set.
func (p *PaginationParams) TotalPages(total int64) int {
	if p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}
