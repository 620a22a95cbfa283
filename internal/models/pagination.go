package models

// Pagination describes one page of a larger result set
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination computes page metadata for total items split into pages of limit
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Bounds returns the [start, end) slice indexes of the page within n items.
// A page past the end yields an empty range.
func (p Pagination) Bounds(n int) (int, int) {
	if n <= 0 || p.Limit <= 0 || p.Page < 1 || p.Page-1 > (n-1)/p.Limit {
		return n, n
	}

	start := (p.Page - 1) * p.Limit
	end := n
	if p.Limit < n-start {
		end = start + p.Limit
	}
	return start, end
}
