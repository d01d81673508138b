package models

// Pagination describes page metadata for list responses. Lists are paginated
// locally over the full upstream payload, the way the panel pages always did.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes page metadata for a list of total items.
func NewPagination(page, pageSize, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: total, TotalPages: totalPages}
}

// Slice returns the bounds of the requested page over a list of length total.
func (p *Pagination) Slice(total int) (int, int) {
	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return 0, 0
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
