package models

// DefaultLimit is the products-per-page default when the host supplies none.
const DefaultLimit = 24

// Pagination carries the grid paging state. Page and Limit are owned by
// the client; Total and TotalPages only ever come from a server response
// or the fallback snapshot.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination clamps page and limit into their valid ranges.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// SetTotal records the server-derived totals and recomputes TotalPages.
func (p *Pagination) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.Total = total
	p.TotalPages = (total + p.Limit - 1) / p.Limit
}

// HasNext reports whether a further page exists.
func (p *Pagination) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether a previous page exists.
func (p *Pagination) HasPrev() bool { return p.Page > 1 }
