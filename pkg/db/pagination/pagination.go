package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 250
)

type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// Normalize clamps page to >= 1 and page size to [1, MaxPageSize].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

func (p Pagination) Limit() int {
	return p.Normalize().PageSize
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	n := p.Normalize()
	pages := 0
	if total > 0 {
		pages = int((total + int64(n.PageSize) - 1) / int64(n.PageSize))
	}
	return PageInfo{
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalItems: total,
		TotalPages: pages,
		HasMore:    n.Page < pages,
	}
}
