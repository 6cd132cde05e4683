package pagination

const (
	// DefaultPageSize matches the storefront grid: twelve products per page.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any listing query can request.
	MaxPageSize = 48
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes one slice of a listing along with the total match count.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps the params to sane values: page >= 1 and a bounded size.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// NewPage assembles the page descriptor for a result set.
func NewPage(params Params, totalCount int64) Page {
	n := params.Normalize()
	totalPages := int((totalCount + int64(n.PageSize) - 1) / int64(n.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{
		Number:     n.Page,
		Size:       n.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
