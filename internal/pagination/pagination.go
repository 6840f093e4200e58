package pagination

// PageSize is the fixed number of posts per page on every listing.
const PageSize = 10

type Page struct {
	Number     int  `json:"number"`
	Size       int  `json:"size"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// New builds page metadata for the given 1-based page number. A page number
// below 1 falls back to the first page; an empty result set still has one
// (empty) page.
func New(number, totalItems int) Page {
	if number < 1 {
		number = 1
	}

	totalPages := (totalItems + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return Page{
		Number:     number,
		Size:       PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}

// Clamp normalizes a requested page number against the total item count:
// numbers below 1 become 1, numbers past the end become the last page.
func Clamp(number, totalItems int) int {
	if number < 1 {
		return 1
	}
	totalPages := (totalItems + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}

// Offset returns the item offset of the page's first element.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
