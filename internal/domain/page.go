package domain

// PaginationParams carries page/per_page values from the HTTP layer to the
// repo layer. Page is 1-indexed. PerPage defaults to 15 and is clamped to
// [1, 100] by NewPaginationParams; the listing order (created_at descending)
// is fixed and not client-configurable.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// PerPage is the maximum number of items to return.
	PerPage int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query
// params. Nil or out-of-range pointers fall back to the defaults
// (page=1, per_page=15). PerPage is capped at 100 to prevent runaway queries.
func NewPaginationParams(page, perPage *int) PaginationParams {
	p := PaginationParams{Page: 1, PerPage: 15}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if perPage != nil && *perPage >= 1 {
		p.PerPage = *perPage
		if p.PerPage > 100 {
			p.PerPage = 100
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
