package store

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int // Items per page (defaults to 30, capped at 100)
	Offset int // Rows to skip (first page is 0)
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Limit:  30,
		Offset: 0,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = 30
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// SortOrder is a direction for ordered listings.
type SortOrder string

const (
	// SortAsc orders oldest first.
	SortAsc SortOrder = "asc"
	// SortDesc orders newest first.
	SortDesc SortOrder = "desc"
)

// Normalize coerces unknown values to descending (newest first).
func (o SortOrder) Normalize() SortOrder {
	if o == SortAsc {
		return SortAsc
	}
	return SortDesc
}
