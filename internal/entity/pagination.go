package entity

const maxPageSize = 50

type PaginationInput struct {
	Limit  int
	Offset int
}

// NewPaginationInput clamps the page window so a caller can never request
// an unbounded or negative slice.
func NewPaginationInput(limit int, offset int) *PaginationInput {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return &PaginationInput{
		Limit:  limit,
		Offset: offset,
	}
}
