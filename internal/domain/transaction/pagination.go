package transaction

// Pagination represents pagination information for list responses.
type Pagination struct {
	Page       int64 // Current page number (1-based)
	Limit      int64 // Number of records per page
	Total      int64 // Total number of matching records
	TotalPages int64
	HasMore    bool // Page < TotalPages
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total, page, limit int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
