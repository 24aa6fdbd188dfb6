package domain

// Metadata describes where a page of results sits within the full listing.
// It accompanies every paginated response.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// NewMetadata derives the page window from the total record count. An empty
// listing yields LastPage 0.
func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	lastPage := (totalRecords + pageSize - 1) / pageSize

	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}
