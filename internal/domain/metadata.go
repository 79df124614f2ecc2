package domain

type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

func NewMetadata(totalRecords int, pagination Pagination) *Metadata {
	lastPage := 1
	if totalRecords > 0 && pagination.PageSize > 0 {
		lastPage = (totalRecords + pagination.PageSize - 1) / pagination.PageSize
	}

	return &Metadata{
		CurrentPage:  pagination.Page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     pagination.PageSize,
		TotalRecords: totalRecords,
	}
}
