package models

// PageInfo is the pagination block echoed by list endpoints. It is
// authoritative for list data.
type PageInfo struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ListResponse is the backend list envelope.
type ListResponse[T any] struct {
	Success    bool     `json:"success"`
	Count      int      `json:"count"`
	Total      int      `json:"total"`
	Pagination PageInfo `json:"pagination"`
	Data       []T      `json:"data"`
}

// RecordResponse is the backend single-record envelope.
type RecordResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// PaginationState is what list screens render.
type PaginationState struct {
	CurrentPage  int  `json:"currentPage"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalItems   int  `json:"totalItems"`
	TotalPages   int  `json:"totalPages"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}
