package dto

// SuccessResponse represents a plain message response
type SuccessResponse struct {
	Message string `json:"message" example:"Employee deleted successfully"`
}

// PaginationInfo describes the page a list response carries
type PaginationInfo struct {
	CurrentPage int `json:"currentPage" example:"1"`
	TotalPages  int `json:"totalPages" example:"3"`
	PageSize    int `json:"pageSize" example:"5"`
	TotalItems  int `json:"totalItems" example:"12"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"postgres"`
}
