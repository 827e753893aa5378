package models

// SortOrder is the direction of a list sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EmployeeSortKeys are the record fields a list may be sorted by
var EmployeeSortKeys = []string{"name", "email", "mobile", "designation", "gender", "createdAt"}

// EmployeeQuery describes a search/sort/page request over the employee collection
type EmployeeQuery struct {
	Search string
	SortBy string
	Order  SortOrder
	Page   int
	Size   int
}
