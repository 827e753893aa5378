package dto

import (
	"mime/multipart"

	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

// EmployeeForm is the multipart form used to create or update an employee.
// Required-ness is checked by the employee service so every violation can be reported.
type EmployeeForm struct {
	Name        string                `form:"name"`
	Email       string                `form:"email"`
	Mobile      string                `form:"mobile"`
	Designation string                `form:"designation"`
	Gender      string                `form:"gender"`
	Course      []string              `form:"course"`
	Courses     []string              `form:"courses"`
	Img         *multipart.FileHeader `form:"img" swaggerignore:"true"`
}

// Fields converts the form into service input
func (f *EmployeeForm) Fields() models.EmployeeFields {
	courses := append(append([]string{}, f.Course...), f.Courses...)
	return models.EmployeeFields{
		Name:        f.Name,
		Email:       f.Email,
		Mobile:      f.Mobile,
		Designation: f.Designation,
		Gender:      f.Gender,
		Courses:     validation.NormalizeCourses(courses),
	}
}

// EmployeeListQuery holds the list query parameters
type EmployeeListQuery struct {
	Search string `form:"search"`
	SortBy string `form:"sortBy" binding:"omitempty,oneof=name email mobile designation gender createdAt"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// EmployeeListResponse is a page of employees with pagination metadata
type EmployeeListResponse struct {
	Items      []*models.Employee `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}
