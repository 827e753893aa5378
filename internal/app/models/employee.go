package models

import "time"

// Employee is a single employee record
type Employee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Courses     []string  `json:"courses"`
	PhotoPath   string    `json:"photoPath"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployeeFields holds the caller-supplied, mutable part of an employee record
type EmployeeFields struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Courses     []string
}

// Apply copies the mutable fields onto the record. ID, PhotoPath and CreatedAt are untouched.
func (e *Employee) Apply(f EmployeeFields) {
	e.Name = f.Name
	e.Email = f.Email
	e.Mobile = f.Mobile
	e.Designation = f.Designation
	e.Gender = f.Gender
	e.Courses = f.Courses
}

// Clone returns a deep copy of the record
func (e *Employee) Clone() *Employee {
	c := *e
	c.Courses = append([]string(nil), e.Courses...)
	if c.Courses == nil {
		c.Courses = []string{}
	}
	return &c
}
