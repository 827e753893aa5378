package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/middleware"
	"github.com/yigit/empdesk/internal/pkg/helpers"
)

// EmployeeController handles employee record requests
type EmployeeController struct {
	employeeService services.EmployeeService
	metrics         *middleware.Metrics
	maxUploadBytes  int64
}

// NewEmployeeController creates a new EmployeeController.
// maxUploadBytes caps the multipart body size; zero disables the cap.
func NewEmployeeController(employeeService services.EmployeeService, metrics *middleware.Metrics, maxUploadBytes int64) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
		metrics:         metrics,
		maxUploadBytes:  maxUploadBytes,
	}
}

// bindForm reads the multipart (or urlencoded/JSON) employee form
func (c *EmployeeController) bindForm(ctx *gin.Context) (*dto.EmployeeForm, bool) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	var form dto.EmployeeForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleBindingError(ctx, err)
		return nil, false
	}
	return &form, true
}

// CreateEmployee handles employee creation
// @Summary Create an employee
// @Description Validates the fields, stores the optional photo and creates the record
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Full name"
// @Param email formData string true "Email address"
// @Param mobile formData string true "Mobile number (digits only)"
// @Param designation formData string true "Designation" Enums(HR, Manager, Sales)
// @Param gender formData string true "Gender"
// @Param course formData []string false "Course tags" collectionFormat(multi)
// @Param img formData file false "Photo (.jpg, .jpeg or .png)"
// @Success 201 {object} models.Employee "Employee created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees [post]
func (c *EmployeeController) CreateEmployee(ctx *gin.Context) {
	form, ok := c.bindForm(ctx)
	if !ok {
		return
	}

	employee, err := c.employeeService.CreateEmployee(ctx.Request.Context(), form.Fields(), form.Img)
	c.metrics.ObserveEmployeeOp("create", err)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, employee)
}

// GetAllEmployees returns every employee record
// @Summary List all employees
// @Description Returns every employee record, unfiltered, in store order
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Employee "Employees"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees [get]
func (c *EmployeeController) GetAllEmployees(ctx *gin.Context) {
	employees, err := c.employeeService.GetAllEmployees(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, employees)
}

// SearchEmployees returns one page of a filtered and sorted employee list
// @Summary Search employees
// @Description Case-insensitive search on name, email or creation date, with sorting and pagination
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param sortBy query string false "Sort key" Enums(name, email, mobile, designation, gender, createdAt)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(5) maximum(100)
// @Success 200 {object} dto.EmployeeListResponse "Employees page"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees/search [get]
func (c *EmployeeController) SearchEmployees(ctx *gin.Context) {
	var query dto.EmployeeListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	order := models.SortAsc
	if query.Order == string(models.SortDesc) {
		order = models.SortDesc
	}

	items, total, err := c.employeeService.ListEmployees(ctx.Request.Context(), models.EmployeeQuery{
		Search: query.Search,
		SortBy: query.SortBy,
		Order:  order,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	})
}

// GetEmployeeByID returns a single employee
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} models.Employee "Employee"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees/{id} [get]
func (c *EmployeeController) GetEmployeeByID(ctx *gin.Context) {
	employee, err := c.employeeService.GetEmployeeByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, employee)
}

// UpdateEmployee replaces an employee's fields and optionally its photo
// @Summary Update an employee
// @Description Re-validates all fields. The photo is replaced only when a new file is sent.
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Param name formData string true "Full name"
// @Param email formData string true "Email address"
// @Param mobile formData string true "Mobile number (digits only)"
// @Param designation formData string true "Designation" Enums(HR, Manager, Sales)
// @Param gender formData string true "Gender"
// @Param course formData []string false "Course tags" collectionFormat(multi)
// @Param img formData file false "Photo (.jpg, .jpeg or .png)"
// @Success 200 {object} models.Employee "Employee updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees/{id} [put]
func (c *EmployeeController) UpdateEmployee(ctx *gin.Context) {
	form, ok := c.bindForm(ctx)
	if !ok {
		return
	}

	employee, err := c.employeeService.UpdateEmployee(ctx.Request.Context(), ctx.Param("id"), form.Fields(), form.Img)
	c.metrics.ObserveEmployeeOp("update", err)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee record
// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.SuccessResponse "Employee deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /employees/{id} [delete]
func (c *EmployeeController) DeleteEmployee(ctx *gin.Context) {
	err := c.employeeService.DeleteEmployee(ctx.Request.Context(), ctx.Param("id"))
	c.metrics.ObserveEmployeeOp("delete", err)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Employee deleted successfully"})
}
