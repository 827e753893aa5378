package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
	"github.com/yigit/empdesk/internal/pkg/helpers"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

// EmployeeService defines the interface for employee record operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, fields models.EmployeeFields, photo *multipart.FileHeader) (*models.Employee, error)
	GetAllEmployees(ctx context.Context) ([]*models.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, fields models.EmployeeFields, photo *multipart.FileHeader) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, query models.EmployeeQuery) ([]*models.Employee, int, error)
}

// employeeServiceImpl implements the EmployeeService interface
type employeeServiceImpl struct {
	employeeRepo repositories.EmployeeRepository
	storage      filestorage.FileStorage
	logger       zerolog.Logger
	now          func() time.Time
}

// NewEmployeeService creates a new employee service instance
func NewEmployeeService(
	employeeRepo repositories.EmployeeRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) EmployeeService {
	return &employeeServiceImpl{
		employeeRepo: employeeRepo,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// timestamp is the current UTC time at the precision postgres stores
func (s *employeeServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// validateEmployee checks every field rule and collects the violations in rule order.
// excludeID is the record being updated, whose own email does not count as a duplicate.
func (s *employeeServiceImpl) validateEmployee(ctx context.Context, fields models.EmployeeFields, excludeID string) error {
	verr := &apperrors.ValidationError{}

	required := []struct {
		field, value, label string
	}{
		{"name", fields.Name, "Name"},
		{"email", fields.Email, "Email"},
		{"mobile", fields.Mobile, "Mobile number"},
		{"designation", fields.Designation, "Designation"},
		{"gender", fields.Gender, "Gender"},
	}
	for _, r := range required {
		if validation.IsBlank(r.value) {
			verr.Add(r.field, apperrors.ReasonMissingFields, r.label+" is required")
		}
	}

	if !validation.IsBlank(fields.Email) {
		if !validation.IsValidEmail(fields.Email) {
			verr.Add("email", apperrors.ReasonInvalidEmailFormat, "Invalid email format")
		} else {
			existing, err := s.employeeRepo.GetByEmail(ctx, fields.Email)
			switch {
			case err == nil && existing.ID != excludeID:
				verr.Add("email", apperrors.ReasonDuplicateEmail, "Email already exists")
			case err != nil && !errors.Is(err, apperrors.ErrEmployeeNotFound):
				return fmt.Errorf("error checking email uniqueness: %w", err)
			}
		}
	}

	if !validation.IsBlank(fields.Mobile) && !validation.IsNumeric(fields.Mobile) {
		verr.Add("mobile", apperrors.ReasonInvalidMobileFormat, "Mobile number must be numeric")
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}

func invalidFileType() error {
	verr := &apperrors.ValidationError{}
	verr.Add("img", apperrors.ReasonInvalidFileType, apperrors.ErrInvalidFileType.Error())
	return verr
}

func duplicateEmail() error {
	verr := &apperrors.ValidationError{}
	verr.Add("email", apperrors.ReasonDuplicateEmail, "Email already exists")
	return verr
}

// storePhoto checks the upload name and saves it. It returns "" when no file was sent.
func (s *employeeServiceImpl) storePhoto(photo *multipart.FileHeader) (string, error) {
	if photo == nil {
		return "", nil
	}

	info, err := s.storage.SaveFile(photo)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedContent) {
			return "", invalidFileType()
		}
		return "", fmt.Errorf("error storing photo: %w", err)
	}
	return info.Path, nil
}

// discardPhoto removes a photo stored for a request that did not persist
func (s *employeeServiceImpl) discardPhoto(path string) {
	if path == "" {
		return
	}
	if err := s.storage.DeleteFile(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove orphaned photo")
	}
}

// CreateEmployee validates and stores a new employee record
func (s *employeeServiceImpl) CreateEmployee(ctx context.Context, fields models.EmployeeFields, photo *multipart.FileHeader) (*models.Employee, error) {
	if photo != nil && !validation.IsAllowedImageName(photo.Filename) {
		return nil, invalidFileType()
	}

	fields.Courses = validation.NormalizeCourses(fields.Courses)
	if err := s.validateEmployee(ctx, fields, ""); err != nil {
		return nil, err
	}

	photoPath, err := s.storePhoto(photo)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	employee := &models.Employee{
		ID:        uuid.NewString(),
		PhotoPath: photoPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	employee.Apply(fields)

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		s.discardPhoto(photoPath)
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, duplicateEmail()
		}
		return nil, fmt.Errorf("error creating employee: %w", err)
	}

	s.logger.Info().Str("employeeID", employee.ID).Str("email", employee.Email).Msg("Employee created")
	return employee, nil
}

// GetAllEmployees returns every employee record
func (s *employeeServiceImpl) GetAllEmployees(ctx context.Context) ([]*models.Employee, error) {
	employees, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving employees: %w", err)
	}
	return employees, nil
}

// GetEmployeeByID retrieves a single employee. Malformed IDs are reported as not found.
func (s *employeeServiceImpl) GetEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrEmployeeNotFound
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee replaces the mutable fields of a record and, when a file is sent, its photo
func (s *employeeServiceImpl) UpdateEmployee(ctx context.Context, id string, fields models.EmployeeFields, photo *multipart.FileHeader) (*models.Employee, error) {
	employee, err := s.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if photo != nil && !validation.IsAllowedImageName(photo.Filename) {
		return nil, invalidFileType()
	}

	fields.Courses = validation.NormalizeCourses(fields.Courses)
	if err := s.validateEmployee(ctx, fields, employee.ID); err != nil {
		return nil, err
	}

	photoPath, err := s.storePhoto(photo)
	if err != nil {
		return nil, err
	}

	employee.Apply(fields)
	if photoPath != "" {
		employee.PhotoPath = photoPath
	}
	employee.UpdatedAt = s.timestamp()

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		s.discardPhoto(photoPath)
		switch {
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			return nil, duplicateEmail()
		case errors.Is(err, apperrors.ErrEmployeeNotFound):
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error updating employee: %w", err)
	}

	s.logger.Info().Str("employeeID", employee.ID).Msg("Employee updated")
	return employee, nil
}

// DeleteEmployee removes a record. The stored photo is left in place.
func (s *employeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrEmployeeNotFound
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return apperrors.ErrEmployeeNotFound
		}
		return fmt.Errorf("error deleting employee: %w", err)
	}

	s.logger.Info().Str("employeeID", id).Msg("Employee deleted")
	return nil
}

// ListEmployees filters, sorts and pages the employee collection.
// It returns the requested page and the number of records that matched the search.
func (s *employeeServiceImpl) ListEmployees(ctx context.Context, query models.EmployeeQuery) ([]*models.Employee, int, error) {
	employees, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving employees: %w", err)
	}

	matched := filterEmployees(employees, query.Search)
	sortEmployees(matched, query.SortBy, query.Order)

	start, end := helpers.CalculateSliceIndices(query.Page, query.Size, len(matched))
	return matched[start:end], len(matched), nil
}

// filterEmployees keeps records whose name, email or creation date contains term, ignoring case
func filterEmployees(employees []*models.Employee, term string) []*models.Employee {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return employees
	}

	matched := make([]*models.Employee, 0, len(employees))
	for _, e := range employees {
		if matchesSearch(e, term) {
			matched = append(matched, e)
		}
	}
	return matched
}

func matchesSearch(e *models.Employee, term string) bool {
	if strings.Contains(strings.ToLower(e.Name), term) || strings.Contains(strings.ToLower(e.Email), term) {
		return true
	}
	for _, date := range helpers.FormatSearchDates(e.CreatedAt) {
		if strings.Contains(date, term) {
			return true
		}
	}
	return false
}

// sortEmployees orders records in place by key. Unknown keys leave store order untouched.
func sortEmployees(employees []*models.Employee, key string, order models.SortOrder) {
	less := employeeLess(key)
	if less == nil {
		return
	}
	desc := order == models.SortDesc
	sort.SliceStable(employees, func(i, j int) bool {
		if desc {
			return less(employees[j], employees[i])
		}
		return less(employees[i], employees[j])
	})
}

func employeeLess(key string) func(a, b *models.Employee) bool {
	switch key {
	case "name":
		return func(a, b *models.Employee) bool { return a.Name < b.Name }
	case "email":
		return func(a, b *models.Employee) bool { return a.Email < b.Email }
	case "mobile":
		return func(a, b *models.Employee) bool { return a.Mobile < b.Mobile }
	case "designation":
		return func(a, b *models.Employee) bool { return a.Designation < b.Designation }
	case "gender":
		return func(a, b *models.Employee) bool { return a.Gender < b.Gender }
	case "createdAt":
		return func(a, b *models.Employee) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	return nil
}
