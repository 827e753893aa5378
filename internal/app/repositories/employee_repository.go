package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/dberrors"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

const employeesEmailConstraint = "employees_email_key"

var employeeColumns = []string{
	"id", "name", "email", "mobile", "designation", "gender", "courses", "photo_path", "created_at", "updated_at",
}

// PgEmployeeRepository handles employee database operations
type PgEmployeeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmployeeRepository creates a new PgEmployeeRepository
func NewEmployeeRepository(db *pgxpool.Pool) *PgEmployeeRepository {
	return &PgEmployeeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var id uuid.UUID
	employee := &models.Employee{}
	err := row.Scan(
		&id,
		&employee.Name,
		&employee.Email,
		&employee.Mobile,
		&employee.Designation,
		&employee.Gender,
		&employee.Courses,
		&employee.PhotoPath,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	employee.ID = id.String()
	if employee.Courses == nil {
		employee.Courses = []string{}
	}
	return employee, nil
}

// Create inserts a new employee. The email uniqueness is enforced by the employees_email_key constraint.
func (r *PgEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	id, err := uuid.Parse(employee.ID)
	if err != nil {
		return fmt.Errorf("invalid employee id %q: %w", employee.ID, err)
	}

	sql, args, err := r.sb.Insert("employees").
		Columns(employeeColumns...).
		Values(
			id,
			employee.Name,
			employee.Email,
			employee.Mobile,
			employee.Designation,
			employee.Gender,
			coursesOrEmpty(employee.Courses),
			employee.PhotoPath,
			employee.CreatedAt,
			employee.UpdatedAt,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create employee SQL")
		return fmt.Errorf("failed to build create employee query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, employeesEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", employee.Email).Msg("Error executing create employee query")
		return fmt.Errorf("error creating employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *PgEmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"id": uid})
}

// GetByEmail retrieves an employee by exact email
func (r *PgEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *PgEmployeeRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee SQL")
		return nil, fmt.Errorf("failed to build get employee query: %w", err)
	}

	employee, err := scanEmployee(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		logger.Error().Err(err).Msg("Error scanning employee row")
		return nil, fmt.Errorf("error getting employee: %w", err)
	}

	return employee, nil
}

// GetAll retrieves all employees in insertion order
func (r *PgEmployeeRepository) GetAll(ctx context.Context) ([]*models.Employee, error) {
	sql, args, err := r.sb.Select(employeeColumns...).
		From("employees").
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all employees SQL")
		return nil, fmt.Errorf("failed to build get all employees query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all employees query")
		return nil, fmt.Errorf("error querying employees: %w", err)
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning employee row during get all")
			return nil, fmt.Errorf("error scanning employee row: %w", err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating employee rows")
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}

	return employees, nil
}

// Update overwrites the mutable columns of an employee
func (r *PgEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	uid, err := uuid.Parse(employee.ID)
	if err != nil {
		return apperrors.ErrEmployeeNotFound
	}

	sql, args, err := r.sb.Update("employees").
		SetMap(map[string]interface{}{
			"name":        employee.Name,
			"email":       employee.Email,
			"mobile":      employee.Mobile,
			"designation": employee.Designation,
			"gender":      employee.Gender,
			"courses":     coursesOrEmpty(employee.Courses),
			"photo_path":  employee.PhotoPath,
			"updated_at":  employee.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": uid}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update employee SQL")
		return fmt.Errorf("failed to build update employee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, employeesEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("employeeID", employee.ID).Msg("Error executing update employee query")
		return fmt.Errorf("error updating employee: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}

	return nil
}

// Delete removes an employee by ID
func (r *PgEmployeeRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperrors.ErrEmployeeNotFound
	}

	sql, args, err := r.sb.Delete("employees").
		Where(squirrel.Eq{"id": uid}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete employee SQL")
		return fmt.Errorf("failed to build delete employee query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("employeeID", id).Msg("Error executing delete employee query")
		return fmt.Errorf("error deleting employee: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}

	return nil
}

// Count returns the number of stored employees
func (r *PgEmployeeRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("employees").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count employees query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting employees")
		return 0, fmt.Errorf("error counting employees: %w", err)
	}
	return count, nil
}

func coursesOrEmpty(courses []string) []string {
	if courses == nil {
		return []string{}
	}
	return courses
}
