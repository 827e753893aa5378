package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
)

// EmployeeRepository defines the storage operations for employee records
type EmployeeRepository interface {
	// Create stores a new record. Returns apperrors.ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	// GetAll returns every record in store order
	GetAll(ctx context.Context) ([]*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// AdminRepository defines the storage operations for admin accounts
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the storage operations for login sessions
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	EmployeeRepository EmployeeRepository
	AdminRepository    AdminRepository
	SessionRepository  SessionRepository
}

// NewRepositories initializes the PostgreSQL backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EmployeeRepository: NewEmployeeRepository(db),
		AdminRepository:    NewAdminRepository(db),
		SessionRepository:  NewSessionRepository(db),
	}
}

// NewMemoryRepositories initializes process-local repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		EmployeeRepository: NewMemoryEmployeeRepository(),
		AdminRepository:    NewMemoryAdminRepository(),
		SessionRepository:  NewMemorySessionRepository(),
	}
}
