package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

// MemoryEmployeeRepository keeps employee records in process memory.
// The email check and the write happen under one lock, so two concurrent
// creates with the same email cannot both succeed.
type MemoryEmployeeRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Employee
	order []string
}

// NewMemoryEmployeeRepository creates an empty MemoryEmployeeRepository
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{byID: make(map[string]*models.Employee)}
}

func (r *MemoryEmployeeRepository) emailTakenLocked(email, excludeID string) bool {
	for id, e := range r.byID {
		if id != excludeID && e.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(employee.Email, "") {
		return apperrors.ErrEmailAlreadyExists
	}
	r.byID[employee.ID] = employee.Clone()
	r.order = append(r.order, employee.ID)
	return nil
}

func (r *MemoryEmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return e.Clone(), nil
}

func (r *MemoryEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if e := r.byID[id]; e.Email == email {
			return e.Clone(), nil
		}
	}
	return nil, apperrors.ErrEmployeeNotFound
}

func (r *MemoryEmployeeRepository) GetAll(ctx context.Context) ([]*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employees := make([]*models.Employee, 0, len(r.order))
	for _, id := range r.order {
		employees = append(employees, r.byID[id].Clone())
	}
	return employees, nil
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[employee.ID]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	if r.emailTakenLocked(employee.Email, employee.ID) {
		return apperrors.ErrEmailAlreadyExists
	}
	r.byID[employee.ID] = employee.Clone()
	return nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return apperrors.ErrEmployeeNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryEmployeeRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

// MemoryAdminRepository keeps admin accounts in process memory
type MemoryAdminRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*models.Admin
}

// NewMemoryAdminRepository creates an empty MemoryAdminRepository
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{byUsername: make(map[string]*models.Admin)}
}

func (r *MemoryAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[admin.Username]; ok {
		return apperrors.ErrAdminAlreadyExists
	}
	stored := *admin
	r.byUsername[admin.Username] = &stored
	return nil
}

func (r *MemoryAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.byUsername[username]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	found := *admin
	return &found, nil
}

func (r *MemoryAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, admin := range r.byUsername {
		if admin.ID == id {
			admin.PasswordHash = passwordHash
			return nil
		}
	}
	return apperrors.ErrAdminNotFound
}

func (r *MemoryAdminRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername), nil
}

// MemorySessionRepository keeps login sessions in process memory
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewMemorySessionRepository creates an empty MemorySessionRepository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	found := *session
	return &found, nil
}

func (r *MemorySessionRepository) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	session.Revoked = true
	return nil
}

func (r *MemorySessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var deleted int64
	for id, session := range r.sessions {
		if !now.Before(session.ExpiresAt) || (session.Revoked && now.Sub(session.CreatedAt) > 24*time.Hour) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}
