package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

func newEmployee(name, email string) *models.Employee {
	now := time.Now()
	return &models.Employee{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		Mobile:      "5551234",
		Designation: "HR",
		Gender:      "F",
		Courses:     []string{"MCA"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMemoryEmployeeRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()

	ann := newEmployee("Ann", "ann@x.io")
	bob := newEmployee("Bob", "bob@x.io")
	require.NoError(t, repo.Create(ctx, ann))
	require.NoError(t, repo.Create(ctx, bob))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)

	found, err := repo.GetByEmail(ctx, "bob@x.io")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)

	// returned records are copies
	found.Courses[0] = "BCA"
	again, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"MCA"}, again.Courses)

	again.Name = "Robert"
	require.NoError(t, repo.Update(ctx, again))
	updated, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)

	require.NoError(t, repo.Delete(ctx, ann.ID))
	_, err = repo.GetByID(ctx, ann.ID)
	assert.ErrorIs(t, err, apperrors.ErrEmployeeNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ann.ID), apperrors.ErrEmployeeNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryEmployeeRepositoryEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()

	ann := newEmployee("Ann", "ann@x.io")
	bob := newEmployee("Bob", "bob@x.io")
	require.NoError(t, repo.Create(ctx, ann))
	require.NoError(t, repo.Create(ctx, bob))

	assert.ErrorIs(t, repo.Create(ctx, newEmployee("Other", "ann@x.io")), apperrors.ErrEmailAlreadyExists)

	bob.Email = "ann@x.io"
	assert.ErrorIs(t, repo.Update(ctx, bob), apperrors.ErrEmailAlreadyExists)

	// keeping one's own email is fine
	ann.Name = "Annie"
	assert.NoError(t, repo.Update(ctx, ann))
}

func TestMemoryEmployeeRepositoryConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, newEmployee("Dup", "dup@x.io"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestMemoryAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository()

	admin := &models.Admin{ID: uuid.NewString(), Username: "root", PasswordHash: "h1", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, admin))
	assert.ErrorIs(t, repo.Create(ctx, admin), apperrors.ErrAdminAlreadyExists)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "h2"))
	found, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "h2", found.PasswordHash)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrAdminNotFound)
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	now := time.Now()
	repo.now = func() time.Time { return now }

	live := &models.Session{ID: uuid.NewString(), AdminID: "a", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	stale := &models.Session{ID: uuid.NewString(), AdminID: "a", ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))

	require.NoError(t, repo.Revoke(ctx, live.ID))
	got, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, got.Revoked)
	assert.False(t, got.Active(now))

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(ctx, stale.ID)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), apperrors.ErrTokenNotFound)
}
