package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("img", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["img"][0]
}

type employeeFixture struct {
	svc     EmployeeService
	repo    repositories.EmployeeRepository
	storage *filestorage.LocalStorage
	dir     string
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)
	repo := repositories.NewMemoryEmployeeRepository()
	return &employeeFixture{
		svc:     NewEmployeeService(repo, storage, zerolog.Nop()),
		repo:    repo,
		storage: storage,
		dir:     dir,
	}
}

func (f *employeeFixture) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	return len(entries)
}

func validFields(email string) models.EmployeeFields {
	return models.EmployeeFields{
		Name:        "Ann",
		Email:       email,
		Mobile:      "5551234",
		Designation: "HR",
		Gender:      "F",
		Courses:     []string{"MCA"},
	}
}

func validationErr(t *testing.T, err error) *apperrors.ValidationError {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr
}

func TestCreateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	fields := validFields("a@b.co")
	fields.Courses = []string{"MCA", "", "BCA", "MCA"}

	employee, err := f.svc.CreateEmployee(ctx, fields, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, employee.ID)
	assert.Equal(t, "Ann", employee.Name)
	assert.Equal(t, []string{"MCA", "BCA"}, employee.Courses)
	assert.Empty(t, employee.PhotoPath)
	assert.False(t, employee.CreatedAt.IsZero())

	stored, err := f.svc.GetEmployeeByID(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.Email, stored.Email)
}

func TestCreateEmployeeWithPhoto(t *testing.T) {
	f := newEmployeeFixture(t)

	employee, err := f.svc.CreateEmployee(context.Background(), validFields("a@b.co"), uploadHeader(t, "me.png", pngBytes))
	require.NoError(t, err)

	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, employee.PhotoPath)
	_, err = os.Stat(f.storage.GetFullPath(employee.PhotoPath))
	assert.NoError(t, err)
}

func TestCreateEmployeeMissingFields(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.svc.CreateEmployee(context.Background(), models.EmployeeFields{Name: "Ann"}, nil)
	verr := validationErr(t, err)

	assert.Equal(t, apperrors.ReasonMissingFields, verr.Reason())
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		assert.Equal(t, apperrors.ReasonMissingFields, v.Reason)
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"email", "mobile", "designation", "gender"}, fields)

	// whitespace-only values count as missing
	blank := validFields("ann@example.com")
	blank.Name = "   "
	blank.Gender = "\t"
	_, err = f.svc.CreateEmployee(context.Background(), blank, nil)
	verr = validationErr(t, err)
	require.Len(t, verr.Violations, 2)
	assert.Equal(t, "name", verr.Violations[0].Field)
	assert.Equal(t, "gender", verr.Violations[1].Field)

	all, err := f.svc.GetAllEmployees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateEmployeeFormatViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.EmployeeFields)
		reasons []apperrors.Reason
	}{
		{
			name:    "bad email",
			mutate:  func(f *models.EmployeeFields) { f.Email = "a@b" },
			reasons: []apperrors.Reason{apperrors.ReasonInvalidEmailFormat},
		},
		{
			name:    "bad mobile",
			mutate:  func(f *models.EmployeeFields) { f.Mobile = "555-1234" },
			reasons: []apperrors.Reason{apperrors.ReasonInvalidMobileFormat},
		},
		{
			name: "all in rule order",
			mutate: func(f *models.EmployeeFields) {
				f.Name = ""
				f.Email = "not an email"
				f.Mobile = "12ab"
			},
			reasons: []apperrors.Reason{
				apperrors.ReasonMissingFields,
				apperrors.ReasonInvalidEmailFormat,
				apperrors.ReasonInvalidMobileFormat,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEmployeeFixture(t)
			fields := validFields("a@b.co")
			tt.mutate(&fields)

			_, err := f.svc.CreateEmployee(context.Background(), fields, nil)
			verr := validationErr(t, err)

			got := make([]apperrors.Reason, 0, len(verr.Violations))
			for _, v := range verr.Violations {
				got = append(got, v.Reason)
			}
			assert.Equal(t, tt.reasons, got)
			assert.Equal(t, tt.reasons[0], verr.Reason())
		})
	}
}

func TestCreateEmployeeDuplicateEmail(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateEmployee(ctx, validFields("a@b.co"), nil)
	require.NoError(t, err)

	_, err = f.svc.CreateEmployee(ctx, validFields("a@b.co"), uploadHeader(t, "me.png", pngBytes))
	verr := validationErr(t, err)
	assert.Equal(t, apperrors.ReasonDuplicateEmail, verr.Reason())
	assert.Equal(t, 0, f.storedFiles(t))

	// email comparison is case-sensitive
	_, err = f.svc.CreateEmployee(ctx, validFields("A@b.co"), nil)
	assert.NoError(t, err)
}

func TestCreateEmployeeInvalidFileType(t *testing.T) {
	f := newEmployeeFixture(t)

	for _, name := range []string{"cv.pdf", "photo.PNG", "archive.png.zip"} {
		_, err := f.svc.CreateEmployee(context.Background(), validFields("a@b.co"), uploadHeader(t, name, pngBytes))
		verr := validationErr(t, err)
		assert.Equal(t, apperrors.ReasonInvalidFileType, verr.Reason(), name)
	}

	all, err := f.svc.GetAllEmployees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, f.storedFiles(t))
}

func TestCreateEmployeeRejectsSniffedContent(t *testing.T) {
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, "/uploads", filestorage.WithAllowedMimeTypes("image/png", "image/jpeg"))
	require.NoError(t, err)
	svc := NewEmployeeService(repositories.NewMemoryEmployeeRepository(), storage, zerolog.Nop())

	_, err = svc.CreateEmployee(context.Background(), validFields("a@b.co"), uploadHeader(t, "fake.png", []byte("hello")))
	verr := validationErr(t, err)
	assert.Equal(t, apperrors.ReasonInvalidFileType, verr.Reason())
}

type failingEmployeeRepo struct {
	repositories.EmployeeRepository
	err error
}

func (r *failingEmployeeRepo) Create(ctx context.Context, e *models.Employee) error { return r.err }
func (r *failingEmployeeRepo) Update(ctx context.Context, e *models.Employee) error { return r.err }

func TestCreateEmployeePersistFailureRemovesPhoto(t *testing.T) {
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	tests := []struct {
		name   string
		err    error
		reason apperrors.Reason
	}{
		{"store outage", errors.New("connection reset"), ""},
		{"lost email race", apperrors.ErrEmailAlreadyExists, apperrors.ReasonDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &failingEmployeeRepo{EmployeeRepository: repositories.NewMemoryEmployeeRepository(), err: tt.err}
			svc := NewEmployeeService(repo, storage, zerolog.Nop())

			_, err := svc.CreateEmployee(context.Background(), validFields("a@b.co"), uploadHeader(t, "me.jpg", []byte("jpeg")))
			require.Error(t, err)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, validationErr(t, err).Reason())
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestCreateEmployeeConcurrentSameEmail(t *testing.T) {
	f := newEmployeeFixture(t)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateEmployee(context.Background(), validFields("race@b.co"), nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperrors.ReasonDuplicateEmail, validationErr(t, err).Reason())
	}
	assert.Equal(t, 1, succeeded)
}

func TestGetEmployeeNotFound(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "", "6c0f3a43-3a6f-4b35-9b7e-1b9cf8f0c2a1"} {
		_, err := f.svc.GetEmployeeByID(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, id)
		assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, id), apperrors.ErrResourceNotFound, id)
		_, err = f.svc.UpdateEmployee(ctx, id, validFields("a@b.co"), nil)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, id)
	}
}

func TestUpdateEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, validFields("a@b.co"), uploadHeader(t, "me.png", pngBytes))
	require.NoError(t, err)

	// keeping its own email and sending no file keeps the photo
	fields := validFields("a@b.co")
	fields.Name = "Annie"
	fields.Courses = nil
	updated, err := f.svc.UpdateEmployee(ctx, created.ID, fields, nil)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, []string{}, updated.Courses)
	assert.Equal(t, created.PhotoPath, updated.PhotoPath)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// a new file replaces the photo
	replaced, err := f.svc.UpdateEmployee(ctx, created.ID, fields, uploadHeader(t, "new.jpeg", []byte("jpeg")))
	require.NoError(t, err)
	assert.NotEqual(t, created.PhotoPath, replaced.PhotoPath)
	assert.Regexp(t, `\.jpeg$`, replaced.PhotoPath)

	stored, err := f.svc.GetEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, replaced.PhotoPath, stored.PhotoPath)
	assert.True(t, created.CreatedAt.Equal(stored.CreatedAt))
}

func TestUpdateEmployeeDuplicateEmail(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	ann, err := f.svc.CreateEmployee(ctx, validFields("ann@b.co"), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateEmployee(ctx, validFields("bob@b.co"), nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateEmployee(ctx, ann.ID, validFields("bob@b.co"), nil)
	assert.Equal(t, apperrors.ReasonDuplicateEmail, validationErr(t, err).Reason())

	stored, err := f.svc.GetEmployeeByID(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@b.co", stored.Email)
}

func TestUpdateEmployeeInvalidFileKeepsRecord(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, validFields("a@b.co"), nil)
	require.NoError(t, err)

	fields := validFields("a@b.co")
	fields.Name = "Changed"
	_, err = f.svc.UpdateEmployee(ctx, created.ID, fields, uploadHeader(t, "doc.gif", []byte("GIF89a")))
	assert.Equal(t, apperrors.ReasonInvalidFileType, validationErr(t, err).Reason())

	stored, err := f.svc.GetEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestDeleteEmployee(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, validFields("a@b.co"), uploadHeader(t, "me.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, created.ID))
	_, err = f.svc.GetEmployeeByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrEmployeeNotFound)

	// the photo file stays on disk
	_, err = os.Stat(f.storage.GetFullPath(created.PhotoPath))
	assert.NoError(t, err)

	// the email is free again
	_, err = f.svc.CreateEmployee(ctx, validFields("a@b.co"), nil)
	assert.NoError(t, err)
}

func seedEmployees(t *testing.T, f *employeeFixture) {
	t.Helper()
	base := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	people := []struct{ name, email, mobile string }{
		{"Carol", "carol@corp.io", "300"},
		{"alice", "alice@corp.io", "100"},
		{"Bob", "bob@home.net", "200"},
		{"Dave", "dave@corp.io", "100"},
	}
	for i, p := range people {
		fields := validFields(p.email)
		fields.Name = p.name
		fields.Mobile = p.mobile
		impl := f.svc.(*employeeServiceImpl)
		created := base.AddDate(0, 0, i)
		impl.now = func() time.Time { return created }
		_, err := f.svc.CreateEmployee(context.Background(), fields, nil)
		require.NoError(t, err)
	}
}

func names(employees []*models.Employee) []string {
	out := make([]string, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.Name)
	}
	return out
}

func TestListEmployees(t *testing.T) {
	f := newEmployeeFixture(t)
	seedEmployees(t, f)

	tests := []struct {
		name  string
		query models.EmployeeQuery
		want  []string
		total int
	}{
		{"store order", models.EmployeeQuery{}, []string{"Carol", "alice", "Bob", "Dave"}, 4},
		{"search name ignores case", models.EmployeeQuery{Search: "ALI"}, []string{"alice"}, 1},
		{"search email", models.EmployeeQuery{Search: "corp"}, []string{"Carol", "alice", "Dave"}, 3},
		{"search us date", models.EmployeeQuery{Search: "3/6/2024"}, []string{"alice"}, 1},
		{"search iso date", models.EmployeeQuery{Search: "2024-03-07"}, []string{"Bob"}, 1},
		{"sort name asc is case-sensitive", models.EmployeeQuery{SortBy: "name"}, []string{"Bob", "Carol", "Dave", "alice"}, 4},
		{"sort created desc", models.EmployeeQuery{SortBy: "createdAt", Order: models.SortDesc}, []string{"Dave", "Bob", "alice", "Carol"}, 4},
		{"sort is stable", models.EmployeeQuery{SortBy: "mobile"}, []string{"alice", "Dave", "Bob", "Carol"}, 4},
		{"unknown key keeps order", models.EmployeeQuery{SortBy: "salary"}, []string{"Carol", "alice", "Bob", "Dave"}, 4},
		{"second page", models.EmployeeQuery{Page: 2, Size: 3}, []string{"Dave"}, 4},
		{"page past end", models.EmployeeQuery{Page: 9, Size: 3}, []string{}, 4},
		{"no match", models.EmployeeQuery{Search: "zzz"}, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := f.svc.ListEmployees(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestEmployeeTimestampsUseMicrosecondPrecision(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	impl := f.svc.(*employeeServiceImpl)

	created := time.Date(2024, time.May, 1, 9, 30, 0, 123456789, time.UTC)
	impl.now = func() time.Time { return created }
	emp, err := f.svc.CreateEmployee(ctx, validFields("ann@example.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, 123456000, emp.CreatedAt.Nanosecond())
	assert.True(t, emp.CreatedAt.Equal(emp.UpdatedAt))

	impl.now = func() time.Time { return created.Add(time.Minute + 999*time.Nanosecond) }
	updated, err := f.svc.UpdateEmployee(ctx, emp.ID, validFields("ann@example.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, 123456000, updated.UpdatedAt.Nanosecond())
	assert.True(t, updated.CreatedAt.Equal(emp.CreatedAt))
}
