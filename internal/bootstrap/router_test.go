package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/config"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	deps   *Dependencies
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`
server:
  mode: test
  storage_path: %q
database:
  driver: memory
jwt:
  secret: router-test-secret
  session_expiration: 1h
admin:
  username: admin
  password: admin123
`, filepath.Join(dir, "uploads"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	lgr := zerolog.Nop()
	deps, err := BuildDependencies(cfg, nil, lgr)
	require.NoError(t, err)
	deps.AuthService.WithBcryptCost(bcrypt.MinCost)
	require.NoError(t, SeedDefaults(context.Background(), cfg, deps))

	return &testApp{t: t, router: SetupRouter(cfg, deps, lgr), deps: deps}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	if a.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login() {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := a.do(req)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.LoginResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	assert.Equal(a.t, "Bearer", resp.TokenType)
	a.token = resp.Token
}

type formFile struct {
	name    string
	content []byte
}

func employeeRequest(t *testing.T, method, target string, fields map[string]string, courses []string, file *formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, c := range courses {
		require.NoError(t, w.WriteField("course", c))
	}
	if file != nil {
		part, err := w.CreateFormFile("img", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields(name, email string) map[string]string {
	return map[string]string{
		"name":        name,
		"email":       email,
		"mobile":      "5551234567",
		"designation": "HR",
		"gender":      "F",
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func (a *testApp) createEmployee(name, email string) *models.Employee {
	a.t.Helper()
	w := a.do(employeeRequest(a.t, http.MethodPost, "/api/employees", validFields(name, email), []string{"MCA"}, nil))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var emp models.Employee
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &emp))
	return &emp
}

func TestEmployeeRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = app.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = app.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAcceptsLegacyFieldNames(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"f_userName":"admin","f_Pwd":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestEmployeeLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w := app.do(employeeRequest(t, http.MethodPost, "/api/employees",
		validFields("Asha", "asha@example.com"), []string{"MCA", "BSC"}, &formFile{"me.png", pngBytes}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"MCA", "BSC"}, created.Courses)
	require.True(t, strings.HasPrefix(created.PhotoPath, UploadsURLPrefix+"/"))

	// the stored photo is served statically
	w = app.do(httptest.NewRequest(http.MethodGet, created.PhotoPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	update := validFields("Asha K", "asha@example.com")
	update["designation"] = "Manager"
	w = app.do(employeeRequest(t, http.MethodPut, "/api/employees/"+created.ID, update, nil, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, "Manager", updated.Designation)
	assert.Equal(t, created.PhotoPath, updated.PhotoPath)
	assert.Empty(t, updated.Courses)

	w = app.do(httptest.NewRequest(http.MethodDelete, "/api/employees/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Employee deleted successfully")

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "not-found", string(resp.Error))
	assert.Equal(t, "Employee not found", resp.Message)
}

func TestCreateEmployeeValidationErrors(t *testing.T) {
	app := newTestApp(t)
	app.login()
	app.createEmployee("Asha", "asha@example.com")

	missing := validFields("", "ravi@example.com")
	badMobile := validFields("Ravi", "ravi@example.com")
	badMobile["mobile"] = "55-12"

	tests := []struct {
		name   string
		fields map[string]string
		file   *formFile
		reason string
	}{
		{"missing name", missing, nil, "missing-fields"},
		{"bad email", validFields("Ravi", "ravi.example.com"), nil, "invalid-email-format"},
		{"duplicate email", validFields("Ravi", "asha@example.com"), nil, "duplicate-email"},
		{"bad mobile", badMobile, nil, "invalid-mobile-format"},
		{"bad file type", validFields("Ravi", "ravi@example.com"), &formFile{"me.gif", []byte("GIF89a")}, "invalid-file-type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(employeeRequest(t, http.MethodPost, "/api/employees", tt.fields, nil, tt.file))
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.Equal(t, tt.reason, string(resp.Error))
			assert.NotEmpty(t, resp.Fields)
		})
	}

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var all []*models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	entries, err := os.ReadDir(app.deps.FileStorage.BasePath())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateUnknownEmployee(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w := app.do(employeeRequest(t, http.MethodPut, "/api/employees/does-not-exist", validFields("Ravi", "ravi@example.com"), nil, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(httptest.NewRequest(http.MethodDelete, "/api/employees/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEmployees(t *testing.T) {
	app := newTestApp(t)
	app.login()
	for i, name := range []string{"Charlie", "alice", "Bob", "Alicia", "Dave", "Eve", "Alan"} {
		app.createEmployee(name, fmt.Sprintf("user%d@example.com", i))
	}

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?search=ALI&sortBy=name&order=asc", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page dto.EmployeeListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	// raw comparison puts upper case first
	assert.Equal(t, "Alicia", page.Items[0].Name)
	assert.Equal(t, "alice", page.Items[1].Name)
	assert.Equal(t, 2, page.Pagination.TotalItems)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Eve", page.Items[0].Name)
	assert.Equal(t, 7, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?page=9", nil))
	require.Equal(t, http.StatusOK, w.Code)
	page = dto.EmployeeListResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Empty(t, page.Items)
	assert.Equal(t, 9, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?size=500", nil))
	require.Equal(t, http.StatusOK, w.Code)
	page = dto.EmployeeListResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 7)
	assert.Equal(t, 100, page.Pagination.PageSize)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees/search?sortBy=salary", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)

	w = app.do(httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := app.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, config.DriverMemory, health.Storage)

	app.login()
	app.createEmployee("Asha", "asha@example.com")

	w = app.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "empdesk_http_requests_total")
	assert.Contains(t, w.Body.String(), "empdesk_stored_employees 1")
}
