package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/employee-api/internal/config"
	"github.com/deppfellow/employee-api/internal/errs"
	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/middleware"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/deppfellow/employee-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmployeeService records calls and returns canned results.
type mockEmployeeService struct {
	stored      map[int64]model.Employee
	createErr   error
	created     []model.Employee
	updated     []model.Employee
	deleted     []int64
	searchCalls [][2]string
}

func newMockEmployeeService(seed ...model.Employee) *mockEmployeeService {
	m := &mockEmployeeService{stored: map[int64]model.Employee{}}
	for _, e := range seed {
		m.stored[e.ID] = e
	}
	return m
}

func (m *mockEmployeeService) Create(_ context.Context, e model.Employee) (model.Employee, error) {
	m.created = append(m.created, e)
	if m.createErr != nil {
		return model.Employee{}, m.createErr
	}
	e.ID = int64(len(m.stored) + 1)
	m.stored[e.ID] = e
	return e, nil
}

func (m *mockEmployeeService) ListAll(_ context.Context) ([]model.Employee, error) {
	out := []model.Employee{}
	for _, e := range m.stored {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeService) GetByID(_ context.Context, id int64) (utils.Option[model.Employee], error) {
	if e, ok := m.stored[id]; ok {
		return utils.Some(e), nil
	}
	return utils.None[model.Employee](), nil
}

func (m *mockEmployeeService) Update(_ context.Context, e model.Employee) (model.Employee, error) {
	m.updated = append(m.updated, e)
	m.stored[e.ID] = e
	return e, nil
}

func (m *mockEmployeeService) DeleteByID(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.stored, id)
	return nil
}

func (m *mockEmployeeService) SearchByName(_ context.Context, firstName, lastName string) ([]model.Employee, error) {
	m.searchCalls = append(m.searchCalls, [2]string{firstName, lastName})
	out := []model.Employee{}
	for _, e := range m.stored {
		if e.FirstName == firstName && e.LastName == lastName {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{Config: config.Default(), Logger: &logger}
}

func newEmployeeEcho(svc EmployeeService) *echo.Echo {
	s := newTestServer()
	h := NewEmployeeHandler(s, svc)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	g := e.Group("/api/employees")
	g.POST("", h.CreateEmployee)
	g.GET("", h.ListEmployees)
	g.GET("/search", h.SearchEmployees)
	g.GET("/:id", h.GetEmployee)
	g.PUT("/:id", h.UpdateEmployee)
	g.DELETE("/:id", h.DeleteEmployee)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var ada = model.Employee{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

func TestCreateEmployee(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := newMockEmployeeService()
		rec := do(newEmployeeEcho(svc), http.MethodPost, "/api/employees",
			`{"id": 42, "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got model.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, ada, got)

		require.Len(t, svc.created, 1)
		assert.Zero(t, svc.created[0].ID)
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		svc := newMockEmployeeService()
		svc.createErr = &errs.HTTPError{Code: "EMPLOYEE_ALREADY_EXISTS", Message: "taken", Status: http.StatusConflict}

		rec := do(newEmployeeEcho(svc), http.MethodPost, "/api/employees",
			`{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "EMPLOYEE_ALREADY_EXISTS")
	})

	t.Run("invalid body is 400 with field errors", func(t *testing.T) {
		svc := newMockEmployeeService()
		rec := do(newEmployeeEcho(svc), http.MethodPost, "/api/employees", `{"firstName": "Ada", "email": "nope"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.ElementsMatch(t, []errs.FieldError{
			{Field: "lastName", Error: "is required"},
			{Field: "email", Error: "must be a valid email address"},
		}, body.Errors)
		assert.Empty(t, svc.created)
	})

	t.Run("unexpected error is 500", func(t *testing.T) {
		svc := newMockEmployeeService()
		svc.createErr = errors.New("db gone")
		rec := do(newEmployeeEcho(svc), http.MethodPost, "/api/employees",
			`{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListEmployees(t *testing.T) {
	rec := do(newEmployeeEcho(newMockEmployeeService()), http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(newEmployeeEcho(newMockEmployeeService(ada)), http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}]`, rec.Body.String())
}

func TestGetEmployee(t *testing.T) {
	e := newEmployeeEcho(newMockEmployeeService(ada))

	rec := do(e, http.MethodGet, "/api/employees/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/employees/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/employees/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEmployee(t *testing.T) {
	t.Run("merges body onto stored record, path id wins", func(t *testing.T) {
		svc := newMockEmployeeService(ada)
		rec := do(newEmployeeEcho(svc), http.MethodPut, "/api/employees/1",
			`{"id": 9, "firstName": "Augusta", "lastName": "King", "email": "augusta@example.com"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		want := model.Employee{ID: 1, FirstName: "Augusta", LastName: "King", Email: "augusta@example.com"}
		var got model.Employee
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, want, got)
		assert.Equal(t, []model.Employee{want}, svc.updated)
	})

	t.Run("missing employee is 404 and never updated", func(t *testing.T) {
		svc := newMockEmployeeService()
		rec := do(newEmployeeEcho(svc), http.MethodPut, "/api/employees/5",
			`{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, svc.updated)
	})
}

func TestDeleteEmployee(t *testing.T) {
	svc := newMockEmployeeService(ada)
	e := newEmployeeEcho(svc)

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodDelete, "/api/employees/1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, EmployeeDeletedMessage, rec.Body.String())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain)
	}
	assert.Equal(t, []int64{1, 1}, svc.deleted)
}

func TestSearchEmployees(t *testing.T) {
	svc := newMockEmployeeService(ada)
	e := newEmployeeEcho(svc)

	rec := do(e, http.MethodGet, "/api/employees/search?firstName=Ada&lastName=Lovelace", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/employees/search?firstName=Grace&lastName=Hopper", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/employees/search?firstName=Ada", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"lastName"`)
	assert.Len(t, svc.searchCalls, 2)
}
