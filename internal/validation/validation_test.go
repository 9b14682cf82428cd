package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/employee-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personRequest struct {
	ID    int64  `param:"id" json:"-" validate:"gt=0"`
	Name  string `json:"name" validate:"required,max=5"`
	Email string `json:"email" validate:"required,email"`
}

func (r *personRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "range", Message: "start must be before end"}}
}

func newContext(body string, id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/people/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/people/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate(t *testing.T) {
	t.Run("path id wins over body id", func(t *testing.T) {
		req := &personRequest{}
		err := BindAndValidate(newContext(`{"id": 99, "name": "Ada", "email": "ada@example.com"}`, "3"), req)
		require.NoError(t, err)
		assert.Equal(t, int64(3), req.ID)
		assert.Equal(t, "Ada", req.Name)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"name":`, "3"), &personRequest{}))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.NotEmpty(t, httpErr.Message)
		assert.Empty(t, httpErr.Errors)
	})

	t.Run("non numeric path id is a bad request", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{}`, "abc"), &personRequest{}))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})

	t.Run("field errors use client names", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"name": "Augusta", "email": "nope"}`, "3"), &personRequest{}))
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "Validation failed", httpErr.Message)
		assert.ElementsMatch(t, []errs.FieldError{
			{Field: "name", Error: "must not exceed 5 characters"},
			{Field: "email", Error: "must be a valid email address"},
		}, httpErr.Errors)
	})

	t.Run("param tag names the field when json is skipped", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{"name": "Ada", "email": "ada@example.com"}`, "0"), &personRequest{}))
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "id", httpErr.Errors[0].Field)
		assert.Equal(t, "must be greater than 0", httpErr.Errors[0].Error)
	})

	t.Run("custom validation errors", func(t *testing.T) {
		httpErr := asHTTPError(t, BindAndValidate(newContext(`{}`, "1"), &customRequest{}))
		assert.Equal(t, []errs.FieldError{{Field: "range", Error: "start must be before end"}}, httpErr.Errors)
	})
}
