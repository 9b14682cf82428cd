package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/employee-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "employees_email_key"`,
		TableName:      "employees",
		ConstraintName: "employees_email_key",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("save employee: %w", pgErr)))

	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "EMPLOYEE_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "An Employee with this Email already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		TableName:  "employees",
		ColumnName: "first_name",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "EMPLOYEE_REQUIRED", httpErr.Code)
	assert.Equal(t, "The First Name is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "first_name", httpErr.Errors[0].Field)
}

func TestHandleError_ForeignKeyAndCheck(t *testing.T) {
	fk := asHTTPError(t, HandleError(&pgconn.PgError{Code: "23503", TableName: "employees", ColumnName: "manager_id"}))
	assert.Equal(t, http.StatusBadRequest, fk.Status)
	assert.Equal(t, "The referenced Manager does not exist", fk.Message)

	check := asHTTPError(t, HandleError(&pgconn.PgError{Code: "23514", TableName: "employees", ColumnName: "email"}))
	assert.Equal(t, http.StatusBadRequest, check.Status)
	assert.Equal(t, "EMPLOYEE_INVALID", check.Code)
}

func TestHandleError_NoRows(t *testing.T) {
	withTable := asHTTPError(t, HandleError(fmt.Errorf("table:employees: %w", pgx.ErrNoRows)))
	assert.Equal(t, http.StatusNotFound, withTable.Status)
	assert.Equal(t, "Employee not found", withTable.Message)

	plain := asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, plain.Status)
	assert.Equal(t, "Resource not found", plain.Message)
}

func TestHandleError_PassThroughAndFallback(t *testing.T) {
	original := errs.NewConflictError("taken", true, nil)
	assert.Same(t, original, HandleError(original))

	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)

	unknownPg := asHTTPError(t, HandleError(&pgconn.PgError{Code: "XX000"}))
	assert.Equal(t, http.StatusInternalServerError, unknownPg.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, Other, ErrCode(errors.New("x")))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgErr))
}

func TestUniqueColumn(t *testing.T) {
	assert.Equal(t, "email", uniqueColumn("employees_email_key"))
	assert.Equal(t, "email", uniqueColumn("unique_employees_email"))
	assert.Equal(t, "", uniqueColumn("employees_pkey"))
	assert.Equal(t, "", uniqueColumn(""))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "EMPLOYEE_ALREADY_EXISTS", errorCode("employees", UniqueViolation))
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", errorCode("employees", ForeignKeyViolation))
	assert.Equal(t, "RECORD_ERROR", errorCode("", DeadlockDetected))
}
