package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/employee-api/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error or *pgconn.PgError in err's
// chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

// ConvertPgError copies the fields of a Postgres error into an *Error.
// The original stays reachable through Unwrap.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// codeActions is the suffix of the machine code for each violation.
var codeActions = map[Code]string{
	ForeignKeyViolation: "NOT_FOUND",
	UniqueViolation:     "ALREADY_EXISTS",
	NotNullViolation:    "REQUIRED",
	CheckViolation:      "INVALID",
}

// errorCode builds "<ENTITY>_<ACTION>" codes such as EMPLOYEE_ALREADY_EXISTS.
func errorCode(table string, code Code) string {
	domain := strings.ToUpper(singular(table))
	if domain == "" {
		domain = "RECORD"
	}

	action, ok := codeActions[code]
	if !ok {
		action = "ERROR"
	}
	return domain + "_" + action
}

// singular strips one trailing "s". Good enough for "employees".
func singular(table string) string {
	if len(table) > 1 {
		return strings.TrimSuffix(strings.TrimSuffix(table, "s"), "S")
	}
	return table
}

// entityName names the thing an error is about: the target of a foreign
// key column ("manager_id" -> "Manager"), else the singular table name.
func entityName(table, column string) string {
	if target, ok := strings.CutSuffix(strings.ToLower(column), "_id"); ok && target != "" {
		return humanizeText(target)
	}
	if table != "" {
		return humanizeText(singular(table))
	}
	return "record"
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "An"
	}
	return "A"
}

// humanizeText turns "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// uniqueKeySuffix matches Postgres' generated "<table>_<column>_key" names.
var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// uniqueColumn recovers the column from a unique constraint name, either
// "unique_<table>_<column>" or "<table>_<column>_key".
func uniqueColumn(constraint string) string {
	if strings.HasPrefix(constraint, "unique_") {
		if parts := strings.Split(constraint, "_"); len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if m := uniqueKeySuffix.FindStringSubmatch(constraint); len(m) > 1 {
		return m[1]
	}
	return ""
}

// HandleError converts a database error into an *errs.HTTPError.
//
// HTTPErrors pass through untouched. Postgres constraint violations become
// 409 (unique) or 400 (foreign key, not null, check). A no-rows error
// becomes 404, named after the table when the repository prefixed it with
// "table:<name>:". Anything else is a 500 that leaks no detail.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(ConvertPgError(pgErr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return notFound(err)
	}

	return errs.NewInternalServerError()
}

func fromPgError(e *Error) error {
	code := errorCode(e.TableName, e.Code)
	entity := entityName(e.TableName, e.ColumnName)
	field := humanizeText(e.ColumnName)

	switch e.Code {
	case ForeignKeyViolation:
		msg := fmt.Sprintf("The referenced %s does not exist", entity)
		return errs.NewBadRequestError(msg, false, &code, nil, nil)

	case UniqueViolation:
		what := humanizeText(uniqueColumn(e.ConstraintName))
		if what == "" {
			what = "identifier"
		}
		msg := fmt.Sprintf("%s %s with this %s already exists", article(entity), entity, what)
		return errs.NewConflictError(msg, true, &code)

	case NotNullViolation:
		if field == "" {
			field = "field"
		}
		fieldErrors := []errs.FieldError{{
			Field: strings.ToLower(e.ColumnName),
			Error: "is required",
		}}
		return errs.NewBadRequestError(fmt.Sprintf("The %s is required", field), true, &code, fieldErrors, nil)

	case CheckViolation:
		msg := "One or more values do not meet required conditions"
		if field != "" {
			msg = fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)

	default:
		return errs.NewInternalServerError()
	}
}

func notFound(err error) error {
	_, rest, ok := strings.Cut(err.Error(), "table:")
	if !ok {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	table, _, _ := strings.Cut(rest, ":")
	return errs.NewNotFoundError(entityName(table, "")+" not found", true, nil)
}
