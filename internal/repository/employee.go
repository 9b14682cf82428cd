package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// errEmployeeNotFound is recognised by sqlerr.HandleError, which turns the
// "table:employees" prefix into "Employee not found".
var errEmployeeNotFound = fmt.Errorf("table:employees: %w", pgx.ErrNoRows)

const employeeColumns = `id, first_name, last_name, email`

// EmployeeRepository persists employees in the employees table.
type EmployeeRepository struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByEmail looks up the employee owning email. Emails compare exactly.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (utils.Option[model.Employee], error) {
	return r.findOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
}

// FindByID looks up an employee by id.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (utils.Option[model.Employee], error) {
	return r.findOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// FindAll returns every employee ordered by id. The slice is empty, not nil,
// when the table is empty.
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]model.Employee, error) {
	return r.findMany(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
}

// FindByName returns the employees matching both names exactly.
func (r *EmployeeRepository) FindByName(ctx context.Context, firstName, lastName string) ([]model.Employee, error) {
	return r.findMany(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE first_name = $1 AND last_name = $2 ORDER BY id`,
		firstName, lastName,
	)
}

// Save inserts a new employee (ID 0) or overwrites the stored one and
// returns the row as stored.
//
// Overwriting an id that no longer exists fails with a not-found error
// rather than recreating the row.
func (r *EmployeeRepository) Save(ctx context.Context, employee model.Employee) (model.Employee, error) {
	if employee.IsNew() {
		return r.saveOne(ctx, `
			INSERT INTO employees (first_name, last_name, email)
			VALUES ($1, $2, $3)
			RETURNING `+employeeColumns,
			employee.FirstName, employee.LastName, employee.Email,
		)
	}

	return r.saveOne(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4
		WHERE id = $1
		RETURNING `+employeeColumns,
		employee.ID, employee.FirstName, employee.LastName, employee.Email,
	)
}

// DeleteByID removes the employee with id. Deleting a missing id is a no-op.
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	return nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, query string, args ...any) (utils.Option[model.Employee], error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return utils.None[model.Employee](), fmt.Errorf("query employee: %w", err)
	}

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.None[model.Employee](), nil
	}
	if err != nil {
		return utils.None[model.Employee](), fmt.Errorf("scan employee: %w", err)
	}

	return utils.Some(employee), nil
}

func (r *EmployeeRepository) findMany(ctx context.Context, query string, args ...any) ([]model.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}

	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Employee])
	if err != nil {
		return nil, fmt.Errorf("scan employees: %w", err)
	}

	if employees == nil {
		employees = []model.Employee{}
	}
	return employees, nil
}

func (r *EmployeeRepository) saveOne(ctx context.Context, query string, args ...any) (model.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Employee{}, fmt.Errorf("save employee: %w", err)
	}

	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Employee{}, errEmployeeNotFound
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("save employee: %w", err)
	}

	return employee, nil
}
