package model

import "github.com/deppfellow/employee-api/internal/validation"

// CreateEmployeeRequest is the body of POST /api/employees.
// Any id in the body is ignored.
type CreateEmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validation.Struct(r)
}

// Employee converts the request into an unsaved employee.
func (r *CreateEmployeeRequest) Employee() Employee {
	return Employee{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// UpdateEmployeeRequest is PUT /api/employees/:id. The path id wins over
// any id in the body.
type UpdateEmployeeRequest struct {
	ID        int64  `param:"id" json:"-"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	return validation.Struct(r)
}

// ApplyTo copies the editable fields onto stored and returns the result.
func (r *UpdateEmployeeRequest) ApplyTo(stored Employee) Employee {
	stored.Email = r.Email
	stored.FirstName = r.FirstName
	stored.LastName = r.LastName
	return stored
}

// EmployeeIDRequest addresses a single employee by path id.
type EmployeeIDRequest struct {
	ID int64 `param:"id"`
}

func (r *EmployeeIDRequest) Validate() error {
	return nil
}

// ListEmployeesRequest carries no parameters; pagination is not supported.
type ListEmployeesRequest struct{}

func (r *ListEmployeesRequest) Validate() error {
	return nil
}

// SearchEmployeesRequest is GET /api/employees/search.
type SearchEmployeesRequest struct {
	FirstName string `query:"firstName" validate:"required,max=100"`
	LastName  string `query:"lastName" validate:"required,max=100"`
}

func (r *SearchEmployeesRequest) Validate() error {
	return validation.Struct(r)
}
