package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/deppfellow/employee-api/internal/server"
	"github.com/labstack/echo/v4"
)

// EmployeeDeletedMessage is the plain-text body of a successful DELETE.
const EmployeeDeletedMessage = "Employee deleted successfully"

// EmployeeService is what the employee endpoints need from the business
// layer. *service.EmployeeService implements it.
type EmployeeService interface {
	Create(ctx context.Context, employee model.Employee) (model.Employee, error)
	ListAll(ctx context.Context) ([]model.Employee, error)
	GetByID(ctx context.Context, id int64) (utils.Option[model.Employee], error)
	Update(ctx context.Context, employee model.Employee) (model.Employee, error)
	DeleteByID(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, firstName, lastName string) ([]model.Employee, error)
}

// EmployeeHandler serves /api/employees.
type EmployeeHandler struct {
	Handler
	employees EmployeeService
}

func NewEmployeeHandler(s *server.Server, employees EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		Handler:   NewHandler(s),
		employees: employees,
	}
}

// CreateEmployee handles POST /api/employees.
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.CreateEmployeeRequest) (model.Employee, error) {
		return h.employees.Create(c.Request().Context(), req.Employee())
	}, http.StatusCreated, func() *model.CreateEmployeeRequest {
		return &model.CreateEmployeeRequest{}
	})(c)
}

// ListEmployees handles GET /api/employees.
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, _ *model.ListEmployeesRequest) ([]model.Employee, error) {
		return h.employees.ListAll(c.Request().Context())
	}, http.StatusOK, func() *model.ListEmployeesRequest {
		return &model.ListEmployeesRequest{}
	})(c)
}

// SearchEmployees handles GET /api/employees/search.
func (h *EmployeeHandler) SearchEmployees(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *model.SearchEmployeesRequest) ([]model.Employee, error) {
		return h.employees.SearchByName(c.Request().Context(), req.FirstName, req.LastName)
	}, http.StatusOK, func() *model.SearchEmployeesRequest {
		return &model.SearchEmployeesRequest{}
	})(c)
}

// GetEmployee handles GET /api/employees/:id. Unknown ids give 404 with
// an empty body.
func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	return HandleOptional(h.Handler, func(c echo.Context, req *model.EmployeeIDRequest) (utils.Option[model.Employee], error) {
		return h.employees.GetByID(c.Request().Context(), req.ID)
	}, http.StatusOK, func() *model.EmployeeIDRequest {
		return &model.EmployeeIDRequest{}
	})(c)
}

// UpdateEmployee handles PUT /api/employees/:id.
//
// The stored employee is loaded first; when it is missing the response is
// 404 with an empty body and nothing is written. Otherwise email, first and
// last name are copied from the body and the merged record is saved.
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	return HandleOptional(h.Handler, func(c echo.Context, req *model.UpdateEmployeeRequest) (utils.Option[model.Employee], error) {
		ctx := c.Request().Context()

		found, err := h.employees.GetByID(ctx, req.ID)
		if err != nil {
			return utils.None[model.Employee](), err
		}

		stored, ok := found.Get()
		if !ok {
			return utils.None[model.Employee](), nil
		}

		updated, err := h.employees.Update(ctx, req.ApplyTo(stored))
		if err != nil {
			return utils.None[model.Employee](), err
		}

		return utils.Some(updated), nil
	}, http.StatusOK, func() *model.UpdateEmployeeRequest {
		return &model.UpdateEmployeeRequest{}
	})(c)
}

// DeleteEmployee handles DELETE /api/employees/:id. It succeeds whether or
// not the employee existed.
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	return HandleText(h.Handler, func(c echo.Context, req *model.EmployeeIDRequest) (string, error) {
		if err := h.employees.DeleteByID(c.Request().Context(), req.ID); err != nil {
			return "", err
		}
		return EmployeeDeletedMessage, nil
	}, http.StatusOK, func() *model.EmployeeIDRequest {
		return &model.EmployeeIDRequest{}
	})(c)
}
