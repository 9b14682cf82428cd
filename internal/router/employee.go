package router

import (
	"github.com/deppfellow/employee-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerEmployeeRoutes mounts the employee resource under /api/employees.
// /search is a static segment, so echo matches it ahead of /:id.
func registerEmployeeRoutes(api *echo.Group, h *handler.Handlers) {
	employees := api.Group("/employees")

	employees.POST("", h.Employee.CreateEmployee)
	employees.GET("", h.Employee.ListEmployees)
	employees.GET("/search", h.Employee.SearchEmployees)
	employees.GET("/:id", h.Employee.GetEmployee)
	employees.PUT("/:id", h.Employee.UpdateEmployee)
	employees.DELETE("/:id", h.Employee.DeleteEmployee)
}
