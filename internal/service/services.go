package service

import (
	"github.com/deppfellow/employee-api/internal/repository"
	"github.com/deppfellow/employee-api/internal/server"
)

// Services groups the business layer for the handlers.
type Services struct {
	Employees *EmployeeService
}

// NewServices wires every service to its repositories. The welcome email
// is scheduled only when the server runs a job service.
func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var welcome WelcomeScheduler
	if s.Job != nil {
		welcome = s.Job
	}

	return &Services{
		Employees: NewEmployeeService(repos.Employees, welcome, s.Logger),
	}
}
