// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/employee-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Employees *EmployeeRepository
}

// NewRepositories builds every repository on the server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Employees: NewEmployeeRepository(s.DB.Pool),
	}
}
