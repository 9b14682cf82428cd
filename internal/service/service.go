// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"context"

	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/model"
)

// EmployeeStore is the persistence contract EmployeeService depends on.
// *repository.EmployeeRepository implements it.
type EmployeeStore interface {
	FindByEmail(ctx context.Context, email string) (utils.Option[model.Employee], error)
	FindByID(ctx context.Context, id int64) (utils.Option[model.Employee], error)
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]model.Employee, error)
	// Save inserts when ID is zero and overwrites the stored row otherwise.
	Save(ctx context.Context, employee model.Employee) (model.Employee, error)
	// DeleteByID succeeds whether or not the row exists.
	DeleteByID(ctx context.Context, id int64) error
}

// WelcomeScheduler queues the welcome email for a freshly created employee.
// *job.JobService implements it.
type WelcomeScheduler interface {
	EnqueueEmployeeWelcome(ctx context.Context, employee model.Employee) error
}
