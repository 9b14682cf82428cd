package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/deppfellow/employee-api/internal/errs"
	"github.com/deppfellow/employee-api/internal/lib/utils"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/rs/zerolog"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// Match it with errors.Is; the returned copy carries the offending email.
var ErrDuplicateEmail = &errs.HTTPError{
	Code:     "EMPLOYEE_ALREADY_EXISTS",
	Message:  "Employee with this email already exists",
	Status:   http.StatusConflict,
	Override: true,
}

// EmployeeService implements the employee use cases.
type EmployeeService struct {
	store   EmployeeStore
	welcome WelcomeScheduler
	logger  *zerolog.Logger
}

// NewEmployeeService builds the service. welcome may be nil, in which case
// no welcome email is scheduled.
func NewEmployeeService(store EmployeeStore, welcome WelcomeScheduler, logger *zerolog.Logger) *EmployeeService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EmployeeService{
		store:   store,
		welcome: welcome,
		logger:  logger,
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *EmployeeService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// Create stores a new employee after checking the email is free.
//
// A duplicate email returns ErrDuplicateEmail and the store is not written.
// Failing to schedule the welcome email is logged and does not fail Create.
func (s *EmployeeService) Create(ctx context.Context, employee model.Employee) (model.Employee, error) {
	existing, err := s.store.FindByEmail(ctx, employee.Email)
	if err != nil {
		return model.Employee{}, fmt.Errorf("look up employee email: %w", err)
	}
	if existing.IsPresent() {
		return model.Employee{}, ErrDuplicateEmail.WithMessage(
			fmt.Sprintf("Employee with email %s already exists", employee.Email),
		)
	}

	employee.ID = 0
	saved, err := s.store.Save(ctx, employee)
	if err != nil {
		return model.Employee{}, err
	}

	s.log(ctx).Info().Int64("employee_id", saved.ID).Msg("employee created")

	if s.welcome != nil {
		if err := s.welcome.EnqueueEmployeeWelcome(ctx, saved); err != nil {
			s.log(ctx).Warn().Err(err).Int64("employee_id", saved.ID).Msg("failed to schedule welcome email")
		}
	}

	return saved, nil
}

// ListAll returns every employee; never nil.
func (s *EmployeeService) ListAll(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	return employees, nil
}

// GetByID returns the employee, or None when no employee has id.
func (s *EmployeeService) GetByID(ctx context.Context, id int64) (utils.Option[model.Employee], error) {
	return s.store.FindByID(ctx, id)
}

// Update persists employee as given. Callers are expected to have loaded
// and merged the record; no existence check is made here.
func (s *EmployeeService) Update(ctx context.Context, employee model.Employee) (model.Employee, error) {
	updated, err := s.store.Save(ctx, employee)
	if err != nil {
		return model.Employee{}, err
	}

	s.log(ctx).Info().Int64("employee_id", updated.ID).Msg("employee updated")
	return updated, nil
}

// DeleteByID removes the employee. Missing ids are not an error.
func (s *EmployeeService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.log(ctx).Info().Int64("employee_id", id).Msg("employee deleted")
	return nil
}

// SearchByName returns employees whose first and last names both match.
func (s *EmployeeService) SearchByName(ctx context.Context, firstName, lastName string) ([]model.Employee, error) {
	employees, err := s.store.FindByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	return employees, nil
}
