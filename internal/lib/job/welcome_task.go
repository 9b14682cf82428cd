package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/employee-api/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskEmployeeWelcome is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskEmployeeWelcome = "employee:welcome"
)

// EmployeeWelcomePayload is the JSON payload of the welcome email task.
type EmployeeWelcomePayload struct {
	EmployeeID int64  `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

// Employee rebuilds the employee carried by the payload.
func (p EmployeeWelcomePayload) Employee() model.Employee {
	return model.Employee{
		ID:        p.EmployeeID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// NewEmployeeWelcomeTask constructs an Asynq task for the welcome email.
//
// Options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("default"): send into the "default" queue
//   - Timeout(30s): kill the task if handler runs longer than 30 seconds
func NewEmployeeWelcomeTask(employee model.Employee) (*asynq.Task, error) {
	payload, err := json.Marshal(EmployeeWelcomePayload{
		EmployeeID: employee.ID,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		Email:      employee.Email,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskEmployeeWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
