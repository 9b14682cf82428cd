package email

import (
	"context"

	"github.com/deppfellow/employee-api/internal/model"
)

// WelcomeData is the data available inside the welcome template.
type WelcomeData struct {
	EmployeeID int64
	FirstName  string
	LastName   string
	Email      string
}

// SendWelcomeEmail sends a welcome email to a newly created employee.
func (c *Client) SendWelcomeEmail(ctx context.Context, employee model.Employee) error {
	return c.SendEmail(
		ctx,
		employee.Email,
		"Welcome aboard!",
		TemplateWelcome,
		WelcomeData{
			EmployeeID: employee.ID,
			FirstName:  employee.FirstName,
			LastName:   employee.LastName,
			Email:      employee.Email,
		},
	)
}
