// Package model holds the entities shared by the repository, service and
// handler layers.
package model

// Employee is the sole entity of the service.
//
// ID is assigned by the store on creation and never changes afterwards.
// Email is unique across all employees.
type Employee struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
}

// IsNew reports whether the employee has not been stored yet.
func (e Employee) IsNew() bool {
	return e.ID == 0
}
