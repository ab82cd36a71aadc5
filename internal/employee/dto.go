package employee

import "time"

type CreateEmployeeDTO struct {
	EmployeeID   string `json:"employeeID" validate:"required,employee_id"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID *int64 `json:"department_id"`
	Position     string `json:"position" validate:"max=100"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password     string `json:"password" validate:"required,min=6"`
}

// UpdateEmployeeDTO leaves nil fields untouched. An empty password keeps the
// current one.
type UpdateEmployeeDTO struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	DepartmentID *int64  `json:"department_id"`
	Position     *string `json:"position" validate:"omitempty,max=100"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
}

type EmployeeResponse struct {
	EmployeeID     string    `json:"employeeID"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	DepartmentID   *int64    `json:"department_id"`
	DepartmentName *string   `json:"department_name"`
	Position       string    `json:"position"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type EmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}
