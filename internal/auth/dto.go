package auth

import "time"

type EmployeeLoginDTO struct {
	EmployeeID string `json:"employeeID" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AdminLoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type EmployeeProfile struct {
	EmployeeID   string  `json:"employeeID"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Position     string  `json:"position"`
	Status       string  `json:"status"`
	DepartmentID *int64  `json:"department_id"`
	Department   *string `json:"department_name"`
}

type AdminProfile struct {
	AdminID  int64  `json:"admin_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Employee  *EmployeeProfile `json:"employee,omitempty"`
	Admin     *AdminProfile    `json:"admin,omitempty"`
}

func (a *EmployeeAccount) ToProfile() *EmployeeProfile {
	return &EmployeeProfile{
		EmployeeID:   a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		Position:     a.Position,
		Status:       a.Status,
		DepartmentID: a.DepartmentID,
		Department:   a.DepartmentName,
	}
}

func (a *AdminAccount) ToProfile() *AdminProfile {
	return &AdminProfile{
		AdminID:  a.ID,
		Name:     a.Name,
		Username: a.Username,
		Role:     a.Role,
	}
}
