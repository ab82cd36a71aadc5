package employee

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
)

const (
	StatusActive   = employeeDatamodel.StatusActive
	StatusInactive = employeeDatamodel.StatusInactive
)

var (
	ErrEmployeeNotFound   = internal.ErrEmployeeNotFound
	ErrEmployeeExists     = internal.ErrEmployeeExists
	ErrEmployeeInUse      = internal.ErrEmployeeInUse
	ErrDepartmentNotFound = internal.ErrDepartmentNotFound
)

type Employee struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	DepartmentID   *int64
	DepartmentName *string
	Position       string
	Status         string
	PasswordHash   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Summary is the profile shown to a scan station.
type Summary struct {
	EmployeeID     string  `json:"employeeID"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Position       string  `json:"position"`
	DepartmentName *string `json:"department_name"`
	Email          string  `json:"email"`
	Status         string  `json:"status"`
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) ToSummary() *Summary {
	return &Summary{
		EmployeeID:     e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		DepartmentName: e.DepartmentName,
		Email:          e.Email,
		Status:         e.Status,
	}
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:     e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		Position:       e.Position,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		Position:     e.Position,
		Status:       e.Status,
		PasswordHash: e.PasswordHash,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.EmployeeWithDepartment) *Employee {
	return &Employee{
		ID:             e.ID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		Position:       e.Position,
		Status:         e.Status,
		PasswordHash:   e.PasswordHash,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
