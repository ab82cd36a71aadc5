package department

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
)

var (
	ErrDepartmentNotFound = internal.ErrDepartmentNotFound
	ErrDepartmentExists   = internal.ErrDepartmentExists
	ErrDepartmentInUse    = internal.ErrDepartmentInUse
)

type Department struct {
	ID          int64     `json:"department_id"`
	Name        string    `json:"department_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewDepartment(name, description string) *Department {
	now := time.Now()
	return &Department{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
