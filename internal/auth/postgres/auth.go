package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/attendance-tracker/internal/auth"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetEmployeeAccount(ctx context.Context, employeeID string) (*auth.EmployeeAccount, error) {
	var row employeeDatamodel.EmployeeWithDepartment
	err := r.db.WithContext(ctx).
		Table("employees e").
		Select("e.*, d.name AS department_name").
		Joins("LEFT JOIN departments d ON d.id = e.department_id").
		Where("e.id = ?", employeeID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get employee account: %w", err)
	}

	return &auth.EmployeeAccount{
		ID:             row.ID,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Email:          row.Email,
		Position:       row.Position,
		Status:         row.Status,
		DepartmentID:   row.DepartmentID,
		DepartmentName: row.DepartmentName,
		PasswordHash:   row.PasswordHash,
	}, nil
}

func (r *Repository) GetAdminAccount(ctx context.Context, username string) (*auth.AdminAccount, error) {
	var row adminDatamodel.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get admin account: %w", err)
	}

	return &auth.AdminAccount{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Role:         row.Role,
		PasswordHash: row.PasswordHash,
	}, nil
}
