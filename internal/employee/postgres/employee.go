package postgres

import (
	"context"
	"errors"
	"fmt"

	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) withDepartment(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("employees e").
		Select("e.*, d.name AS department_name").
		Joins("LEFT JOIN departments d ON d.id = e.department_id")
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.EmployeeWithDepartment, error) {
	var rows []*employeeDatamodel.EmployeeWithDepartment
	err := r.withDepartment(ctx).Order("e.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.EmployeeWithDepartment, error) {
	var row employeeDatamodel.EmployeeWithDepartment
	err := r.withDepartment(ctx).Where("e.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *EmployeeRepository) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).Where("id = ?", departmentID).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete drops the employee and its QR credential. Attendance history keeps
// the employee alive.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&attendanceDatamodel.Attendance{}).Where("employee_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count attendance: %w", err)
		}
		if refs > 0 {
			return employee.ErrEmployeeInUse
		}

		if err := tx.Where("employee_id = ?", id).Delete(&qrcodeDatamodel.QRCode{}).Error; err != nil {
			return fmt.Errorf("delete qr code: %w", err)
		}
		return tx.Where("id = ?", id).Delete(&employeeDatamodel.Employee{}).Error
	})
}
