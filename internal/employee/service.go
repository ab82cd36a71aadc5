package employee

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("employee not found")

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*employeeDatamodel.EmployeeWithDepartment, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.EmployeeWithDepartment, error)
	GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error)
	DepartmentExists(ctx context.Context, departmentID int64) (bool, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	// Delete removes the employee unless attendance rows reference it, in
	// which case it returns ErrEmployeeInUse.
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Employee, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}
	return employees, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return FromDataModel(row), nil
}

// GetSummary returns the scan-station profile of the employee.
func (s *Service) GetSummary(ctx context.Context, id string) (*Summary, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.ToSummary(), nil
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	dto.EmployeeID = strings.TrimSpace(dto.EmployeeID)
	dto.Email = strings.TrimSpace(dto.Email)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, dto.EmployeeID); err == nil {
		return nil, ErrEmployeeExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, internal.NewInternalError("failed to check employee", err)
	}

	if err := s.ensureEmailFree(ctx, dto.Email, ""); err != nil {
		return nil, err
	}

	if err := s.ensureDepartment(ctx, dto.DepartmentID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	status := dto.Status
	if status == "" {
		status = StatusActive
	}

	row := &employeeDatamodel.Employee{
		ID:           dto.EmployeeID,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		DepartmentID: dto.DepartmentID,
		Position:     dto.Position,
		Status:       status,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "employee_id", dto.EmployeeID, "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", row.ID)
	return s.GetByID(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	row := current.Employee
	if dto.FirstName != nil {
		row.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		row.LastName = *dto.LastName
	}
	if dto.Email != nil && *dto.Email != row.Email {
		if err := s.ensureEmailFree(ctx, *dto.Email, id); err != nil {
			return nil, err
		}
		row.Email = *dto.Email
	}
	if dto.DepartmentID != nil {
		if err := s.ensureDepartment(ctx, dto.DepartmentID); err != nil {
			return nil, err
		}
		row.DepartmentID = dto.DepartmentID
	}
	if dto.Position != nil {
		row.Position = *dto.Position
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}
	if dto.Password != nil && *dto.Password != "" {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, &row); err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id)
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEmployeeInUse) {
			return ErrEmployeeInUse
		}
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return internal.NewInternalError("failed to check email", err)
	}
	if existing.ID != ownerID {
		return ErrEmployeeExists
	}
	return nil
}

func (s *Service) ensureDepartment(ctx context.Context, departmentID *int64) error {
	if departmentID == nil {
		return nil
	}
	ok, err := s.repo.DepartmentExists(ctx, *departmentID)
	if err != nil {
		return internal.NewInternalError("failed to check department", err)
	}
	if !ok {
		return internal.NewValidationFieldError("department_id", "department does not exist", internal.ErrCodeDepartmentNotFound)
	}
	return nil
}
