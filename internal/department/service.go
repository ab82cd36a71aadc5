package department

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
)

var ErrNotFound = errors.New("department not found")

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	Update(ctx context.Context, d *departmentDatamodel.Department) error
	// Delete returns ErrDepartmentInUse while employees reference it.
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}

	s.logger.Debug("retrieved departments", "count", len(departments))
	return departments, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, internal.NewInternalError("failed to get department", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto DepartmentDTO) (*Department, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	row := ToDataModel(NewDepartment(dto.Name, dto.Description))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create department", "name", dto.Name, "error", err)
		return nil, internal.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto DepartmentDTO) (*Department, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, internal.NewInternalError("failed to get department", err)
	}

	if err := s.ensureNameFree(ctx, dto.Name, id); err != nil {
		return nil, err
	}

	row.Name = dto.Name
	row.Description = dto.Description
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update department", err)
	}

	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrDepartmentInUse) {
			return ErrDepartmentInUse
		}
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return internal.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, ownerID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return internal.NewInternalError("failed to check department name", err)
	}
	if existing.ID != ownerID {
		return ErrDepartmentExists
	}
	return nil
}
