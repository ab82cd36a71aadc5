package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
)

var ErrNotFound = errors.New("admin not found")

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*adminDatamodel.Admin, error)
	GetByID(ctx context.Context, id int64) (*adminDatamodel.Admin, error)
	GetByUsername(ctx context.Context, username string) (*adminDatamodel.Admin, error)
	Create(ctx context.Context, a *adminDatamodel.Admin) error
	Update(ctx context.Context, a *adminDatamodel.Admin) error
	Delete(ctx context.Context, id int64) error
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

func (s *Service) GetAll(ctx context.Context) ([]*Admin, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list admins", err)
	}

	admins := make([]*Admin, 0, len(rows))
	for _, row := range rows {
		admins = append(admins, FromDataModel(row))
	}
	return admins, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Admin, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, internal.NewInternalError("failed to get admin", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateAdminDTO) (*Admin, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if err := s.ensureUsernameFree(ctx, dto.Username, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = adminDatamodel.RoleAdmin
	}

	row := &adminDatamodel.Admin{
		Name:         dto.Name,
		Username:     dto.Username,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create admin", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create admin", err)
	}

	s.logger.Info("admin created", "admin_id", row.ID, "username", row.Username, "role", row.Role)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateAdminDTO) (*Admin, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, internal.NewInternalError("failed to get admin", err)
	}

	if dto.Username != nil {
		username := strings.TrimSpace(*dto.Username)
		if err := s.ensureUsernameFree(ctx, username, id); err != nil {
			return nil, err
		}
		row.Username = username
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Role != nil {
		row.Role = *dto.Role
	}
	if dto.Password != nil {
		hash, err := s.hasher.Hash(*dto.Password)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		row.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update admin", "admin_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update admin", err)
	}
	return FromDataModel(row), nil
}

// Delete removes an admin. The caller cannot remove its own account.
func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	if callerID == id {
		return ErrDeleteSelf
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete admin", "admin_id", id, "error", err)
		return internal.NewInternalError("failed to delete admin", err)
	}

	s.logger.Info("admin deleted", "admin_id", id, "deleted_by", callerID)
	return nil
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string, ownerID int64) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return internal.NewInternalError("failed to check username", err)
	}
	if existing.ID != ownerID {
		return ErrUsernameTaken
	}
	return nil
}
