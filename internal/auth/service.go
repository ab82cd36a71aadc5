package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
)

// ErrAccountNotFound is returned by repositories when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// LoginEmployee checks the employee ID and bcrypt password and returns a token
// with role "employee".
func (s *Service) LoginEmployee(ctx context.Context, dto EmployeeLoginDTO) (*LoginResponse, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	account, err := s.repo.GetEmployeeAccount(ctx, dto.EmployeeID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load employee", err)
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		s.logger.Info("employee login rejected", "employee_id", dto.EmployeeID)
		return nil, ErrInvalidCredentials
	}

	if account.Status != "" && account.Status != "active" {
		return nil, ErrEmployeeInactive
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(internal.Principal{
		Role:       internal.RoleEmployee,
		EmployeeID: account.ID,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("employee logged in", "employee_id", account.ID)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Employee: account.ToProfile()}, nil
}

// LoginAdmin checks username and bcrypt password; the token role is the
// admin's stored role.
func (s *Service) LoginAdmin(ctx context.Context, dto AdminLoginDTO) (*LoginResponse, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAdminAccount(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load admin", err)
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		s.logger.Info("admin login rejected", "username", dto.Username)
		return nil, ErrInvalidCredentials
	}

	role := account.Role
	if role != internal.RoleSuperAdmin {
		role = internal.RoleAdmin
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(internal.Principal{
		Role:    role,
		AdminID: account.ID,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("admin logged in", "admin_id", account.ID, "role", role)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Admin: account.ToProfile()}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}
