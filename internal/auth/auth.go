package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/golang-jwt/jwt/v5"
)

type ServiceAPI interface {
	LoginEmployee(ctx context.Context, dto EmployeeLoginDTO) (*LoginResponse, error)
	LoginAdmin(ctx context.Context, dto AdminLoginDTO) (*LoginResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type RepositoryAPI interface {
	GetEmployeeAccount(ctx context.Context, employeeID string) (*EmployeeAccount, error)
	GetAdminAccount(ctx context.Context, username string) (*AdminAccount, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(principal internal.Principal) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// EmployeeAccount is what login needs to know about an employee.
type EmployeeAccount struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Position       string
	Status         string
	DepartmentID   *int64
	DepartmentName *string
	PasswordHash   string
}

type AdminAccount struct {
	ID           int64
	Name         string
	Username     string
	Role         string
	PasswordHash string
}

// Claims is the access token payload. Exactly one of EmployeeID and AdminID
// is set, depending on Role.
type Claims struct {
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id,omitempty"`
	AdminID    int64  `json:"admin_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() *internal.Principal {
	return &internal.Principal{
		Role:       c.Role,
		EmployeeID: c.EmployeeID,
		AdminID:    c.AdminID,
	}
}

var (
	ErrInvalidCredentials = internal.ErrInvalidCredentials
	ErrMissingToken       = internal.ErrMissingToken
	ErrInvalidToken       = internal.ErrInvalidToken
	ErrEmployeeInactive   = internal.ErrEmployeeInactive
	ErrAccessDenied       = internal.ErrAccessDenied
)
