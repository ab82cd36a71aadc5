package admin

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
)

var (
	ErrAdminNotFound = internal.ErrAdminNotFound
	ErrUsernameTaken = internal.ErrUsernameTaken
	ErrDeleteSelf    = internal.NewValidationError("Cannot delete your own account", internal.ErrCodeValidationFailed)
)

type Admin struct {
	ID           int64
	Name         string
	Username     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Name:      a.Name,
		Username:  a.Username,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToDataModel(a *Admin) *adminDatamodel.Admin {
	return &adminDatamodel.Admin{
		ID:           a.ID,
		Name:         a.Name,
		Username:     a.Username,
		Role:         a.Role,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModel(a *adminDatamodel.Admin) *Admin {
	return &Admin{
		ID:           a.ID,
		Name:         a.Name,
		Username:     a.Username,
		Role:         a.Role,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
