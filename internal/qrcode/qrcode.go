package qrcode

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
)

var (
	// ErrInvalidOrExpiredCode is the only failure a scanner ever sees.
	ErrInvalidOrExpiredCode = internal.ErrInvalidQRCode
	ErrCredentialNotFound   = internal.ErrQRCodeNotFound
	ErrInvalidIdentity      = internal.NewValidationError("Employee identity is required", internal.ErrCodeValidationFailed)
)

// Credential is the scannable value currently issued to an employee.
type Credential struct {
	ID         int64
	EmployeeID string
	CodeValue  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the credential is past its window at now.
func (c *Credential) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ScanResult is the identity behind a verified code.
type ScanResult struct {
	Employee   *employee.Summary `json:"employee"`
	EmployeeID string            `json:"employeeID"`
}

// CredentialView is a credential as listed for admins.
type CredentialView struct {
	ID         int64     `json:"qr_id"`
	EmployeeID string    `json:"employee_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	CodeValue  string    `json:"code_value"`
	IssuedAt   time.Time `json:"date_generated"`
	ExpiresAt  time.Time `json:"expires_at"`
	Expired    bool      `json:"expired"`
}
