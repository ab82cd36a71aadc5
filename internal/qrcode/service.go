package qrcode

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
)

var ErrNotFound = errors.New("qr code not found")

type RepositoryAPI interface {
	// Upsert replaces the employee's credential.
	Upsert(ctx context.Context, employeeID, codeValue string, issuedAt time.Time) error
	Latest(ctx context.Context, employeeID string) (*qrcodeDatamodel.QRCode, error)
	// FindByCode ignores rows issued before notBefore.
	FindByCode(ctx context.Context, codeValue string, notBefore time.Time) (*qrcodeDatamodel.QRCode, error)
	List(ctx context.Context) ([]*qrcodeDatamodel.QRCodeWithEmployee, error)
	Delete(ctx context.Context, id int64) error
}

type SummaryLookup interface {
	GetSummary(ctx context.Context, employeeID string) (*employee.Summary, error)
}

type Service struct {
	repo      RepositoryAPI
	issuer    TokenIssuer
	renderer  Renderer
	employees SummaryLookup
	window    time.Duration
	logger    *slog.Logger

	Now func() time.Time
}

func NewService(repo RepositoryAPI, issuer TokenIssuer, renderer Renderer, employees SummaryLookup, window time.Duration, logger *slog.Logger) *Service {
	if window <= 0 {
		window = internal.DefaultQRValidity
	}
	return &Service{
		repo:      repo,
		issuer:    issuer,
		renderer:  renderer,
		employees: employees,
		window:    window,
		logger:    logger,
		Now:       time.Now,
	}
}

// Issue signs a fresh code for the employee and replaces any previous one.
func (s *Service) Issue(ctx context.Context, employeeID string) (*Credential, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, ErrInvalidIdentity
	}

	summary, err := s.employees.GetSummary(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if summary.Status != employee.StatusActive {
		return nil, internal.ErrEmployeeInactive
	}

	issuedAt := s.Now().UTC().Truncate(time.Millisecond)
	expiresAt := issuedAt.Add(s.window)

	code, err := s.issuer.Sign(employeeID, issuedAt, expiresAt)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign QR code", err)
	}

	if err := s.repo.Upsert(ctx, employeeID, code, issuedAt); err != nil {
		s.logger.Error("failed to store QR code", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to store QR code", err)
	}

	s.logger.Info("qr code issued", "employee_id", employeeID, "expires_at", expiresAt)
	return &Credential{
		EmployeeID: employeeID,
		CodeValue:  code,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *Service) Latest(ctx context.Context, employeeID string) (*Credential, error) {
	row, err := s.repo.Latest(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, internal.NewInternalError("failed to get QR code", err)
	}
	return s.toCredential(row), nil
}

// Image renders the credential for display.
func (s *Service) Image(cred *Credential) (*ImageResponse, error) {
	dataURL, err := s.renderer.Render(cred.CodeValue)
	if err != nil {
		return nil, internal.NewInternalError("failed to render QR code", err)
	}
	return &ImageResponse{
		QRDataURL: dataURL,
		CodeValue: cred.CodeValue,
		ExpiresAt: cred.ExpiresAt.UnixMilli(),
	}, nil
}

// Verify resolves a scanned code to its employee. It does not consume the
// code, and every rejection is ErrInvalidOrExpiredCode.
func (s *Service) Verify(ctx context.Context, scanned string) (*ScanResult, error) {
	scanned = strings.TrimSpace(scanned)
	if scanned == "" {
		return nil, ErrInvalidOrExpiredCode
	}
	now := s.Now()

	claims, err := s.issuer.Parse(scanned, now)
	if err != nil {
		s.logger.Debug("qr token rejected", "error", err)
		return nil, ErrInvalidOrExpiredCode
	}

	row, err := s.repo.FindByCode(ctx, scanned, now.Add(-s.window))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("qr code not current", "employee_id", claims.EmployeeID)
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, internal.NewInternalError("failed to look up QR code", err)
	}

	if row.EmployeeID != claims.EmployeeID || now.Sub(row.DateGenerated) > s.window {
		return nil, ErrInvalidOrExpiredCode
	}

	summary, err := s.employees.GetSummary(ctx, row.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	s.logger.Info("qr code verified", "employee_id", row.EmployeeID)
	return &ScanResult{Employee: summary, EmployeeID: row.EmployeeID}, nil
}

func (s *Service) List(ctx context.Context) ([]*CredentialView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list QR codes", err)
	}

	now := s.Now()
	views := make([]*CredentialView, 0, len(rows))
	for _, row := range rows {
		cred := s.toCredential(&row.QRCode)
		views = append(views, &CredentialView{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			CodeValue:  row.CodeValue,
			IssuedAt:   cred.IssuedAt,
			ExpiresAt:  cred.ExpiresAt,
			Expired:    cred.Expired(now),
		})
	}
	return views, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCredentialNotFound
		}
		return internal.NewInternalError("failed to delete QR code", err)
	}
	s.logger.Info("qr code deleted", "qr_id", id)
	return nil
}

// IssueFor issues a code on behalf of an employee named in an admin request.
func (s *Service) IssueFor(ctx context.Context, dto IssueDTO) (*Credential, error) {
	dto.EmployeeID = strings.TrimSpace(dto.EmployeeID)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	return s.Issue(ctx, dto.EmployeeID)
}

func (s *Service) toCredential(row *qrcodeDatamodel.QRCode) *Credential {
	return &Credential{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		CodeValue:  row.CodeValue,
		IssuedAt:   row.DateGenerated,
		ExpiresAt:  row.DateGenerated.Add(s.window),
	}
}
