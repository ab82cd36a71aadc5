package qrcode

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Issue(ctx context.Context, employeeID string) (*Credential, error)
	IssueFor(ctx context.Context, dto IssueDTO) (*Credential, error)
	Latest(ctx context.Context, employeeID string) (*Credential, error)
	Image(cred *Credential) (*ImageResponse, error)
	Verify(ctx context.Context, scanned string) (*ScanResult, error)
	List(ctx context.Context) ([]*CredentialView, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GenerateQR issues a new code for the calling employee.
func (h *Handler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.callerEmployeeID(w, r)
	if !ok {
		return
	}

	cred, err := h.Service.Issue(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeImage(w, http.StatusOK, cred, false)
}

func (h *Handler) LatestQR(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.callerEmployeeID(w, r)
	if !ok {
		return
	}

	cred, err := h.Service.Latest(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeImage(w, http.StatusOK, cred, false)
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var dto ScanDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Verify(r.Context(), dto.CodeValue)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListQRCodes(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CredentialsResponse{QRCodes: views})
}

func (h *Handler) IssueQRCode(w http.ResponseWriter, r *http.Request) {
	var dto IssueDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	cred, err := h.Service.IssueFor(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeImage(w, http.StatusCreated, cred, true)
}

func (h *Handler) DeleteQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid QR code ID", internal.ErrCodeInvalidID))
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "QR code deleted"})
}

func (h *Handler) callerEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return "", false
	}
	if !principal.IsEmployee() {
		h.HandleServiceError(w, internal.ErrAccessDenied)
		return "", false
	}
	return principal.EmployeeID, true
}

func (h *Handler) writeImage(w http.ResponseWriter, status int, cred *Credential, withOwner bool) {
	resp, err := h.Service.Image(cred)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if withOwner {
		resp.EmployeeID = cred.EmployeeID
	}
	h.WriteJSON(w, status, resp)
}
