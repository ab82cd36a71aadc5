package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*Admin, error)
	GetByID(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, dto CreateAdminDTO) (*Admin, error)
	Update(ctx context.Context, id int64, dto UpdateAdminDTO) (*Admin, error)
	Delete(ctx context.Context, callerID, id int64) error
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

func (h *Handler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := AdminsResponse{Admins: make([]*AdminResponse, 0, len(admins))}
	for _, a := range admins {
		resp.Admins = append(resp.Admins, a.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a.ToResponse())
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var dto CreateAdminDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a.ToResponse())
}

func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	var dto UpdateAdminDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a.ToResponse())
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	principal, found := internal.PrincipalFromContext(r.Context())
	if !found {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Delete(r.Context(), principal.AdminID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Admin deleted"})
}

func (h *Handler) adminID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid admin ID", internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}
