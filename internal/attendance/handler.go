package attendance

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	TimeIn(ctx context.Context, employeeID string) (*Record, error)
	TimeOut(ctx context.Context, employeeID string) (*Record, error)
	List(ctx context.Context, filter ListFilter) ([]*RecordView, error)
	Today(ctx context.Context) ([]*RecordView, error)
	ForEmployee(ctx context.Context, employeeID string) ([]*Record, error)
	Trends(ctx context.Context) ([]TrendPoint, error)
	MonthlySummary(ctx context.Context) (*MonthlySummary, error)
	Get(ctx context.Context, id int64) (*Record, error)
	Create(ctx context.Context, dto RecordDTO) (*Record, error)
	Update(ctx context.Context, id int64, dto RecordDTO) (*Record, error)
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

func (h *Handler) TimeIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.subject(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.TimeIn(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: SuccessMessage(events.EventTypeTimeIn, rec),
	})
}

func (h *Handler) TimeOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.subject(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.TimeOut(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: SuccessMessage(events.EventTypeTimeOut, rec),
	})
}

func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		From:       q.Get("from"),
		To:         q.Get("to"),
		EmployeeID: q.Get("employeeID"),
	}
	if date := q.Get("date"); date != "" {
		filter.From, filter.To = date, date
	}

	views, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.Today(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}
	if !principal.IsEmployee() {
		h.HandleServiceError(w, internal.ErrAccessDenied)
		return
	}

	records, err := h.Service.ForEmployee(r.Context(), principal.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MyRecordsResponse{Records: records})
}

func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.Trends(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.MonthlySummary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rec, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "attendanceID": rec.ID})
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var dto RecordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if _, err := h.Service.Update(r.Context(), id, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// subject resolves whose attendance a clock request records. Employees act
// for themselves; admins must name the employee.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return "", false
	}

	var dto ClockDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return "", false
	}
	requested := strings.TrimSpace(dto.EmployeeID)

	switch {
	case principal.IsAdmin():
		if requested == "" {
			h.HandleServiceError(w, internal.NewValidationFieldError("employeeID", "employeeID is required", internal.ErrCodeValidationFailed))
			return "", false
		}
		return requested, true
	case principal.IsEmployee():
		if requested != "" && requested != principal.EmployeeID {
			h.HandleServiceError(w, internal.ErrAccessDenied)
			return "", false
		}
		return principal.EmployeeID, true
	default:
		h.HandleServiceError(w, internal.ErrAccessDenied)
		return "", false
	}
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid attendance ID", internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}
