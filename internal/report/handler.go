package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Daily(ctx context.Context, date string) ([]*DailyRow, error)
	Monthly(ctx context.Context, month string) ([]*MonthlyRow, error)
	Logs(ctx context.Context, from, to string) ([]*LogRow, error)
	ExportDaily(ctx context.Context, date string) (*Export, error)
	ExportMonthly(ctx context.Context, month string) (*Export, error)
	ExportLogs(ctx context.Context, from, to string) (*Export, error)
	ListGenerated(ctx context.Context) ([]*GeneratedReport, error)
	CreateGenerated(ctx context.Context, adminID int64, dto GeneratedReportDTO) (*GeneratedReport, error)
	UpdateGenerated(ctx context.Context, id int64, dto GeneratedReportDTO) (*GeneratedReport, error)
	DeleteGenerated(ctx context.Context, id int64) error
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

func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RecordsResponse{Records: rows})
}

func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Monthly(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RecordsResponse{Records: rows})
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	from, to := logBounds(r)
	rows, err := h.Service.Logs(r.Context(), from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RecordsResponse{Records: rows})
}

func (h *Handler) ExportDaily(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Service.ExportDaily(r.Context(), r.URL.Query().Get("date"))
	h.writeExport(w, exp, err)
}

func (h *Handler) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Service.ExportMonthly(r.Context(), r.URL.Query().Get("month"))
	h.writeExport(w, exp, err)
}

func (h *Handler) ExportLogs(w http.ResponseWriter, r *http.Request) {
	from, to := logBounds(r)
	exp, err := h.Service.ExportLogs(r.Context(), from, to)
	h.writeExport(w, exp, err)
}

func (h *Handler) GetGenerated(w http.ResponseWriter, r *http.Request) {
	reports, err := h.Service.ListGenerated(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RecordsResponse{Records: reports})
}

func (h *Handler) CreateGenerated(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok || !principal.IsAdmin() {
		h.HandleServiceError(w, internal.ErrAccessDenied)
		return
	}

	var dto GeneratedReportDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rep, err := h.Service.CreateGenerated(r.Context(), principal.AdminID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) UpdateGenerated(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	var dto GeneratedReportDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rep, err := h.Service.UpdateGenerated(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) DeleteGenerated(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteGenerated(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) writeExport(w http.ResponseWriter, exp *Export, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(exp.Content); err != nil {
		h.Logger.Error("failed to write export", "filename", exp.Filename, "error", err)
	}
}

func (h *Handler) reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, internal.NewValidationError("invalid report ID", internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}

// logBounds reads from/to, accepting a single date= as both.
func logBounds(r *http.Request) (string, string) {
	q := r.URL.Query()
	if date := q.Get("date"); date != "" {
		return date, date
	}
	return q.Get("from"), q.Get("to")
}
