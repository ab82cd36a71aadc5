package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/attendance-tracker/internal/report/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("Report Handler Integration", func() {
	var (
		router *chi.Mux
		admin  *internal.Principal
	)

	BeforeEach(func() {
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		_, err = testdb.SeedEmployee(db, "E123", "Ana", "Reyes", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&attendanceDatamodel.Attendance{
			EmployeeID: "E123", AttendanceDate: "2026-03-02", TimeIn: clock(9, 0, 2),
			Status: attendanceDatamodel.StatusPresent,
		}).Error).To(Succeed())

		a := &adminDatamodel.Admin{Name: "Root", Username: "root", PasswordHash: "x", Role: adminDatamodel.RoleAdmin}
		Expect(db.Create(a).Error).To(Succeed())
		admin = &internal.Principal{Role: internal.RoleAdmin, AdminID: a.ID}

		sqlxDB, err := testdb.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := report.NewService(reportPostgres.NewQueryRepository(sqlxDB), reportPostgres.NewRegisterRepository(db), time.UTC, lg)
		service.Now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
		handler := report.NewHandler(transport.NewBaseHandler(lg), service)

		router = chi.NewRouter()
		router.Get("/reports/daily", handler.GetDaily)
		router.Get("/reports/daily/export", handler.ExportDaily)
		router.Get("/reports/monthly", handler.GetMonthly)
		router.Get("/reports/logs", handler.GetLogs)
		router.Get("/reports/generated", handler.GetGenerated)
		router.Post("/reports/generated", handler.CreateGenerated)
		router.Put("/reports/generated/{id}", handler.UpdateGenerated)
		router.Delete("/reports/generated/{id}", handler.DeleteGenerated)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, r)
		req = req.WithContext(internal.ContextWithPrincipal(context.Background(), admin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return the daily records", func() {
		w := do(http.MethodGet, "/reports/daily?date=2026-03-02", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			Records []report.DailyRow `json:"records"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Records).To(HaveLen(1))
		Expect(resp.Records[0].Name).To(Equal("Ana Reyes"))
	})

	It("should answer 400 for a malformed month", func() {
		w := do(http.MethodGet, "/reports/monthly?month=March", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should stream the daily export as an attachment", func() {
		w := do(http.MethodGet, "/reports/daily/export", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
		Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="Daily_Attendance_2026-03-02.xlsx"`))

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Close()).To(Succeed())
	})

	It("should accept a single date for the log report", func() {
		w := do(http.MethodGet, "/reports/logs?date=2026-03-02", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"records":[]}`))
	})

	It("should manage the generated register", func() {
		w := do(http.MethodPost, "/reports/generated", `{"report_type":"daily","remarks":"morning"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created report.GeneratedReport
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.AdminID).To(Equal(admin.AdminID))

		w = do(http.MethodGet, "/reports/generated", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"generated_by":"root"`))

		w = do(http.MethodPut, "/reports/generated/abc", `{"report_type":"daily"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(http.MethodDelete, "/reports/generated/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
