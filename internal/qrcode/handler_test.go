package qrcode_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	employeePostgres "github.com/frahmantamala/attendance-tracker/internal/employee/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	qrcodePostgres "github.com/frahmantamala/attendance-tracker/internal/qrcode/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("QR Code Handler", func() {
	var (
		router *chi.Mux
		now    time.Time
	)

	employeeCaller := &internal.Principal{Role: internal.RoleEmployee, EmployeeID: "E123"}
	adminCaller := &internal.Principal{Role: internal.RoleAdmin, AdminID: 1}

	BeforeEach(func() {
		db, err := testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		_, err = testdb.SeedEmployee(db, "E123", "Ana", "Reyes", nil)
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		employees := employee.NewService(employeePostgres.NewEmployeeRepository(db), auth.NewHasher(bcrypt.MinCost), lg)
		service := qrcode.NewService(qrcodePostgres.NewQRCodeRepository(db), qrcode.NewJWTTokenIssuer("qr-secret-for-tests-only"), qrcode.NewPNGRenderer(), employees, 5*time.Minute, lg)
		now = time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC)
		service.Now = func() time.Time { return now }

		h := qrcode.NewHandler(transport.NewBaseHandler(lg), service)
		router = chi.NewRouter()
		router.Get("/employees/generate-qr", h.GenerateQR)
		router.Get("/employees/latest-qr", h.LatestQR)
		router.Post("/attendance/scan", h.Scan)
		router.Get("/qr", h.ListQRCodes)
		router.Post("/qr", h.IssueQRCode)
	})

	do := func(method, path, body string, p *internal.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithPrincipal(context.Background(), p))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("answers 404 before any code exists", func() {
		w := do(http.MethodGet, "/employees/latest-qr", "", employeeCaller)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"No QR code found"}`))
	})

	It("generates, fetches and scans a code", func() {
		w := do(http.MethodGet, "/employees/generate-qr", "", employeeCaller)
		Expect(w.Code).To(Equal(http.StatusOK))

		var generated qrcode.ImageResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &generated)).To(Succeed())
		Expect(generated.QRDataURL).To(HavePrefix("data:image/png;base64,"))
		Expect(generated.ExpiresAt).To(Equal(now.Add(5 * time.Minute).UnixMilli()))

		w = do(http.MethodGet, "/employees/latest-qr", "", employeeCaller)
		Expect(w.Code).To(Equal(http.StatusOK))
		var latest qrcode.ImageResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &latest)).To(Succeed())
		Expect(latest.CodeValue).To(Equal(generated.CodeValue))

		w = do(http.MethodPost, "/attendance/scan", `{"codeValue":"`+generated.CodeValue+`"}`, adminCaller)
		Expect(w.Code).To(Equal(http.StatusOK))
		var scanned map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &scanned)).To(Succeed())
		Expect(scanned).To(HaveKeyWithValue("employeeID", "E123"))
		Expect(scanned["employee"]).To(HaveKeyWithValue("first_name", "Ana"))
	})

	It("answers 400 for a bad scan", func() {
		w := do(http.MethodPost, "/attendance/scan", `{"codeValue":"QR-E123-1"}`, adminCaller)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"Invalid or expired QR code"}`))
	})

	It("refuses generate-qr for admins", func() {
		w := do(http.MethodGet, "/employees/generate-qr", "", adminCaller)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("lets admins issue on behalf of an employee", func() {
		w := do(http.MethodPost, "/qr", `{"employee_id":"E123"}`, adminCaller)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"employeeID":"E123"`))

		w = do(http.MethodGet, "/qr", "", adminCaller)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp qrcode.CredentialsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.QRCodes).To(HaveLen(1))
	})

	It("validates the admin issue body", func() {
		w := do(http.MethodPost, "/qr", `{}`, adminCaller)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
