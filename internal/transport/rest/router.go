package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/attendance-tracker/internal/admin"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"github.com/frahmantamala/attendance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/attendance-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the HTTP handlers mounted under /api. A nil handler leaves
// its routes unregistered.
type Handlers struct {
	Auth       *auth.Handler
	Employee   *employee.Handler
	Department *department.Handler
	Admin      *admin.Handler
	QRCode     *qrcode.Handler
	Attendance *attendance.Handler
	Report     *report.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, h Handlers, opts RouterOptions, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = "./api/openapi.yml"
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/employee/login", h.Auth.EmployeeLogin)
			sr.Post("/admin/login", h.Auth.AdminLogin)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Employee != nil || h.QRCode != nil {
				pr.Route("/employees", func(er chi.Router) {
					if h.QRCode != nil {
						er.With(rbac.RequireEmployee()).Get("/generate-qr", h.QRCode.GenerateQR)
						er.With(rbac.RequireEmployee()).Get("/latest-qr", h.QRCode.LatestQR)
					}
					if h.Employee == nil {
						return
					}
					er.With(rbac.RequireEmployee()).Get("/me", h.Employee.GetMe)

					er.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Get("/", h.Employee.GetEmployees)
						ar.Post("/", h.Employee.CreateEmployee)
						ar.Get("/{id}", h.Employee.GetEmployee)
						ar.Put("/{id}", h.Employee.UpdateEmployee)
						ar.Delete("/{id}", h.Employee.DeleteEmployee)
					})
				})
			}

			if h.Attendance != nil || h.QRCode != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					if h.QRCode != nil {
						ar.Post("/scan", h.QRCode.Scan)
					}
					if h.Attendance == nil {
						return
					}
					ar.Post("/time-in", h.Attendance.TimeIn)
					ar.Post("/time-out", h.Attendance.TimeOut)
					ar.With(rbac.RequireEmployee()).Get("/my", h.Attendance.GetMine)

					ar.Group(func(adm chi.Router) {
						adm.Use(rbac.RequireAdmin())
						adm.Get("/", h.Attendance.GetAttendance)
						adm.Post("/", h.Attendance.CreateRecord)
						adm.Get("/today", h.Attendance.GetToday)
						adm.Get("/trends", h.Attendance.GetTrends)
						adm.Get("/monthly-summary", h.Attendance.GetMonthlySummary)
						adm.Get("/{id}", h.Attendance.GetRecord)
						adm.Put("/{id}", h.Attendance.UpdateRecord)
						adm.Delete("/{id}", h.Attendance.DeleteRecord)
					})
				})
			}

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.GetDepartments)
					dr.Group(func(adm chi.Router) {
						adm.Use(rbac.RequireAdmin())
						adm.Post("/", h.Department.CreateDepartment)
						adm.Put("/{id}", h.Department.UpdateDepartment)
						adm.Delete("/{id}", h.Department.DeleteDepartment)
					})
				})
			}

			if h.Admin != nil {
				pr.Route("/admins", func(sr chi.Router) {
					sr.Use(rbac.RequireSuperAdmin())
					sr.Get("/", h.Admin.GetAdmins)
					sr.Post("/", h.Admin.CreateAdmin)
					sr.Get("/{id}", h.Admin.GetAdmin)
					sr.Put("/{id}", h.Admin.UpdateAdmin)
					sr.Delete("/{id}", h.Admin.DeleteAdmin)
				})
			}

			if h.QRCode != nil {
				pr.Route("/qr", func(qr chi.Router) {
					qr.Use(rbac.RequireAdmin())
					qr.Get("/", h.QRCode.ListQRCodes)
					qr.Post("/", h.QRCode.IssueQRCode)
					qr.Delete("/{id}", h.QRCode.DeleteQRCode)
				})
			}

			if h.Report != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Use(rbac.RequireAdmin())
					rr.Get("/daily", h.Report.GetDaily)
					rr.Get("/daily/export", h.Report.ExportDaily)
					rr.Get("/monthly", h.Report.GetMonthly)
					rr.Get("/monthly/export", h.Report.ExportMonthly)
					rr.Get("/logs", h.Report.GetLogs)
					rr.Get("/logs/export", h.Report.ExportLogs)
					rr.Get("/generated", h.Report.GetGenerated)
					rr.Post("/generated", h.Report.CreateGenerated)
					rr.Put("/generated/{id}", h.Report.UpdateGenerated)
					rr.Delete("/generated/{id}", h.Report.DeleteGenerated)
				})
			}
		})
	})
}
