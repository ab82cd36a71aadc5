package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/admin"
	adminPostgres "github.com/frahmantamala/attendance-tracker/internal/admin/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendancePostgres "github.com/frahmantamala/attendance-tracker/internal/attendance/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/attendance-tracker/internal/auth/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/attendance-tracker/internal/department/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	employeePostgres "github.com/frahmantamala/attendance-tracker/internal/employee/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	qrcodePostgres "github.com/frahmantamala/attendance-tracker/internal/qrcode/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/attendance-tracker/internal/report/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/transport"
	"github.com/frahmantamala/attendance-tracker/internal/transport/rest"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Application is the wired object graph shared by the server, worker and
// sweep commands.
type Application struct {
	Config    *internal.Config
	DB        *gorm.DB
	SQLX      *sqlx.DB
	Router    *chi.Mux
	EventBus  *events.EventBus
	Sweeper   *attendance.Sweeper
	Scheduler *attendance.Scheduler
	Logger    *slog.Logger

	AttendanceService *attendance.Service
	QRCodeService     *qrcode.Service
	ReportService     *report.Service
}

// SetClock overrides the clock of every time-dependent service.
func (a *Application) SetClock(now func() time.Time) {
	a.AttendanceService.Now = now
	a.QRCodeService.Now = now
	a.ReportService.Now = now
	a.Sweeper.Now = now
	a.Scheduler.Now = now
}

// Shutdown stops the scheduler and drains in-flight event handlers.
func (a *Application) Shutdown(ctx context.Context) {
	if err := a.Scheduler.Stop(ctx); err != nil {
		a.Logger.Warn("scheduler stop timed out", "error", err)
	}
	if err := a.EventBus.Wait(ctx); err != nil {
		a.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
}

func newApplication(cfg *internal.Config, db *gorm.DB, sqlxDB *sqlx.DB, lg *slog.Logger) (*Application, error) {
	policy, err := attendance.NewPolicy(cfg.Attendance)
	if err != nil {
		return nil, fmt.Errorf("attendance policy: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	attendance.NewEventHandler(attendancePostgres.NewLogRepository(db), lg).RegisterEventHandlers(eventBus)

	hasher := auth.NewHasher(cfg.Security.BCryptCost)
	baseHandler := transport.NewBaseHandler(lg)

	authService := auth.NewService(
		authPostgres.NewRepository(db),
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		lg,
	)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(db), hasher, lg)
	departmentService := department.NewService(departmentPostgres.NewDepartmentRepository(db), lg)
	adminService := admin.NewService(adminPostgres.NewAdminRepository(db), hasher, lg)

	qrService := qrcode.NewService(
		qrcodePostgres.NewQRCodeRepository(db),
		qrcode.NewJWTTokenIssuer(cfg.Security.QRSecret),
		qrcode.NewPNGRenderer(),
		employeeService,
		cfg.Attendance.QRValidity,
		lg,
	)

	attendanceRepo := attendancePostgres.NewAttendanceRepository(db)
	attendanceService := attendance.NewService(attendanceRepo, employeeService, policy, eventBus, lg)

	sweeper := attendance.NewSweeper(attendanceRepo, eventBus, lg)
	scheduler, err := attendance.NewScheduler(sweeper, policy, cfg.Attendance.AbsenceSweepSchedule, lg)
	if err != nil {
		return nil, fmt.Errorf("absence scheduler: %w", err)
	}

	reportService := report.NewService(
		reportPostgres.NewQueryRepository(sqlxDB),
		reportPostgres.NewRegisterRepository(db),
		policy.Location,
		lg,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlxDB, rest.Handlers{
		Auth:       auth.NewHandler(baseHandler, authService),
		Employee:   employee.NewHandler(baseHandler, employeeService),
		Department: department.NewHandler(baseHandler, departmentService),
		Admin:      admin.NewHandler(baseHandler, adminService),
		QRCode:     qrcode.NewHandler(baseHandler, qrService),
		Attendance: attendance.NewHandler(baseHandler, attendanceService),
		Report:     report.NewHandler(baseHandler, reportService),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOriginList(),
	}, lg)

	return &Application{
		Config:            cfg,
		DB:                db,
		SQLX:              sqlxDB,
		Router:            router,
		EventBus:          eventBus,
		Sweeper:           sweeper,
		Scheduler:         scheduler,
		Logger:            lg,
		AttendanceService: attendanceService,
		QRCodeService:     qrService,
		ReportService:     reportService,
	}, nil
}
