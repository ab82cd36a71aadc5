package report_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/attendance-tracker/internal/report/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func clock(hour, minute int, day int) *time.Time {
	t := time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
	return &t
}

var _ = Describe("Report Service", func() {
	var (
		db      *gorm.DB
		service *report.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		for _, id := range []string{"E123", "E200"} {
			_, err = testdb.SeedEmployee(db, id, "First"+id, "Last"+id, nil)
			Expect(err).NotTo(HaveOccurred())
		}

		rows := []attendanceDatamodel.Attendance{
			{EmployeeID: "E123", AttendanceDate: "2026-03-02", TimeIn: clock(9, 0, 2), TimeOut: clock(17, 30, 2), Status: attendanceDatamodel.StatusPresent},
			{EmployeeID: "E200", AttendanceDate: "2026-03-02", TimeIn: clock(9, 20, 2), Status: attendanceDatamodel.StatusLate, LateMinutes: 20},
			{EmployeeID: "E123", AttendanceDate: "2026-03-03", TimeIn: clock(9, 16, 3), TimeOut: clock(18, 16, 3), Status: attendanceDatamodel.StatusLate, LateMinutes: 16},
			{EmployeeID: "E200", AttendanceDate: "2026-03-03", Status: attendanceDatamodel.StatusAbsent},
			{EmployeeID: "E123", AttendanceDate: "2026-02-27", Status: attendanceDatamodel.StatusAbsent},
		}
		Expect(db.Create(&rows).Error).To(Succeed())

		logs := []attendanceDatamodel.AttendanceLog{
			{EmployeeID: "E123", Event: attendanceDatamodel.EventTimeIn, Status: attendanceDatamodel.StatusPresent, LoggedAt: *clock(9, 0, 2)},
			{EmployeeID: "E123", Event: attendanceDatamodel.EventTimeOut, Status: attendanceDatamodel.StatusPresent, LoggedAt: *clock(17, 30, 2)},
			{EmployeeID: "E200", Event: attendanceDatamodel.EventAbsent, Status: attendanceDatamodel.StatusAbsent, LoggedAt: *clock(18, 1, 3)},
		}
		Expect(db.Create(&logs).Error).To(Succeed())

		sqlxDB, err := testdb.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		service = report.NewService(
			reportPostgres.NewQueryRepository(sqlxDB),
			reportPostgres.NewRegisterRepository(db),
			time.UTC,
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)
		service.Now = func() time.Time { return time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC) }
		ctx = context.Background()
	})

	It("lists the records of one day with names", func() {
		rows, err := service.Daily(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].EmployeeID).To(Equal("E123"))
		Expect(rows[0].Name).To(Equal("FirstE123 LastE123"))
		Expect(rows[1].LateMinutes).To(Equal(20))
		Expect(rows[1].TimeOut).To(BeNil())
	})

	It("defaults the daily report to today", func() {
		rows, err := service.Daily(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Date).To(Equal("2026-03-03"))
	})

	It("rejects a malformed date", func() {
		_, err := service.Daily(ctx, "03/02/2026")
		Expect(err).To(HaveOccurred())
	})

	It("aggregates the month per employee", func() {
		rows, err := service.Monthly(ctx, "2026-03")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		Expect(*rows[0]).To(Equal(report.MonthlyRow{
			EmployeeID: "E123", Name: "FirstE123 LastE123",
			DaysPresent: 1, DaysLate: 1, Absences: 0, TotalLateMinutes: 16, TotalHours: 17.5,
		}))
		Expect(rows[1].Absences).To(Equal(int64(1)))
		Expect(rows[1].TotalHours).To(BeZero())
	})

	It("lists log entries in a date range", func() {
		rows, err := service.Logs(ctx, "2026-03-02", "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Event).To(Equal(attendanceDatamodel.EventTimeIn))

		rows, err = service.Logs(ctx, "2026-03-02", "2026-03-03")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))

		_, err = service.Logs(ctx, "2026-03-03", "2026-03-02")
		Expect(err).To(HaveOccurred())
	})

	It("exports the daily report as a workbook", func() {
		exp, err := service.ExportDaily(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Filename).To(Equal("Daily_Attendance_2026-03-02.xlsx"))

		f, err := excelize.OpenReader(bytes.NewReader(exp.Content))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Daily Attendance")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("Employee ID"))
		Expect(rows[1][0]).To(Equal("E123"))
		Expect(rows[1][3]).To(Equal("2026-03-02 09:00:00"))
	})

	It("names the monthly and log exports after their range", func() {
		exp, err := service.ExportMonthly(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Filename).To(Equal("Monthly_Summary_2026-03.xlsx"))

		exp, err = service.ExportLogs(ctx, "2026-03-01", "2026-03-03")
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Filename).To(Equal("Logs_2026-03-01_to_2026-03-03.xlsx"))
	})

	Describe("generated register", func() {
		var adminID int64

		BeforeEach(func() {
			a := &adminDatamodel.Admin{Name: "Root", Username: "root", PasswordHash: "x", Role: adminDatamodel.RoleSuperAdmin}
			Expect(db.Create(a).Error).To(Succeed())
			adminID = a.ID
		})

		It("registers, lists, edits and deletes entries", func() {
			created, err := service.CreateGenerated(ctx, adminID, report.GeneratedReportDTO{ReportType: "daily", Remarks: "March 2"})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListGenerated(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].GeneratedBy).To(Equal("root"))

			updated, err := service.UpdateGenerated(ctx, created.ID, report.GeneratedReportDTO{ReportType: "monthly", Remarks: "March"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ReportType).To(Equal("monthly"))

			Expect(service.DeleteGenerated(ctx, created.ID)).To(Succeed())
			Expect(service.DeleteGenerated(ctx, created.ID)).To(MatchError(report.ErrReportNotFound))
		})

		It("validates the report type", func() {
			_, err := service.CreateGenerated(ctx, adminID, report.GeneratedReportDTO{ReportType: "weekly"})
			Expect(err).To(HaveOccurred())
		})
	})
})
