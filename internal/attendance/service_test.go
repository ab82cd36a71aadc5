package attendance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendancePostgres "github.com/frahmantamala/attendance-tracker/internal/attendance/postgres"
	"github.com/frahmantamala/attendance-tracker/internal/auth"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/core/testdb"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
	employeePostgres "github.com/frahmantamala/attendance-tracker/internal/employee/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fixture wires the attendance service to an in-memory database with a
// controllable clock.
type fixture struct {
	db      *gorm.DB
	bus     *events.EventBus
	policy  *attendance.Policy
	service *attendance.Service
	sweeper *attendance.Sweeper
	repo    *attendancePostgres.AttendanceRepository
	now     time.Time
	lg      *slog.Logger
}

func newFixture() *fixture {
	db, err := testdb.Open()
	Expect(err).NotTo(HaveOccurred())

	f := &fixture{
		db:  db,
		lg:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	cfg := internal.DefaultAttendanceConfig()
	cfg.Timezone = "UTC"
	f.policy, err = attendance.NewPolicy(cfg)
	Expect(err).NotTo(HaveOccurred())

	f.bus = events.NewEventBus(f.lg)
	attendance.NewEventHandler(attendancePostgres.NewLogRepository(db), f.lg).RegisterEventHandlers(f.bus)

	employees := employee.NewService(employeePostgres.NewEmployeeRepository(db), auth.NewHasher(bcrypt.MinCost), f.lg)
	f.repo = attendancePostgres.NewAttendanceRepository(db)
	f.service = attendance.NewService(f.repo, employees, f.policy, f.bus, f.lg)
	f.service.Now = func() time.Time { return f.now }
	f.sweeper = attendance.NewSweeper(f.repo, f.bus, f.lg)
	f.sweeper.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) seed(ids ...string) {
	for _, id := range ids {
		_, err := testdb.SeedEmployee(f.db, id, "First"+id, "Last"+id, nil)
		Expect(err).NotTo(HaveOccurred())
	}
}

func (f *fixture) rows(employeeID string) []attendanceDatamodel.Attendance {
	var rows []attendanceDatamodel.Attendance
	Expect(f.db.Where("employee_id = ?", employeeID).Find(&rows).Error).To(Succeed())
	return rows
}

func (f *fixture) logs() []attendanceDatamodel.AttendanceLog {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	Expect(f.bus.Wait(ctx)).To(Succeed())

	var entries []attendanceDatamodel.AttendanceLog
	Expect(f.db.Order("id").Find(&entries).Error).To(Succeed())
	return entries
}

var _ = Describe("Attendance Service", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		f.seed("E123", "E200")
		ctx = context.Background()
	})

	Describe("TimeIn", func() {
		It("records Present at 09:00", func() {
			rec, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))
			Expect(rec.LateMinutes).To(BeZero())
			Expect(rec.AttendanceDate).To(Equal("2026-03-02"))
			Expect(attendance.SuccessMessage(events.EventTypeTimeIn, rec)).To(Equal("Time in recorded as Present"))
		})

		It("records Late with minutes at 09:16", func() {
			f.now = time.Date(2026, 3, 2, 9, 16, 0, 0, time.UTC)
			rec, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Status).To(Equal(attendance.StatusLate))
			Expect(rec.LateMinutes).To(Equal(16))
		})

		It("refuses a second time-in and leaves the first untouched", func() {
			_, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			f.now = f.now.Add(30 * time.Minute)
			_, err = f.service.TimeIn(ctx, "E123")
			Expect(err).To(MatchError(attendance.ErrAlreadyTimedIn))

			rows := f.rows("E123")
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Status).To(Equal(attendance.StatusPresent))
			Expect(rows[0].TimeIn.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))).To(BeTrue())
		})

		It("lets exactly one of many concurrent time-ins win", func() {
			const callers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
				conflicts int
			)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := f.service.TimeIn(ctx, "E123")
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						succeeded++
					case errors.Is(err, attendance.ErrAlreadyTimedIn):
						conflicts++
					default:
						Fail("unexpected error: " + err.Error())
					}
				}()
			}
			wg.Wait()

			Expect(succeeded).To(Equal(1))
			Expect(conflicts).To(Equal(callers - 1))
			Expect(f.rows("E123")).To(HaveLen(1))
		})

		It("rejects unknown and inactive employees", func() {
			_, err := f.service.TimeIn(ctx, "E999")
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))

			Expect(f.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", "E200").
				Update("status", employeeDatamodel.StatusInactive).Error).To(Succeed())
			_, err = f.service.TimeIn(ctx, "E200")
			Expect(err).To(MatchError(internal.ErrEmployeeInactive))
		})

		It("starts a new day after midnight", func() {
			_, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			f.now = f.now.Add(24 * time.Hour)
			_, err = f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(f.rows("E123")).To(HaveLen(2))
		})
	})

	Describe("TimeOut", func() {
		It("requires a time-in first", func() {
			_, err := f.service.TimeOut(ctx, "E123")
			Expect(err).To(MatchError(attendance.ErrNoTimeInRecord))
			Expect(f.rows("E123")).To(BeEmpty())
		})

		It("records time-out once", func() {
			_, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			f.now = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
			rec, err := f.service.TimeOut(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.TimeOut).NotTo(BeNil())
			Expect(rec.Status).To(Equal(attendance.StatusPresent))

			_, err = f.service.TimeOut(ctx, "E123")
			Expect(err).To(MatchError(attendance.ErrAlreadyTimedOut))
		})

		It("treats an Absent row as having no time-in", func() {
			_, err := f.sweeper.Sweep(ctx, "2026-03-02")
			Expect(err).NotTo(HaveOccurred())

			_, err = f.service.TimeOut(ctx, "E123")
			Expect(err).To(MatchError(attendance.ErrNoTimeInRecord))
		})
	})

	It("appends every transition to the attendance log", func() {
		_, err := f.service.TimeIn(ctx, "E123")
		Expect(err).NotTo(HaveOccurred())
		f.now = f.now.Add(8 * time.Hour)
		_, err = f.service.TimeOut(ctx, "E123")
		Expect(err).NotTo(HaveOccurred())
		_, err = f.sweeper.Sweep(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())

		entries := f.logs()
		Expect(entries).To(HaveLen(3))

		byEvent := map[string]string{}
		for _, e := range entries {
			byEvent[e.Event] = e.EmployeeID
		}
		Expect(byEvent).To(Equal(map[string]string{
			attendanceDatamodel.EventTimeIn:  "E123",
			attendanceDatamodel.EventTimeOut: "E123",
			attendanceDatamodel.EventAbsent:  "E200",
		}))
	})

	Describe("queries", func() {
		BeforeEach(func() {
			_, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())

			f.now = time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)
			_, err = f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			_, err = f.sweeper.Sweep(ctx, "2026-03-03")
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists today's records with names", func() {
			views, err := f.service.Today(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(2))
			for _, v := range views {
				Expect(v.AttendanceDate).To(Equal("2026-03-03"))
				Expect(v.Employee).To(Equal(v.FirstName + " " + v.LastName))
			}
		})

		It("lists an employee's own records newest first", func() {
			records, err := f.service.ForEmployee(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].AttendanceDate).To(Equal("2026-03-03"))
			Expect(records[0].Status).To(Equal(attendance.StatusLate))
		})

		It("counts Present records for the last seven days", func() {
			points, err := f.service.Trends(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(7))
			Expect(points[5]).To(Equal(attendance.TrendPoint{Date: "2026-03-02", Present: 1}))
			Expect(points[6]).To(Equal(attendance.TrendPoint{Date: "2026-03-03", Present: 0}))
			Expect(points[0].Present).To(BeZero())
		})

		It("summarises the current month", func() {
			summary, err := f.service.MonthlySummary(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Month).To(Equal("2026-03"))
			Expect(summary.Present).To(Equal(int64(1)))
			Expect(summary.Late).To(Equal(int64(1)))
			Expect(summary.Absent).To(Equal(int64(1)))
		})
	})

	Describe("admin overrides", func() {
		It("creates, updates and deletes a record", func() {
			rec, err := f.service.Create(ctx, attendance.RecordDTO{
				EmployeeID: "E200",
				Date:       "2026-02-27",
				TimeIn:     "2026-02-27T09:40",
				Status:     attendance.StatusLate,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.LateMinutes).To(Equal(40))

			_, err = f.service.Create(ctx, attendance.RecordDTO{EmployeeID: "E200", Date: "2026-02-27", Status: attendance.StatusAbsent})
			Expect(err).To(MatchError(attendance.ErrAttendanceExists))

			updated, err := f.service.Update(ctx, rec.ID, attendance.RecordDTO{
				EmployeeID: "E200",
				Date:       "2026-02-27",
				TimeIn:     "2026-02-27T09:05",
				TimeOut:    "2026-02-27T17:00",
				Status:     attendance.StatusPresent,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.LateMinutes).To(BeZero())
			Expect(updated.TimeOut).NotTo(BeNil())

			Expect(f.service.Delete(ctx, rec.ID)).To(Succeed())
			_, err = f.service.Get(ctx, rec.ID)
			Expect(err).To(MatchError(attendance.ErrAttendanceNotFound))
		})

		It("validates the record", func() {
			_, err := f.service.Create(ctx, attendance.RecordDTO{EmployeeID: "E200", Date: "27/02/2026", Status: "Sick"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))

			_, err = f.service.Create(ctx, attendance.RecordDTO{
				EmployeeID: "E200", Date: "2026-02-27", Status: attendance.StatusPresent,
				TimeIn: "2026-02-27T17:00", TimeOut: "2026-02-27T09:00",
			})
			Expect(err).To(HaveOccurred())
		})

		It("refuses to move a record onto another existing day", func() {
			first, err := f.service.Create(ctx, attendance.RecordDTO{EmployeeID: "E200", Date: "2026-02-26", Status: attendance.StatusAbsent})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.service.Create(ctx, attendance.RecordDTO{EmployeeID: "E200", Date: "2026-02-27", Status: attendance.StatusAbsent})
			Expect(err).NotTo(HaveOccurred())

			_, err = f.service.Update(ctx, first.ID, attendance.RecordDTO{EmployeeID: "E200", Date: "2026-02-27", Status: attendance.StatusAbsent})
			Expect(err).To(MatchError(attendance.ErrAttendanceExists))
		})
	})
})
