package attendance_test

import (
	"context"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Absence Sweeper", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		f.seed("E123", "E200", "E300")
		ctx = context.Background()
	})

	It("marks only active employees without a record", func() {
		_, err := f.service.TimeIn(ctx, "E123")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", "E300").
			Update("status", employeeDatamodel.StatusInactive).Error).To(Succeed())

		result, err := f.sweeper.Sweep(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(attendance.SweepResult{Date: "2026-03-02", Candidates: 1, Marked: 1}))

		rows := f.rows("E200")
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Status).To(Equal(attendance.StatusAbsent))
		Expect(rows[0].TimeIn).To(BeNil())
		Expect(rows[0].TimeOut).To(BeNil())
		Expect(f.rows("E300")).To(BeEmpty())
		Expect(f.rows("E123")[0].Status).To(Equal(attendance.StatusPresent))
	})

	It("is idempotent", func() {
		first, err := f.sweeper.Sweep(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Marked).To(Equal(3))

		second, err := f.sweeper.Sweep(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Marked).To(BeZero())
		Expect(second.Candidates).To(BeZero())

		for _, id := range []string{"E123", "E200", "E300"} {
			Expect(f.rows(id)).To(HaveLen(1))
		}
	})

	It("rejects a malformed date", func() {
		_, err := f.sweeper.Sweep(ctx, "March 2")
		Expect(err).To(HaveOccurred())
	})

	It("keeps a time-in that lands after the sweep listed the employee", func() {
		racing := &racingRepository{RepositoryAPI: f.repo, before: func() {
			_, err := f.service.TimeIn(ctx, "E123")
			Expect(err).NotTo(HaveOccurred())
		}}
		sweeper := attendance.NewSweeper(racing, nil, f.lg)

		result, err := sweeper.Sweep(ctx, "2026-03-02")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Candidates).To(Equal(3))
		Expect(result.Skipped).To(Equal(1))
		Expect(result.Marked).To(Equal(2))
		Expect(f.rows("E123")[0].Status).To(Equal(attendance.StatusPresent))
	})

	Describe("Scheduler", func() {
		It("sweeps the policy date on Tick", func() {
			scheduler, err := attendance.NewScheduler(f.sweeper, f.policy, internal.DefaultAbsenceSweepSchedule, f.lg)
			Expect(err).NotTo(HaveOccurred())
			scheduler.Now = func() time.Time { return time.Date(2026, 3, 2, 18, 1, 0, 0, time.UTC) }

			result, err := scheduler.Tick(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Date).To(Equal("2026-03-02"))
			Expect(result.Marked).To(Equal(3))
		})

		It("rejects an invalid schedule", func() {
			_, err := attendance.NewScheduler(f.sweeper, f.policy, "every evening", f.lg)
			Expect(err).To(HaveOccurred())
		})

		It("starts and stops", func() {
			scheduler, err := attendance.NewScheduler(f.sweeper, f.policy, internal.DefaultAbsenceSweepSchedule, f.lg)
			Expect(err).NotTo(HaveOccurred())
			scheduler.Start()

			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			Expect(scheduler.Stop(stopCtx)).To(Succeed())
		})
	})
})

// racingRepository runs before once ahead of the first insert, simulating a
// time-in that commits between the sweep's listing and its insert.
type racingRepository struct {
	attendance.RepositoryAPI
	before func()
	done   bool
}

func (r *racingRepository) InsertIfAbsent(ctx context.Context, row *attendanceDatamodel.Attendance) (bool, error) {
	if !r.done {
		r.done = true
		r.before()
	}
	return r.RepositoryAPI.InsertIfAbsent(ctx, row)
}
