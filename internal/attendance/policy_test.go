package attendance_test

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Policy", func() {
	var policy *attendance.Policy

	at := func(hour, minute, second int) time.Time {
		return time.Date(2026, 3, 2, hour, minute, second, 0, time.UTC)
	}

	BeforeEach(func() {
		cfg := internal.DefaultAttendanceConfig()
		cfg.Timezone = "UTC"
		var err error
		policy, err = attendance.NewPolicy(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("Evaluate",
		func(now time.Time, status string, late int) {
			gotStatus, gotLate := policy.Evaluate(now)
			Expect(gotStatus).To(Equal(status))
			Expect(gotLate).To(Equal(late))
		},
		Entry("early arrival", at(8, 30, 0), attendance.StatusPresent, 0),
		Entry("on the hour", at(9, 0, 0), attendance.StatusPresent, 0),
		Entry("end of grace", at(9, 15, 0), attendance.StatusPresent, 0),
		Entry("just past grace", at(9, 15, 30), attendance.StatusLate, 15),
		Entry("sixteen minutes", at(9, 16, 0), attendance.StatusLate, 16),
		Entry("afternoon", at(13, 5, 59), attendance.StatusLate, 245),
	)

	It("uses the configured zone for the calendar date", func() {
		manila, err := time.LoadLocation("Asia/Manila")
		Expect(err).NotTo(HaveOccurred())
		policy.Location = manila

		// 17:30 UTC on the 2nd is 01:30 on the 3rd in Manila.
		Expect(policy.Date(time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC))).To(Equal("2026-03-03"))
	})

	It("lists the last seven days oldest first", func() {
		days := policy.LastDays(at(10, 0, 0), 7)
		Expect(days).To(Equal([]string{
			"2026-02-24", "2026-02-25", "2026-02-26", "2026-02-27",
			"2026-02-28", "2026-03-01", "2026-03-02",
		}))
	})

	It("spans the whole month", func() {
		from, to := policy.MonthRange(time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC))
		Expect(from).To(Equal("2026-02-01"))
		Expect(to).To(Equal("2026-02-28"))
	})

	It("rejects a malformed shift start", func() {
		cfg := internal.DefaultAttendanceConfig()
		cfg.ShiftStart = "9am"
		_, err := attendance.NewPolicy(cfg)
		Expect(err).To(HaveOccurred())
	})
})
