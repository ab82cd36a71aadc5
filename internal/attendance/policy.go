package attendance

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
)

// Policy decides the status of a time-in and which calendar day an instant
// belongs to.
type Policy struct {
	ShiftHour   int
	ShiftMinute int
	Grace       time.Duration
	Location    *time.Location
}

func NewPolicy(cfg internal.AttendanceConfig) (*Policy, error) {
	hour, minute, err := cfg.ShiftStartClock()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Policy{
		ShiftHour:   hour,
		ShiftMinute: minute,
		Grace:       cfg.GracePeriod,
		Location:    loc,
	}, nil
}

func (p *Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// ShiftStart is the start of the shift on the calendar day of now.
func (p *Policy) ShiftStart(now time.Time) time.Time {
	local := now.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), p.ShiftHour, p.ShiftMinute, 0, 0, p.location())
}

// Evaluate returns Present up to and including shift start plus grace, Late
// with whole minutes since shift start afterwards.
func (p *Policy) Evaluate(now time.Time) (string, int) {
	start := p.ShiftStart(now)
	if !now.After(start.Add(p.Grace)) {
		return StatusPresent, 0
	}
	return StatusLate, int(now.Sub(start) / time.Minute)
}

// Date is the attendance date of now.
func (p *Policy) Date(now time.Time) string {
	return now.In(p.location()).Format(attendanceDatamodel.DateLayout)
}

// LastDays returns the n dates ending with today, oldest first.
func (p *Policy) LastDays(now time.Time, n int) []string {
	local := now.In(p.location())
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, local.AddDate(0, 0, -i).Format(attendanceDatamodel.DateLayout))
	}
	return days
}

// MonthRange returns the first and last date of the month of now.
func (p *Policy) MonthRange(now time.Time) (string, string) {
	local := now.In(p.location())
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, p.location())
	last := first.AddDate(0, 1, -1)
	return first.Format(attendanceDatamodel.DateLayout), last.Format(attendanceDatamodel.DateLayout)
}
