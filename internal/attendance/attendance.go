package attendance

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
)

const (
	StatusPresent = attendanceDatamodel.StatusPresent
	StatusLate    = attendanceDatamodel.StatusLate
	StatusAbsent  = attendanceDatamodel.StatusAbsent
)

var (
	ErrAlreadyTimedIn     = internal.ErrAlreadyTimedIn
	ErrAlreadyTimedOut    = internal.ErrAlreadyTimedOut
	ErrNoTimeInRecord     = internal.ErrNoTimeInRecord
	ErrAttendanceNotFound = internal.ErrAttendanceNotFound
	ErrAttendanceExists   = internal.ErrAttendanceExists
)

// Record is one employee's attendance for one calendar date.
type Record struct {
	ID             int64      `json:"attendance_id"`
	EmployeeID     string     `json:"employeeID"`
	AttendanceDate string     `json:"date"`
	TimeIn         *time.Time `json:"time_in"`
	TimeOut        *time.Time `json:"time_out"`
	Status         string     `json:"status"`
	LateMinutes    int        `json:"late_minutes"`
}

// RecordView is a record joined with the employee name.
type RecordView struct {
	Record
	Employee  string `json:"employee"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TimedIn reports whether the record has a time-in and no time-out yet.
func (r *Record) TimedIn() bool {
	return r.TimeIn != nil && r.TimeOut == nil
}

type TrendPoint struct {
	Date    string `json:"date"`
	Present int64  `json:"present"`
}

type StatusCounts struct {
	Present int64 `json:"present"`
	Late    int64 `json:"late"`
	Absent  int64 `json:"absent"`
}

type MonthlySummary struct {
	Month string `json:"month"`
	StatusCounts
}

func FromDataModel(a *attendanceDatamodel.Attendance) *Record {
	return &Record{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.AttendanceDate,
		TimeIn:         a.TimeIn,
		TimeOut:        a.TimeOut,
		Status:         a.Status,
		LateMinutes:    a.LateMinutes,
	}
}

func ViewFromDataModel(a *attendanceDatamodel.AttendanceWithEmployee) *RecordView {
	return &RecordView{
		Record:    *FromDataModel(&a.Attendance),
		Employee:  a.FirstName + " " + a.LastName,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
