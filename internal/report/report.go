package report

import (
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	reportDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/report"
)

var ErrReportNotFound = internal.ErrReportNotFound

type DailyRow struct {
	EmployeeID  string     `db:"employee_id" json:"employeeID"`
	Name        string     `db:"name" json:"name"`
	Date        string     `db:"attendance_date" json:"date"`
	TimeIn      *time.Time `db:"time_in" json:"time_in"`
	TimeOut     *time.Time `db:"time_out" json:"time_out"`
	Status      string     `db:"status" json:"status"`
	LateMinutes int        `db:"late_minutes" json:"late_minutes"`
}

type MonthlyRow struct {
	EmployeeID       string  `db:"employee_id" json:"employeeID"`
	Name             string  `db:"name" json:"name"`
	DaysPresent      int64   `db:"days_present" json:"days_present"`
	DaysLate         int64   `db:"days_late" json:"days_late"`
	Absences         int64   `db:"absences" json:"absences"`
	TotalLateMinutes int64   `db:"total_late_minutes" json:"total_late_minutes"`
	TotalHours       float64 `db:"-" json:"total_hours"`
}

// WorkedSpan is one completed time-in/time-out pair.
type WorkedSpan struct {
	EmployeeID string    `db:"employee_id"`
	TimeIn     time.Time `db:"time_in"`
	TimeOut    time.Time `db:"time_out"`
}

type LogRow struct {
	EmployeeID string    `db:"employee_id" json:"employeeID"`
	Name       string    `db:"name" json:"name"`
	Event      string    `db:"event" json:"event"`
	Status     string    `db:"status" json:"status"`
	LoggedAt   time.Time `db:"logged_at" json:"timestamp"`
}

// GeneratedReport is an entry of the generated-reports register.
type GeneratedReport struct {
	ID            int64     `json:"report_id"`
	AdminID       int64     `json:"admin_id"`
	GeneratedBy   string    `json:"generated_by,omitempty"`
	ReportType    string    `json:"report_type"`
	Remarks       string    `json:"remarks"`
	DateGenerated time.Time `json:"date_generated"`
}

// Export is a rendered spreadsheet.
type Export struct {
	Filename string
	Content  []byte
}

func FromDataModel(r *reportDatamodel.Report) *GeneratedReport {
	return &GeneratedReport{
		ID:            r.ID,
		AdminID:       r.AdminID,
		ReportType:    r.ReportType,
		Remarks:       r.Remarks,
		DateGenerated: r.DateGenerated,
	}
}
