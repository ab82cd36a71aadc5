package attendance

import "time"

const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
)

const (
	EventTimeIn  = "time_in"
	EventTimeOut = "time_out"
	EventAbsent  = "absent"
)

// DateLayout is the format of Attendance.AttendanceDate.
const DateLayout = "2006-01-02"

type Attendance struct {
	ID             int64      `gorm:"primaryKey"`
	EmployeeID     string     `gorm:"column:employee_id;size:32;not null;uniqueIndex:idx_attendance_employee_date,priority:1"`
	AttendanceDate string     `gorm:"column:attendance_date;type:varchar(10);not null;uniqueIndex:idx_attendance_employee_date,priority:2"`
	TimeIn         *time.Time `gorm:"column:time_in"`
	TimeOut        *time.Time `gorm:"column:time_out"`
	Status         string     `gorm:"column:status;size:16;not null"`
	LateMinutes    int        `gorm:"column:late_minutes;not null;default:0"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// AttendanceWithEmployee is the admin list read model.
type AttendanceWithEmployee struct {
	Attendance
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

type AttendanceLog struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID string    `gorm:"column:employee_id;size:32;not null;index"`
	Event      string    `gorm:"column:event;size:16;not null"`
	Status     string    `gorm:"column:status;size:16"`
	LoggedAt   time.Time `gorm:"column:logged_at;not null;index"`
}

func (AttendanceLog) TableName() string {
	return "attendance_logs"
}
