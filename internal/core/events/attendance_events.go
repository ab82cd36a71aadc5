package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTimeIn  = "attendance.time_in"
	EventTypeTimeOut = "attendance.time_out"
	EventTypeAbsent  = "attendance.absent"
)

// AttendanceEvent is published on every attendance state change.
type AttendanceEvent struct {
	BaseEvent
	EmployeeID     string `json:"employee_id"`
	AttendanceDate string `json:"attendance_date"`
	Status         string `json:"status"`
	LateMinutes    int    `json:"late_minutes"`
}

func newAttendanceEvent(eventType, employeeID, date, status string, lateMinutes int, at time.Time) *AttendanceEvent {
	return &AttendanceEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: at,
			Data: map[string]interface{}{
				"employee_id":     employeeID,
				"attendance_date": date,
				"status":          status,
				"late_minutes":    lateMinutes,
			},
		},
		EmployeeID:     employeeID,
		AttendanceDate: date,
		Status:         status,
		LateMinutes:    lateMinutes,
	}
}

func NewTimeInEvent(employeeID, date, status string, lateMinutes int, at time.Time) *AttendanceEvent {
	return newAttendanceEvent(EventTypeTimeIn, employeeID, date, status, lateMinutes, at)
}

func NewTimeOutEvent(employeeID, date, status string, at time.Time) *AttendanceEvent {
	return newAttendanceEvent(EventTypeTimeOut, employeeID, date, status, 0, at)
}

func NewAbsentEvent(employeeID, date string, at time.Time) *AttendanceEvent {
	return newAttendanceEvent(EventTypeAbsent, employeeID, date, "Absent", 0, at)
}
