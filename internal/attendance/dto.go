package attendance

import (
	"fmt"
	"strings"
	"time"
)

// ClockDTO is the time-in / time-out body. EmployeeID names somebody other
// than the caller only on admin scan stations.
type ClockDTO struct {
	EmployeeID string `json:"employeeID"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MyRecordsResponse struct {
	Records []*Record `json:"records"`
}

// RecordDTO is an admin override of a record.
type RecordDTO struct {
	EmployeeID  string `json:"employeeID" validate:"required,employee_id"`
	Date        string `json:"date" validate:"required,date"`
	TimeIn      string `json:"time_in"`
	TimeOut     string `json:"time_out"`
	Status      string `json:"status" validate:"required,oneof=Present Late Absent"`
	LateMinutes *int   `json:"late_minutes" validate:"omitempty,min=0"`
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTimestamp accepts the layouts the dashboard sends; blank is nil.
func parseTimestamp(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", value)
}
