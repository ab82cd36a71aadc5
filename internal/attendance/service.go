package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
	"github.com/frahmantamala/attendance-tracker/internal/employee"
)

var ErrNotFound = errors.New("attendance not found")

type ListFilter struct {
	From       string
	To         string
	EmployeeID string
}

type RepositoryAPI interface {
	// InsertIfAbsent reports false when a row for the employee and date exists.
	InsertIfAbsent(ctx context.Context, row *attendanceDatamodel.Attendance) (bool, error)
	// SetTimeOut updates only a row with time-in and without time-out.
	SetTimeOut(ctx context.Context, employeeID, date string, at time.Time) (int64, error)
	GetByEmployeeDate(ctx context.Context, employeeID, date string) (*attendanceDatamodel.Attendance, error)
	ListUnrecorded(ctx context.Context, date string) ([]string, error)

	GetByID(ctx context.Context, id int64) (*attendanceDatamodel.Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]*attendanceDatamodel.AttendanceWithEmployee, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*attendanceDatamodel.Attendance, error)
	PresentByDate(ctx context.Context, from, to string) (map[string]int64, error)
	CountStatuses(ctx context.Context, from, to string) (*StatusCounts, error)
	Update(ctx context.Context, row *attendanceDatamodel.Attendance) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeLookup interface {
	GetSummary(ctx context.Context, employeeID string) (*employee.Summary, error)
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	policy    *Policy
	publisher events.Publisher
	logger    *slog.Logger

	Now func() time.Time
}

func NewService(repo RepositoryAPI, employees EmployeeLookup, policy *Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		Now:       time.Now,
	}
}

func (s *Service) TimeIn(ctx context.Context, employeeID string) (*Record, error) {
	if err := s.ensureActive(ctx, employeeID); err != nil {
		return nil, err
	}

	now := s.Now()
	status, lateMinutes := s.policy.Evaluate(now)
	at := now.UTC()
	row := &attendanceDatamodel.Attendance{
		EmployeeID:     employeeID,
		AttendanceDate: s.policy.Date(now),
		TimeIn:         &at,
		Status:         status,
		LateMinutes:    lateMinutes,
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, row)
	if err != nil {
		s.logger.Error("failed to record time-in", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to record time-in", err)
	}
	if !inserted {
		return nil, ErrAlreadyTimedIn
	}

	s.logger.Info("time-in recorded",
		"employee_id", employeeID,
		"date", row.AttendanceDate,
		"status", status,
		"late_minutes", lateMinutes)
	s.publish(ctx, events.NewTimeInEvent(employeeID, row.AttendanceDate, status, lateMinutes, at))

	return FromDataModel(row), nil
}

func (s *Service) TimeOut(ctx context.Context, employeeID string) (*Record, error) {
	now := s.Now()
	date := s.policy.Date(now)
	at := now.UTC()

	updated, err := s.repo.SetTimeOut(ctx, employeeID, date, at)
	if err != nil {
		s.logger.Error("failed to record time-out", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to record time-out", err)
	}

	row, err := s.repo.GetByEmployeeDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoTimeInRecord
		}
		return nil, internal.NewInternalError("failed to read attendance", err)
	}

	if updated == 0 {
		if row.TimeIn == nil {
			return nil, ErrNoTimeInRecord
		}
		return nil, ErrAlreadyTimedOut
	}

	s.logger.Info("time-out recorded", "employee_id", employeeID, "date", date)
	s.publish(ctx, events.NewTimeOutEvent(employeeID, date, row.Status, at))

	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*RecordView, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list attendance", err)
	}
	return toViews(rows), nil
}

func (s *Service) Today(ctx context.Context) ([]*RecordView, error) {
	today := s.policy.Date(s.Now())
	return s.List(ctx, ListFilter{From: today, To: today})
}

func (s *Service) ForEmployee(ctx context.Context, employeeID string) ([]*Record, error) {
	rows, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list attendance", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDataModel(row))
	}
	return records, nil
}

// Trends counts Present records for each of the last seven days, including
// days without any record.
func (s *Service) Trends(ctx context.Context) ([]TrendPoint, error) {
	days := s.policy.LastDays(s.Now(), 7)
	counts, err := s.repo.PresentByDate(ctx, days[0], days[len(days)-1])
	if err != nil {
		return nil, internal.NewInternalError("failed to load attendance trends", err)
	}

	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, TrendPoint{Date: day, Present: counts[day]})
	}
	return points, nil
}

func (s *Service) MonthlySummary(ctx context.Context) (*MonthlySummary, error) {
	now := s.Now()
	from, to := s.policy.MonthRange(now)
	counts, err := s.repo.CountStatuses(ctx, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to load monthly summary", err)
	}
	return &MonthlySummary{Month: from[:7], StatusCounts: *counts}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, internal.NewInternalError("failed to get attendance", err)
	}
	return FromDataModel(row), nil
}

// Create inserts an admin-entered record.
func (s *Service) Create(ctx context.Context, dto RecordDTO) (*Record, error) {
	row, err := s.fromDTO(ctx, dto)
	if err != nil {
		return nil, err
	}

	inserted, err := s.repo.InsertIfAbsent(ctx, row)
	if err != nil {
		return nil, internal.NewInternalError("failed to create attendance", err)
	}
	if !inserted {
		return nil, ErrAttendanceExists
	}

	s.logger.Info("attendance created by admin", "attendance_id", row.ID, "employee_id", row.EmployeeID, "date", row.AttendanceDate)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto RecordDTO) (*Record, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, internal.NewInternalError("failed to get attendance", err)
	}

	row, err := s.fromDTO(ctx, dto)
	if err != nil {
		return nil, err
	}

	other, err := s.repo.GetByEmployeeDate(ctx, row.EmployeeID, row.AttendanceDate)
	switch {
	case err == nil && other.ID != id:
		return nil, ErrAttendanceExists
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, internal.NewInternalError("failed to check attendance", err)
	}

	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to update attendance", err)
	}

	s.logger.Info("attendance updated by admin", "attendance_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return internal.NewInternalError("failed to delete attendance", err)
	}
	s.logger.Info("attendance deleted by admin", "attendance_id", id)
	return nil
}

func (s *Service) fromDTO(ctx context.Context, dto RecordDTO) (*attendanceDatamodel.Attendance, error) {
	dto.EmployeeID = strings.TrimSpace(dto.EmployeeID)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetSummary(ctx, dto.EmployeeID); err != nil {
		return nil, err
	}

	timeIn, err := parseTimestamp(dto.TimeIn, s.policy.location())
	if err != nil {
		return nil, internal.NewValidationFieldError("time_in", err.Error(), internal.ErrCodeInvalidDate)
	}
	timeOut, err := parseTimestamp(dto.TimeOut, s.policy.location())
	if err != nil {
		return nil, internal.NewValidationFieldError("time_out", err.Error(), internal.ErrCodeInvalidDate)
	}
	if timeIn != nil && timeOut != nil && timeOut.Before(*timeIn) {
		return nil, internal.NewValidationFieldError("time_out", "time_out must not be before time_in", internal.ErrCodeValidationFailed)
	}
	if dto.Status == StatusAbsent && timeIn != nil {
		return nil, internal.NewValidationFieldError("status", "an Absent record cannot have a time_in", internal.ErrCodeValidationFailed)
	}

	lateMinutes := 0
	switch {
	case dto.LateMinutes != nil:
		lateMinutes = *dto.LateMinutes
	case dto.Status == StatusLate && timeIn != nil:
		_, lateMinutes = s.policy.Evaluate(*timeIn)
	}
	if dto.Status != StatusLate {
		lateMinutes = 0
	}

	return &attendanceDatamodel.Attendance{
		EmployeeID:     dto.EmployeeID,
		AttendanceDate: dto.Date,
		TimeIn:         timeIn,
		TimeOut:        timeOut,
		Status:         dto.Status,
		LateMinutes:    lateMinutes,
	}, nil
}

func (s *Service) ensureActive(ctx context.Context, employeeID string) error {
	if strings.TrimSpace(employeeID) == "" {
		return internal.NewValidationFieldError("employeeID", "employeeID is required", internal.ErrCodeValidationFailed)
	}
	summary, err := s.employees.GetSummary(ctx, employeeID)
	if err != nil {
		return err
	}
	if summary.Status != employee.StatusActive {
		return internal.ErrEmployeeInactive
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish attendance event", "event_type", event.EventType(), "error", err)
	}
}

// SuccessMessage is the body message for a recorded clock action.
func SuccessMessage(eventType string, rec *Record) string {
	if eventType == events.EventTypeTimeOut {
		return "Time out recorded"
	}
	return fmt.Sprintf("Time in recorded as %s", rec.Status)
}

func toViews(rows []*attendanceDatamodel.AttendanceWithEmployee) []*RecordView {
	views := make([]*RecordView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ViewFromDataModel(row))
	}
	return views
}
