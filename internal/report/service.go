package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal"
	"github.com/frahmantamala/attendance-tracker/internal/core/common/validation"
	reportDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/report"
)

var ErrNotFound = errors.New("report not found")

const (
	dateLayout      = "2006-01-02"
	monthLayout     = "2006-01"
	timestampLayout = "2006-01-02 15:04:05"
)

// QueryAPI runs the read-only aggregation queries behind the reports.
type QueryAPI interface {
	Daily(ctx context.Context, date string) ([]*DailyRow, error)
	Monthly(ctx context.Context, from, to string) ([]*MonthlyRow, error)
	WorkedSpans(ctx context.Context, from, to string) ([]*WorkedSpan, error)
	Logs(ctx context.Context, from, to time.Time) ([]*LogRow, error)
}

type RegisterAPI interface {
	List(ctx context.Context) ([]*reportDatamodel.ReportWithAdmin, error)
	GetByID(ctx context.Context, id int64) (*reportDatamodel.Report, error)
	Create(ctx context.Context, r *reportDatamodel.Report) error
	Update(ctx context.Context, r *reportDatamodel.Report) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	queries  QueryAPI
	register RegisterAPI
	location *time.Location
	logger   *slog.Logger

	Now func() time.Time
}

func NewService(queries QueryAPI, register RegisterAPI, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		queries:  queries,
		register: register,
		location: location,
		logger:   logger,
		Now:      time.Now,
	}
}

// Daily lists every record of date, defaulting to today.
func (s *Service) Daily(ctx context.Context, date string) ([]*DailyRow, error) {
	date, err := s.dateOrToday(date)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.Daily(ctx, date)
	if err != nil {
		return nil, internal.NewInternalError("failed to load daily report", err)
	}
	return rows, nil
}

// Monthly aggregates per employee for month (YYYY-MM), defaulting to the
// current month. Hours come from completed time-in/time-out pairs.
func (s *Service) Monthly(ctx context.Context, month string) ([]*MonthlyRow, error) {
	from, to, err := s.monthRange(month)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.Monthly(ctx, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to load monthly report", err)
	}

	spans, err := s.queries.WorkedSpans(ctx, from, to)
	if err != nil {
		return nil, internal.NewInternalError("failed to load worked hours", err)
	}

	worked := make(map[string]time.Duration)
	for _, span := range spans {
		if span.TimeOut.After(span.TimeIn) {
			worked[span.EmployeeID] += span.TimeOut.Sub(span.TimeIn)
		}
	}
	for _, row := range rows {
		row.TotalHours = roundHours(worked[row.EmployeeID])
	}
	return rows, nil
}

// Logs lists attendance log entries between two dates, both inclusive.
func (s *Service) Logs(ctx context.Context, from, to string) ([]*LogRow, error) {
	start, end, err := s.logRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.queries.Logs(ctx, start, end)
	if err != nil {
		return nil, internal.NewInternalError("failed to load attendance logs", err)
	}
	return rows, nil
}

func (s *Service) ExportDaily(ctx context.Context, date string) (*Export, error) {
	date, err := s.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.Daily(ctx, date)
	if err != nil {
		return nil, err
	}

	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{r.EmployeeID, r.Name, r.Date, s.formatTime(r.TimeIn), s.formatTime(r.TimeOut), r.Status, r.LateMinutes})
	}
	content, err := writeSheet("Daily Attendance", []column{
		{"Employee ID", 15}, {"Name", 25}, {"Date", 15}, {"Time In", 20},
		{"Time Out", 20}, {"Status", 12}, {"Late Minutes", 15},
	}, cells)
	if err != nil {
		return nil, internal.NewInternalError("failed to render daily report", err)
	}
	return &Export{Filename: fmt.Sprintf("Daily_Attendance_%s.xlsx", date), Content: content}, nil
}

func (s *Service) ExportMonthly(ctx context.Context, month string) (*Export, error) {
	from, _, err := s.monthRange(month)
	if err != nil {
		return nil, err
	}
	rows, err := s.Monthly(ctx, from[:7])
	if err != nil {
		return nil, err
	}

	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []interface{}{r.EmployeeID, r.Name, r.DaysPresent, r.DaysLate, r.Absences, r.TotalLateMinutes, r.TotalHours})
	}
	content, err := writeSheet("Monthly Summary", []column{
		{"Employee ID", 15}, {"Name", 25}, {"Days Present", 15}, {"Days Late", 12},
		{"Absences", 12}, {"Total Late Minutes", 18}, {"Total Hours", 15},
	}, cells)
	if err != nil {
		return nil, internal.NewInternalError("failed to render monthly report", err)
	}
	return &Export{Filename: fmt.Sprintf("Monthly_Summary_%s.xlsx", from[:7]), Content: content}, nil
}

func (s *Service) ExportLogs(ctx context.Context, from, to string) (*Export, error) {
	rows, err := s.Logs(ctx, from, to)
	if err != nil {
		return nil, err
	}

	cells := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		loggedAt := r.LoggedAt
		cells = append(cells, []interface{}{r.EmployeeID, r.Name, s.formatTime(&loggedAt), r.Event, r.Status})
	}
	content, err := writeSheet("Logs", []column{
		{"Employee ID", 15}, {"Name", 25}, {"Timestamp", 22}, {"Event", 12}, {"Status", 12},
	}, cells)
	if err != nil {
		return nil, internal.NewInternalError("failed to render log report", err)
	}

	start, end, _ := s.logRange(from, to)
	return &Export{
		Filename: fmt.Sprintf("Logs_%s_to_%s.xlsx", start.In(s.location).Format(dateLayout), end.In(s.location).AddDate(0, 0, -1).Format(dateLayout)),
		Content:  content,
	}, nil
}

func (s *Service) ListGenerated(ctx context.Context) ([]*GeneratedReport, error) {
	rows, err := s.register.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list generated reports", err)
	}

	reports := make([]*GeneratedReport, 0, len(rows))
	for _, row := range rows {
		r := FromDataModel(&row.Report)
		r.GeneratedBy = row.GeneratedBy
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *Service) CreateGenerated(ctx context.Context, adminID int64, dto GeneratedReportDTO) (*GeneratedReport, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row := &reportDatamodel.Report{
		AdminID:       adminID,
		ReportType:    dto.ReportType,
		Remarks:       dto.Remarks,
		DateGenerated: s.Now().UTC(),
	}
	if err := s.register.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to register report", err)
	}

	s.logger.Info("report registered", "report_id", row.ID, "admin_id", adminID, "report_type", row.ReportType)
	return FromDataModel(row), nil
}

func (s *Service) UpdateGenerated(ctx context.Context, id int64, dto GeneratedReportDTO) (*GeneratedReport, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.register.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, internal.NewInternalError("failed to get report", err)
	}

	row.ReportType = dto.ReportType
	row.Remarks = dto.Remarks
	if err := s.register.Update(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to update report", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) DeleteGenerated(ctx context.Context, id int64) error {
	if err := s.register.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrReportNotFound
		}
		return internal.NewInternalError("failed to delete report", err)
	}
	return nil
}

func (s *Service) dateOrToday(date string) (string, error) {
	if date == "" {
		return s.Now().In(s.location).Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", internal.NewValidationFieldError("date", "date must be YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	return date, nil
}

func (s *Service) monthRange(month string) (string, string, error) {
	var first time.Time
	if month == "" {
		now := s.Now().In(s.location)
		first = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	} else {
		parsed, err := time.ParseInLocation(monthLayout, month, s.location)
		if err != nil {
			return "", "", internal.NewValidationFieldError("month", "month must be YYYY-MM", internal.ErrCodeInvalidDate)
		}
		first = parsed
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout), nil
}

// logRange turns inclusive dates into a half-open instant range. Blank
// bounds default to today.
func (s *Service) logRange(from, to string) (time.Time, time.Time, error) {
	from, err := s.dateOrToday(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to == "" {
		to = from
	}
	to, err = s.dateOrToday(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, _ := time.ParseInLocation(dateLayout, from, s.location)
	end, _ := time.ParseInLocation(dateLayout, to, s.location)
	if end.Before(start) {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("to", "to must not be before from", internal.ErrCodeInvalidDate)
	}
	return start.UTC(), end.AddDate(0, 0, 1).UTC(), nil
}

func (s *Service) formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.location).Format(timestampLayout)
}

// roundHours converts to hours with two decimals.
func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
