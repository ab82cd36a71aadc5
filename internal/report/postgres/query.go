package postgres

import (
	"context"
	"fmt"
	"time"

	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"github.com/jmoiron/sqlx"
)

// QueryRepository runs report aggregations through sqlx. Queries are written
// with ? placeholders and rebound for the connection's driver.
type QueryRepository struct {
	db *sqlx.DB
}

func NewQueryRepository(db *sqlx.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

var _ report.QueryAPI = (*QueryRepository)(nil)

const dailyQuery = `
SELECT a.employee_id, e.first_name || ' ' || e.last_name AS name, a.attendance_date,
       a.time_in, a.time_out, a.status, a.late_minutes
  FROM attendance a
  JOIN employees e ON e.id = a.employee_id
 WHERE a.attendance_date = ?
 ORDER BY a.time_in IS NULL, a.time_in, a.employee_id`

func (r *QueryRepository) Daily(ctx context.Context, date string) ([]*report.DailyRow, error) {
	rows := []*report.DailyRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(dailyQuery), date); err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	return rows, nil
}

const monthlyQuery = `
SELECT a.employee_id, e.first_name || ' ' || e.last_name AS name,
       SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS days_present,
       SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS days_late,
       SUM(CASE WHEN a.status = ? THEN 1 ELSE 0 END) AS absences,
       SUM(a.late_minutes) AS total_late_minutes
  FROM attendance a
  JOIN employees e ON e.id = a.employee_id
 WHERE a.attendance_date >= ? AND a.attendance_date <= ?
 GROUP BY a.employee_id, e.first_name, e.last_name
 ORDER BY a.employee_id`

func (r *QueryRepository) Monthly(ctx context.Context, from, to string) ([]*report.MonthlyRow, error) {
	rows := []*report.MonthlyRow{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(monthlyQuery),
		attendanceDatamodel.StatusPresent, attendanceDatamodel.StatusLate, attendanceDatamodel.StatusAbsent,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return rows, nil
}

const workedSpansQuery = `
SELECT employee_id, time_in, time_out
  FROM attendance
 WHERE attendance_date >= ? AND attendance_date <= ?
   AND time_in IS NOT NULL AND time_out IS NOT NULL`

func (r *QueryRepository) WorkedSpans(ctx context.Context, from, to string) ([]*report.WorkedSpan, error) {
	spans := []*report.WorkedSpan{}
	if err := r.db.SelectContext(ctx, &spans, r.db.Rebind(workedSpansQuery), from, to); err != nil {
		return nil, fmt.Errorf("worked spans: %w", err)
	}
	return spans, nil
}

const logsQuery = `
SELECT l.employee_id, e.first_name || ' ' || e.last_name AS name, l.event, l.status, l.logged_at
  FROM attendance_logs l
  JOIN employees e ON e.id = l.employee_id
 WHERE l.logged_at >= ? AND l.logged_at < ?
 ORDER BY l.logged_at, l.id`

func (r *QueryRepository) Logs(ctx context.Context, from, to time.Time) ([]*report.LogRow, error) {
	rows := []*report.LogRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(logsQuery), from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("log report: %w", err)
	}
	return rows, nil
}
