package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/attendance-tracker/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

var _ attendance.RepositoryAPI = (*AttendanceRepository)(nil)

func (r *AttendanceRepository) InsertIfAbsent(ctx context.Context, row *attendanceDatamodel.Attendance) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
		DoNothing: true,
	}).Create(row)
	if result.Error != nil {
		return false, fmt.Errorf("insert attendance: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *AttendanceRepository) SetTimeOut(ctx context.Context, employeeID, date string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&attendanceDatamodel.Attendance{}).
		Where("employee_id = ? AND attendance_date = ? AND time_in IS NOT NULL AND time_out IS NULL", employeeID, date).
		Updates(map[string]interface{}{
			"time_out":   at,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("set time out: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *AttendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID, date string) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND attendance_date = ?", employeeID, date).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &row, nil
}

func (r *AttendanceRepository) ListUnrecorded(ctx context.Context, date string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("employees e").
		Where("e.status = ?", employeeDatamodel.StatusActive).
		Where("NOT EXISTS (SELECT 1 FROM attendance a WHERE a.employee_id = e.id AND a.attendance_date = ?)", date).
		Order("e.id").
		Pluck("e.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list unrecorded employees: %w", err)
	}
	return ids, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrNotFound
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return &row, nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]*attendanceDatamodel.AttendanceWithEmployee, error) {
	q := r.db.WithContext(ctx).
		Table("attendance a").
		Select("a.*, e.first_name, e.last_name").
		Joins("LEFT JOIN employees e ON e.id = a.employee_id")

	if filter.From != "" {
		q = q.Where("a.attendance_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("a.attendance_date <= ?", filter.To)
	}
	if filter.EmployeeID != "" {
		q = q.Where("a.employee_id = ?", filter.EmployeeID)
	}

	var rows []*attendanceDatamodel.AttendanceWithEmployee
	if err := q.Order("a.attendance_date DESC, a.time_in ASC, a.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*attendanceDatamodel.Attendance, error) {
	var rows []*attendanceDatamodel.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list employee attendance: %w", err)
	}
	return rows, nil
}

func (r *AttendanceRepository) PresentByDate(ctx context.Context, from, to string) (map[string]int64, error) {
	var rows []struct {
		AttendanceDate string
		Present        int64
	}
	err := r.db.WithContext(ctx).
		Model(&attendanceDatamodel.Attendance{}).
		Select("attendance_date, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS present", attendance.StatusPresent).
		Where("attendance_date >= ? AND attendance_date <= ?", from, to).
		Group("attendance_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("present by date: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AttendanceDate] = row.Present
	}
	return counts, nil
}

func (r *AttendanceRepository) CountStatuses(ctx context.Context, from, to string) (*attendance.StatusCounts, error) {
	var counts attendance.StatusCounts
	err := r.db.WithContext(ctx).
		Model(&attendanceDatamodel.Attendance{}).
		Select(`COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS present,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS late,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS absent`,
			attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent).
		Where("attendance_date >= ? AND attendance_date <= ?", from, to).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count statuses: %w", err)
	}
	return &counts, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, row *attendanceDatamodel.Attendance) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&attendanceDatamodel.Attendance{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete attendance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return attendance.ErrNotFound
	}
	return nil
}

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Append(ctx context.Context, entry *attendanceDatamodel.AttendanceLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
