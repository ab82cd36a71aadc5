package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
)

type SweepRepository interface {
	ListUnrecorded(ctx context.Context, date string) ([]string, error)
	InsertIfAbsent(ctx context.Context, row *attendanceDatamodel.Attendance) (bool, error)
}

type SweepResult struct {
	Date       string `json:"date"`
	Candidates int    `json:"candidates"`
	Marked     int    `json:"marked"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// Sweeper marks active employees without a record for a date as Absent.
type Sweeper struct {
	repo      SweepRepository
	publisher events.Publisher
	logger    *slog.Logger

	Now func() time.Time
}

func NewSweeper(repo SweepRepository, publisher events.Publisher, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		Now:       time.Now,
	}
}

// Sweep is idempotent. An employee who times in between the listing and the
// insert keeps the time-in row; the Absent insert then does nothing.
func (s *Sweeper) Sweep(ctx context.Context, date string) (SweepResult, error) {
	result := SweepResult{Date: date}

	if _, err := time.Parse(attendanceDatamodel.DateLayout, date); err != nil {
		return result, fmt.Errorf("invalid sweep date %q: %w", date, err)
	}

	ids, err := s.repo.ListUnrecorded(ctx, date)
	if err != nil {
		return result, fmt.Errorf("list unrecorded employees: %w", err)
	}
	result.Candidates = len(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row := &attendanceDatamodel.Attendance{
			EmployeeID:     id,
			AttendanceDate: date,
			Status:         StatusAbsent,
		}
		inserted, err := s.repo.InsertIfAbsent(ctx, row)
		if err != nil {
			result.Failed++
			s.logger.Error("failed to mark employee absent", "employee_id", id, "date", date, "error", err)
			continue
		}
		if !inserted {
			result.Skipped++
			continue
		}

		result.Marked++
		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, events.NewAbsentEvent(id, date, s.Now().UTC())); err != nil {
				s.logger.Warn("failed to publish absent event", "employee_id", id, "error", err)
			}
		}
	}

	s.logger.Info("absence sweep finished",
		"date", date,
		"candidates", result.Candidates,
		"marked", result.Marked,
		"skipped", result.Skipped,
		"failed", result.Failed)
	return result, nil
}
