package attendance

import (
	"context"
	"fmt"
	"log/slog"

	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	"github.com/frahmantamala/attendance-tracker/internal/core/events"
)

type LogRepositoryAPI interface {
	Append(ctx context.Context, entry *attendanceDatamodel.AttendanceLog) error
}

// EventHandler appends every attendance event to the attendance log.
type EventHandler struct {
	logs   LogRepositoryAPI
	logger *slog.Logger
}

func NewEventHandler(logs LogRepositoryAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		logs:   logs,
		logger: logger,
	}
}

var logEvents = map[string]string{
	events.EventTypeTimeIn:  attendanceDatamodel.EventTimeIn,
	events.EventTypeTimeOut: attendanceDatamodel.EventTimeOut,
	events.EventTypeAbsent:  attendanceDatamodel.EventAbsent,
}

func (h *EventHandler) HandleAttendanceEvent(ctx context.Context, event events.Event) error {
	attendanceEvent, ok := event.(*events.AttendanceEvent)
	if !ok {
		h.logger.Error("invalid event type for attendance log handler", "event_type", event.EventType())
		return fmt.Errorf("expected AttendanceEvent, got %T", event)
	}

	entry := &attendanceDatamodel.AttendanceLog{
		EmployeeID: attendanceEvent.EmployeeID,
		Event:      logEvents[attendanceEvent.EventType()],
		Status:     attendanceEvent.Status,
		LoggedAt:   attendanceEvent.OccurredAt().UTC(),
	}
	if err := h.logs.Append(ctx, entry); err != nil {
		h.logger.Error("failed to append attendance log",
			"error", err,
			"employee_id", attendanceEvent.EmployeeID,
			"event_id", attendanceEvent.EventID())
		return fmt.Errorf("append attendance log for %s: %w", attendanceEvent.EmployeeID, err)
	}

	h.logger.Debug("attendance log appended",
		"employee_id", attendanceEvent.EmployeeID,
		"event", entry.Event,
		"event_id", attendanceEvent.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{events.EventTypeTimeIn, events.EventTypeTimeOut, events.EventTypeAbsent}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleAttendanceEvent)
	}

	h.logger.Info("attendance event handlers registered", "handlers", types)
}
