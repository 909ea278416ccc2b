package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/custom-timesheet/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, todo *ToDo) error
	// CloseOpen closes every open ToDo that references the timesheet and
	// reports how many rows changed.
	CloseOpen(ctx context.Context, referenceType, referenceName string) (int64, error)
	ListByOwner(ctx context.Context, owner, status string, limit, offset int) ([]*ToDo, error)
	Close(ctx context.Context, name, owner string) error
}

type EventHandler struct {
	repo   Repository
	logger *slog.Logger
}

func NewEventHandler(repo Repository, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func timesheetEvent(event events.Event) (*events.TimesheetEvent, error) {
	ts, ok := event.(*events.TimesheetEvent)
	if !ok {
		return nil, fmt.Errorf("expected TimesheetEvent, got %T", event)
	}
	return ts, nil
}

// HandleSubmitted opens one ToDo per approver of the submitted timesheet.
func (h *EventHandler) HandleSubmitted(ctx context.Context, event events.Event) error {
	ts, err := timesheetEvent(event)
	if err != nil {
		h.logger.Error("invalid event type for submitted handler", "event_type", event.EventType())
		return err
	}

	employee := ts.Employee
	if employee == "" {
		employee = ts.Owner
	}
	for _, approver := range ts.Approvers {
		todo := NewToDo(approver, ts.Actor, ts.Timesheet, approvalRequiredText(employee))
		if err := h.repo.Create(ctx, todo); err != nil {
			h.logger.Error("failed to create approval todo",
				"error", err,
				"timesheet", ts.Timesheet,
				"approver", approver,
				"event_id", ts.EventID())
			return fmt.Errorf("create todo for %s: %w", approver, err)
		}
	}

	h.logger.Info("approval todos created",
		"timesheet", ts.Timesheet,
		"approvers", len(ts.Approvers),
		"event_id", ts.EventID())
	return nil
}

func (h *EventHandler) HandleApproved(ctx context.Context, event events.Event) error {
	return h.handleDecision(ctx, event, "approved")
}

func (h *EventHandler) HandleRejected(ctx context.Context, event events.Event) error {
	return h.handleDecision(ctx, event, "rejected")
}

func (h *EventHandler) handleDecision(ctx context.Context, event events.Event, outcome string) error {
	ts, err := timesheetEvent(event)
	if err != nil {
		h.logger.Error("invalid event type for decision handler", "event_type", event.EventType())
		return err
	}

	closed, err := h.repo.CloseOpen(ctx, ReferenceTimesheet, ts.Timesheet)
	if err != nil {
		h.logger.Error("failed to close approval todos", "error", err, "timesheet", ts.Timesheet)
		return fmt.Errorf("close todos for %s: %w", ts.Timesheet, err)
	}

	if ts.Owner != "" {
		todo := NewToDo(ts.Owner, ts.Actor, ts.Timesheet, decisionText(ts.Timesheet, outcome, ts.Comments))
		if err := h.repo.Create(ctx, todo); err != nil {
			h.logger.Error("failed to notify timesheet owner", "error", err, "timesheet", ts.Timesheet, "owner", ts.Owner)
			return fmt.Errorf("create todo for %s: %w", ts.Owner, err)
		}
	}

	h.logger.Info("timesheet decision notified",
		"timesheet", ts.Timesheet,
		"outcome", outcome,
		"closed_todos", closed,
		"event_id", ts.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeTimesheetSubmitted, h.HandleSubmitted)
	eventBus.Subscribe(events.EventTypeTimesheetApproved, h.HandleApproved)
	eventBus.Subscribe(events.EventTypeTimesheetRejected, h.HandleRejected)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeTimesheetSubmitted,
			events.EventTypeTimesheetApproved,
			events.EventTypeTimesheetRejected,
		})
}
