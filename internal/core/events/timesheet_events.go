package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTimesheetSubmitted = "timesheet.submitted"
	EventTypeTimesheetApproved  = "timesheet.approved"
	EventTypeTimesheetRejected  = "timesheet.rejected"
)

type TimesheetEvent struct {
	BaseEvent
	Timesheet string   `json:"timesheet"`
	Employee  string   `json:"employee"`
	Owner     string   `json:"owner"`
	Approvers []string `json:"approvers,omitempty"`
	Actor     string   `json:"actor"`
	Comments  string   `json:"comments,omitempty"`
}

func newTimesheetEvent(eventType, timesheet, employee, owner, actor, comments string, approvers []string) *TimesheetEvent {
	return &TimesheetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"timesheet": timesheet,
				"employee":  employee,
				"owner":     owner,
				"approvers": approvers,
				"actor":     actor,
				"comments":  comments,
			},
		},
		Timesheet: timesheet,
		Employee:  employee,
		Owner:     owner,
		Approvers: approvers,
		Actor:     actor,
		Comments:  comments,
	}
}

func NewTimesheetSubmittedEvent(timesheet, employee, owner, actor string, approvers []string) *TimesheetEvent {
	return newTimesheetEvent(EventTypeTimesheetSubmitted, timesheet, employee, owner, actor, "", approvers)
}

func NewTimesheetApprovedEvent(timesheet, employee, owner, actor, comments string) *TimesheetEvent {
	return newTimesheetEvent(EventTypeTimesheetApproved, timesheet, employee, owner, actor, comments, nil)
}

func NewTimesheetRejectedEvent(timesheet, employee, owner, actor, comments string) *TimesheetEvent {
	return newTimesheetEvent(EventTypeTimesheetRejected, timesheet, employee, owner, actor, comments, nil)
}
