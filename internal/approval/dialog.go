package approval

import (
	"context"
	"strings"
	"sync"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

type DialogState string

const (
	DialogOpen     DialogState = "open"
	DialogApproved DialogState = "approved"
	DialogRejected DialogState = "rejected"
)

// Outcome is what a successful dialog submission reports.
type Outcome struct {
	State   DialogState       `json:"state"`
	Message string            `json:"message"`
	Record  docservice.Record `json:"record,omitempty"`
}

// Dialog collects the comments for one approve or reject decision. It stays
// open until a submission succeeds and refuses further submissions after.
type Dialog struct {
	workflow  *Workflow
	action    Action
	timesheet string

	mu       sync.Mutex
	state    DialogState
	comments string
}

func (d *Dialog) Action() Action {
	return d.action
}

func (d *Dialog) Title() string {
	return string(d.action) + " Timesheet"
}

func (d *Dialog) CommentLabel() string {
	return string(d.action) + " Comments"
}

func (d *Dialog) PrimaryLabel() string {
	return string(d.action)
}

func (d *Dialog) CommentsRequired() bool {
	return d.action == ActionReject
}

func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Comments returns the comments of the last submission attempt.
func (d *Dialog) Comments() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.comments
}

// Submit invokes the approval action once and reloads the timesheet. Missing
// reject comments fail before any remote call.
func (d *Dialog) Submit(ctx context.Context, comments string) (*Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != DialogOpen {
		return nil, ErrDialogClosed
	}
	if !d.action.Valid() {
		return nil, errors.NewValidationError("unknown approval action "+string(d.action), errors.ErrCodeValidationFailed)
	}
	d.comments = comments
	if d.CommentsRequired() && strings.TrimSpace(comments) == "" {
		return nil, ErrCommentsRequired
	}

	action := ActionApproveTimesheet
	next, message := DialogApproved, "Approved successfully"
	if d.action == ActionReject {
		action = ActionRejectTimesheet
		next, message = DialogRejected, "Rejected successfully"
	}

	w := d.workflow
	if _, err := w.client.Invoke(ctx, action, map[string]any{
		"timesheet_name": d.timesheet,
		"comments":       comments,
	}); err != nil {
		w.logger.Warn("approval action failed", "error", err, "action", action, "timesheet", d.timesheet)
		return nil, err
	}
	d.state = next

	outcome := &Outcome{State: next, Message: message}
	record, err := w.client.Get(ctx, docservice.DoctypeTimesheet, d.timesheet)
	if err != nil {
		w.logger.Warn("failed to reload timesheet", "error", err, "timesheet", d.timesheet)
	} else {
		outcome.Record = record
	}
	return outcome, nil
}
