package timesheet

import coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"

const (
	NoticeEmployeeStatus  = "Employees can only set status to Draft or Submitted"
	NoticeSubmittedLocked = "Submitted timesheets can only change through the approval workflow"
)

// Notice tells the actor that a requested value was corrected.
type Notice struct {
	Field     string `json:"field"`
	Requested string `json:"requested"`
	Applied   string `json:"applied"`
	Message   string `json:"message"`
}

// EnforceStatus returns the status that may actually be stored when actor asks
// to move a record from current to requested. Privileged actors pass through.
func EnforceStatus(actor *coreUser.Actor, current, requested Status) (Status, *Notice) {
	if requested == "" {
		requested = current
	}
	if requested == "" {
		requested = StatusDraft
	}
	if actor.IsPrivileged() {
		return requested, nil
	}

	switch requested {
	case StatusDraft:
		if current == StatusSubmitted {
			return StatusSubmitted, statusNotice(requested, StatusSubmitted, NoticeSubmittedLocked)
		}
		return StatusDraft, nil
	case StatusSubmitted:
		return StatusSubmitted, nil
	}

	applied := StatusDraft
	if current == StatusSubmitted {
		applied = StatusSubmitted
	}
	if requested == current && (current == StatusApproved || current == StatusRejected) {
		return current, nil
	}
	return applied, statusNotice(requested, applied, NoticeEmployeeStatus)
}

func statusNotice(requested, applied Status, message string) *Notice {
	return &Notice{Field: "status", Requested: string(requested), Applied: string(applied), Message: message}
}
