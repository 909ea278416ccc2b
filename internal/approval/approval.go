// Package approval implements the timesheet approval workflow: the
// server-side approve/reject actions and approval rows, and the client-side
// eligibility check and decision dialog.
package approval

import (
	"strings"
	"time"

	timesheetDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

const (
	ActionApproveTimesheet   = "approve_timesheet"
	ActionRejectTimesheet    = "reject_timesheet"
	ActionBulkApprove        = "bulk_approve"
	ActionBulkReject         = "bulk_reject"
	ActionCreateForTimesheet = "create_approval_for_timesheet"
	ActionCanUserApprove     = "can_user_approve"
)

// Action is a decision an approver can take.
type Action string

const (
	ActionApprove Action = "Approve"
	ActionReject  Action = "Reject"
)

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// Approval is one approver's row for a submitted timesheet.
type Approval struct {
	Name             string     `json:"name"`
	Timesheet        string     `json:"timesheet"`
	Employee         string     `json:"employee"`
	Project          string     `json:"project"`
	Approver         string     `json:"approver"`
	ApprovalStatus   string     `json:"approval_status"`
	ApprovalDate     *time.Time `json:"approval_date,omitempty"`
	ApprovalComments string     `json:"approval_comments,omitempty"`
	TotalHours       float64    `json:"total_hours"`
	TimesheetDate    *time.Time `json:"timesheet_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Indicator        Indicator  `json:"indicator"`
}

func (a *Approval) IsPending() bool {
	return a.ApprovalStatus == "" || a.ApprovalStatus == timesheet.ApprovalPending
}

// Indicator is the list badge of an approval row.
type Indicator struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Filter string `json:"filter"`
}

func IndicatorFor(status string) Indicator {
	switch status {
	case timesheet.ApprovalApproved:
		return Indicator{Label: "Approved", Color: "green", Filter: "approval_status,=,Approved"}
	case timesheet.ApprovalRejected:
		return Indicator{Label: "Rejected", Color: "red", Filter: "approval_status,=,Rejected"}
	default:
		return Indicator{Label: "Pending", Color: "orange", Filter: "approval_status,=,Pending"}
	}
}

// SplitApprovers parses a comma-separated approver list, dropping blanks.
func SplitApprovers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsApprover(raw, identity string) bool {
	if identity == "" {
		return false
	}
	for _, a := range SplitApprovers(raw) {
		if a == identity {
			return true
		}
	}
	return false
}

func ToDataModel(a *Approval) *timesheetDatamodel.TimesheetApproval {
	return &timesheetDatamodel.TimesheetApproval{
		Name:             a.Name,
		Timesheet:        a.Timesheet,
		Employee:         a.Employee,
		Project:          a.Project,
		Approver:         a.Approver,
		ApprovalStatus:   a.ApprovalStatus,
		ApprovalDate:     a.ApprovalDate,
		ApprovalComments: a.ApprovalComments,
		TotalHours:       a.TotalHours,
		TimesheetDate:    a.TimesheetDate,
		CreatedAt:        a.CreatedAt,
	}
}

func FromDataModel(m *timesheetDatamodel.TimesheetApproval) *Approval {
	return &Approval{
		Name:             m.Name,
		Timesheet:        m.Timesheet,
		Employee:         m.Employee,
		Project:          m.Project,
		Approver:         m.Approver,
		ApprovalStatus:   m.ApprovalStatus,
		ApprovalDate:     m.ApprovalDate,
		ApprovalComments: m.ApprovalComments,
		TotalHours:       m.TotalHours,
		TimesheetDate:    m.TimesheetDate,
		CreatedAt:        m.CreatedAt,
		Indicator:        IndicatorFor(m.ApprovalStatus),
	}
}

func FromDataModelSlice(models []*timesheetDatamodel.TimesheetApproval) []*Approval {
	out := make([]*Approval, len(models))
	for i, m := range models {
		out[i] = FromDataModel(m)
	}
	return out
}
