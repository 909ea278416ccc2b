package timesheet

import (
	"time"

	timesheetDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/timesheet"
)

const Doctype = "Custom Timesheet"

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
)

// Entry is one row of a timesheet.
type Entry struct {
	Project       string   `json:"project"`
	Task          string   `json:"task"`
	StartDateTime DateTime `json:"start_date_time"`
	EndDateTime   DateTime `json:"end_date_time"`
	TakenHours    float64  `json:"taken_hours"`
}

type Timesheet struct {
	Name             string     `json:"name"`
	Employee         string     `json:"employee"`
	Owner            string     `json:"owner"`
	Approver         string     `json:"approver,omitempty"`
	Status           Status     `json:"status"`
	DocStatus        int        `json:"docstatus"`
	ApprovalStatus   string     `json:"approval_status,omitempty"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovalDate     *time.Time `json:"approval_date,omitempty"`
	ApprovalComments string     `json:"approval_comments,omitempty"`
	TotalHours       float64    `json:"total_hours"`
	TimeLogs         []Entry    `json:"time_logs"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (t *Timesheet) IsSubmitted() bool {
	return t.DocStatus == DocStatusSubmitted
}

func (t *Timesheet) IsPendingApproval() bool {
	return t.DocStatus == DocStatusSubmitted && t.ApprovalStatus == ApprovalPending
}

// Projects returns the distinct project references in row order.
func (t *Timesheet) Projects() []string {
	return DistinctProjects(t.TimeLogs)
}

func DistinctProjects(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	projects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Project == "" {
			continue
		}
		if _, ok := seen[e.Project]; ok {
			continue
		}
		seen[e.Project] = struct{}{}
		projects = append(projects, e.Project)
	}
	return projects
}

func ToDataModel(t *Timesheet) *timesheetDatamodel.CustomTimesheet {
	logs := make([]timesheetDatamodel.TimesheetDetail, len(t.TimeLogs))
	for i, e := range t.TimeLogs {
		logs[i] = timesheetDatamodel.TimesheetDetail{
			Parent:        t.Name,
			Idx:           i + 1,
			Project:       e.Project,
			Task:          e.Task,
			StartDateTime: e.StartDateTime.Ptr(),
			EndDateTime:   e.EndDateTime.Ptr(),
			TakenHours:    e.TakenHours,
		}
	}
	return &timesheetDatamodel.CustomTimesheet{
		Name:             t.Name,
		Employee:         t.Employee,
		Owner:            t.Owner,
		Approver:         t.Approver,
		Status:           string(t.Status),
		DocStatus:        t.DocStatus,
		ApprovalStatus:   t.ApprovalStatus,
		ApprovedBy:       t.ApprovedBy,
		ApprovalDate:     t.ApprovalDate,
		ApprovalComments: t.ApprovalComments,
		TotalHours:       t.TotalHours,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		TimeLogs:         logs,
	}
}

func FromDataModel(m *timesheetDatamodel.CustomTimesheet) *Timesheet {
	entries := make([]Entry, len(m.TimeLogs))
	for i, d := range m.TimeLogs {
		var start, end DateTime
		if d.StartDateTime != nil {
			start = NewDateTime(*d.StartDateTime)
		}
		if d.EndDateTime != nil {
			end = NewDateTime(*d.EndDateTime)
		}
		entries[i] = Entry{
			Project:       d.Project,
			Task:          d.Task,
			StartDateTime: start,
			EndDateTime:   end,
			TakenHours:    d.TakenHours,
		}
	}
	return &Timesheet{
		Name:             m.Name,
		Employee:         m.Employee,
		Owner:            m.Owner,
		Approver:         m.Approver,
		Status:           Status(m.Status),
		DocStatus:        m.DocStatus,
		ApprovalStatus:   m.ApprovalStatus,
		ApprovedBy:       m.ApprovedBy,
		ApprovalDate:     m.ApprovalDate,
		ApprovalComments: m.ApprovalComments,
		TotalHours:       m.TotalHours,
		TimeLogs:         entries,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*timesheetDatamodel.CustomTimesheet) []*Timesheet {
	result := make([]*Timesheet, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}

// Decision is the outcome of an approval applied to a timesheet.
type Decision struct {
	Status         Status
	ApprovalStatus string
	ApprovedBy     string
	Comments       string
	DecidedAt      time.Time
}
