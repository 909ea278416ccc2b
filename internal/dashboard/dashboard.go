package dashboard

import (
	"math"
	"time"
)

// Stats summarises an employee's timesheets.
type Stats struct {
	TotalTimesheets  int     `json:"total_timesheets"`
	TotalHours       float64 `json:"total_hours"`
	AvgHours         float64 `json:"avg_hours"`
	PendingApprovals int     `json:"pending_approvals"`
}

// Totals is the raw aggregate read from storage.
type Totals struct {
	Count   int     `db:"total_timesheets"`
	Hours   float64 `db:"total_hours"`
	Pending int     `db:"pending"`
}

func (t Totals) Stats() Stats {
	if t.Count == 0 {
		return Stats{}
	}
	return Stats{
		TotalTimesheets:  t.Count,
		TotalHours:       roundTenth(t.Hours),
		AvgHours:         roundTenth(t.Hours / float64(t.Count)),
		PendingApprovals: t.Pending,
	}
}

type RecentRow struct {
	Name         string     `db:"name"`
	EmployeeName string     `db:"employee_name"`
	TotalHours   float64    `db:"total_hours"`
	DocStatus    int        `db:"docstatus"`
	FromDate     *time.Time `db:"from_date"`
	ToDate       *time.Time `db:"to_date"`
}

type RecentTimesheet struct {
	Name         string  `json:"name"`
	EmployeeName string  `json:"employee_name"`
	FromDate     string  `json:"from_date"`
	ToDate       string  `json:"to_date"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
}

func (r RecentRow) View() RecentTimesheet {
	name := r.EmployeeName
	if name == "" {
		name = "N/A"
	}
	return RecentTimesheet{
		Name:         r.Name,
		EmployeeName: name,
		FromDate:     formatDate(r.FromDate),
		ToDate:       formatDate(r.ToDate),
		TotalHours:   r.TotalHours,
		Status:       StatusLabel(r.DocStatus),
	}
}

// StatusLabel names a docstatus value.
func StatusLabel(docStatus int) string {
	switch docStatus {
	case 1:
		return "Submitted"
	case 2:
		return "Cancelled"
	default:
		return "Draft"
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
