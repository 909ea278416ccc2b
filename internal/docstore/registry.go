package docstore

import "github.com/frahmantamala/custom-timesheet/internal/docservice"

// Child describes a child table embedded in its parent document under Field.
type Child struct {
	Field  string
	Table  string
	Fields []string
}

// Doctype maps a document type onto a table and the columns clients may use.
type Doctype struct {
	Name     string
	Table    string
	Fields   []string
	Children []Child
}

func (d Doctype) allows(field string) bool {
	for _, f := range d.Fields {
		if f == field {
			return true
		}
	}
	return false
}

type Registry map[string]Doctype

func (r Registry) Register(dt Doctype) {
	r[dt.Name] = dt
}

// DefaultRegistry lists the doctypes served by this application.
func DefaultRegistry() Registry {
	r := Registry{}
	r.Register(Doctype{
		Name:  docservice.DoctypeTimesheet,
		Table: "custom_timesheets",
		Fields: []string{
			"name", "employee", "owner", "approver", "status", "docstatus", "approval_status",
			"approved_by", "approval_date", "approval_comments", "total_hours", "created_at", "updated_at",
		},
		Children: []Child{{
			Field:  "time_logs",
			Table:  "custom_timesheet_details",
			Fields: []string{"idx", "project", "task", "start_date_time", "end_date_time", "taken_hours"},
		}},
	})
	r.Register(Doctype{
		Name:   docservice.DoctypeProject,
		Table:  "projects",
		Fields: []string{"name", "project_name", "status", "owner", "approver", "created_at", "updated_at"},
	})
	r.Register(Doctype{
		Name:   docservice.DoctypeTask,
		Table:  "tasks",
		Fields: []string{"name", "project", "subject", "status", "created_at"},
	})
	r.Register(Doctype{
		Name:  docservice.DoctypeFile,
		Table: "files",
		Fields: []string{
			"name", "file_name", "file_url", "file_size", "is_private",
			"attached_to_doctype", "attached_to_name", "owner", "created_at",
		},
	})
	r.Register(Doctype{
		Name:  docservice.DoctypeApproval,
		Table: "timesheet_approvals",
		Fields: []string{
			"name", "timesheet", "employee", "project", "approver", "approval_status",
			"approval_date", "approval_comments", "total_hours", "timesheet_date", "created_at",
		},
	})
	r.Register(Doctype{
		Name:   docservice.DoctypeToDo,
		Table:  "todos",
		Fields: []string{"name", "owner", "assigned_by", "reference_type", "reference_name", "description", "status", "created_at"},
	})
	return r
}
