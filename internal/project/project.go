package project

import (
	"strings"
	"time"

	projectDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/project"
)

const (
	StatusOpen      = "Open"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type Project struct {
	Name        string    `json:"name"`
	ProjectName string    `json:"project_name"`
	Status      string    `json:"status"`
	Owner       string    `json:"owner"`
	Approver    string    `json:"approver"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Project) IsOpen() bool {
	return p.Status == "" || p.Status == StatusOpen
}

// Approvers returns the trimmed identities of the approver list.
func (p *Project) Approvers() []string {
	var out []string
	for _, a := range strings.Split(p.Approver, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// SetApprovers stores identities as the comma-separated approver list.
func (p *Project) SetApprovers(approvers []string) {
	seen := make(map[string]bool, len(approvers))
	kept := make([]string, 0, len(approvers))
	for _, a := range approvers {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		kept = append(kept, a)
	}
	p.Approver = strings.Join(kept, ",")
	p.UpdatedAt = time.Now()
}

func NewProject(name, projectName, owner string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		ProjectName: projectName,
		Status:      StatusOpen,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type Task struct {
	Name      string    `json:"name"`
	Project   string    `json:"project"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		Name:        p.Name,
		ProjectName: p.ProjectName,
		Status:      p.Status,
		Owner:       p.Owner,
		Approver:    p.Approver,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		Name:        p.Name,
		ProjectName: p.ProjectName,
		Status:      p.Status,
		Owner:       p.Owner,
		Approver:    p.Approver,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func TaskToDataModel(t *Task) *projectDatamodel.Task {
	return &projectDatamodel.Task{
		Name:      t.Name,
		Project:   t.Project,
		Subject:   t.Subject,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

func TaskFromDataModel(t *projectDatamodel.Task) *Task {
	return &Task{
		Name:      t.Name,
		Project:   t.Project,
		Subject:   t.Subject,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}
