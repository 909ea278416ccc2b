package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	notificationDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/notification"
)

const (
	StatusOpen      = "Open"
	StatusClosed    = "Closed"
	StatusCancelled = "Cancelled"

	ReferenceTimesheet = "Custom Timesheet"
)

// ToDo is an assignment shown in a user's work queue.
type ToDo struct {
	Name          string    `json:"name"`
	Owner         string    `json:"owner"`
	AssignedBy    string    `json:"assigned_by"`
	ReferenceType string    `json:"reference_type"`
	ReferenceName string    `json:"reference_name"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewToDo(owner, assignedBy, timesheet, description string) *ToDo {
	return &ToDo{
		Name:          "TODO-" + uuid.New().String(),
		Owner:         owner,
		AssignedBy:    assignedBy,
		ReferenceType: ReferenceTimesheet,
		ReferenceName: timesheet,
		Description:   description,
		Status:        StatusOpen,
		CreatedAt:     time.Now(),
	}
}

func approvalRequiredText(employee string) string {
	return fmt.Sprintf("New timesheet approval required for %s", employee)
}

func decisionText(timesheet, outcome, comments string) string {
	if comments == "" {
		return fmt.Sprintf("Timesheet %s was %s", timesheet, outcome)
	}
	return fmt.Sprintf("Timesheet %s was %s: %s", timesheet, outcome, comments)
}

func ToDataModel(t *ToDo) *notificationDatamodel.ToDo {
	return &notificationDatamodel.ToDo{
		Name:          t.Name,
		Owner:         t.Owner,
		AssignedBy:    t.AssignedBy,
		ReferenceType: t.ReferenceType,
		ReferenceName: t.ReferenceName,
		Description:   t.Description,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}
}

func FromDataModel(t *notificationDatamodel.ToDo) *ToDo {
	return &ToDo{
		Name:          t.Name,
		Owner:         t.Owner,
		AssignedBy:    t.AssignedBy,
		ReferenceType: t.ReferenceType,
		ReferenceName: t.ReferenceName,
		Description:   t.Description,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
	}
}
