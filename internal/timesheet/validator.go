package timesheet

import (
	"fmt"
	"strings"
)

const (
	ReasonNoEntries    = "at least one entry required"
	ReasonMissingField = "required fields missing"
	ReasonEndNotAfter  = "end must be after start"
)

// Display names of the required row fields, in reporting order.
const (
	LabelProject = "Project"
	LabelTask    = "Task"
	LabelStart   = "Start Date and Time"
	LabelEnd     = "End Date and Time"
)

const emptyTableMessage = "Please add at least one timesheet entry before saving."

// Result is the outcome of validating a sequence of entries. Row is 1-based
// and zero when the failure is not tied to a row.
type Result struct {
	Valid         bool     `json:"valid"`
	Row           int      `json:"row,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Count         int      `json:"count"`
}

func (r Result) Message() string {
	switch {
	case r.Valid:
		return validMessage(r.Count)
	case r.Row == 0:
		return emptyTableMessage
	case len(r.MissingFields) > 0:
		return fmt.Sprintf("Row %d is missing: %s", r.Row, strings.Join(r.MissingFields, ", "))
	default:
		return fmt.Sprintf("Row %d: %s must be after %s", r.Row, LabelEnd, LabelStart)
	}
}

func validMessage(count int) string {
	if count == 1 {
		return "1 entry valid."
	}
	return fmt.Sprintf("%d entries valid.", count)
}

// Validate checks entries in order and stops at the first failing row.
func Validate(entries []Entry) Result {
	if len(entries) == 0 {
		return Result{Reason: ReasonNoEntries}
	}

	for i, e := range entries {
		if missing := missingFields(e); len(missing) > 0 {
			return Result{Row: i + 1, MissingFields: missing, Reason: ReasonMissingField, Count: len(entries)}
		}
		if !e.EndDateTime.After(e.StartDateTime.Time) {
			return Result{Row: i + 1, Reason: ReasonEndNotAfter, Count: len(entries)}
		}
	}

	return Result{Valid: true, Count: len(entries)}
}

func missingFields(e Entry) []string {
	var missing []string
	if strings.TrimSpace(e.Project) == "" {
		missing = append(missing, LabelProject)
	}
	if strings.TrimSpace(e.Task) == "" {
		missing = append(missing, LabelTask)
	}
	if e.StartDateTime.IsZero() {
		missing = append(missing, LabelStart)
	}
	if e.EndDateTime.IsZero() {
		missing = append(missing, LabelEnd)
	}
	return missing
}
