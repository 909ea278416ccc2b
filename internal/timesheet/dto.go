package timesheet

import (
	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/core/common/validation"
)

// SaveTimesheetDTO is the payload for creating or updating a timesheet.
type SaveTimesheetDTO struct {
	Employee string  `json:"employee,omitempty"`
	Approver string  `json:"approver,omitempty"`
	Status   Status  `json:"status,omitempty"`
	TimeLogs []Entry `json:"time_logs"`
}

func (dto SaveTimesheetDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("status", string(dto.Status)).
		OneOf(string(StatusDraft), string(StatusSubmitted), string(StatusApproved), string(StatusRejected))
	validator.Field("employee", dto.Employee).MaxLength(140)
	validator.Field("approver", dto.Approver).MaxLength(140)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type ValidateTimesheetDTO struct {
	TimeLogs []Entry `json:"time_logs"`
}

type ValidationView struct {
	Valid       bool   `json:"valid"`
	SaveEnabled bool   `json:"save_enabled"`
	Banner      Banner `json:"banner"`
	Result      Result `json:"result"`
}

type SaveResult struct {
	Timesheet *Timesheet `json:"timesheet"`
	Notices   []Notice   `json:"notices,omitempty"`
}

// Domain errors
var (
	ErrTimesheetNotFound = errors.NewNotFoundError("Timesheet not found", errors.ErrCodeTimesheetNotFound)
	ErrUnauthorized      = errors.NewForbiddenError("Not permitted to access this timesheet", errors.ErrCodeUnauthorizedActor)
	ErrAlreadySubmitted  = errors.NewConflictError("Submitted timesheets cannot be edited", errors.ErrCodeInvalidStatus)
	ErrDeleteSubmitted   = errors.NewForbiddenError("Submitted timesheets cannot be deleted", errors.ErrCodeInvalidStatus)
	ErrNoEmployee        = errors.NewValidationError("No employee record linked to the current user", errors.ErrCodeNoEmployee)
)
