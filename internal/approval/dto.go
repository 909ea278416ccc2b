package approval

import (
	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/core/common/validation"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
)

// DecisionDTO is an approve or reject request for one timesheet.
type DecisionDTO struct {
	Action   Action `json:"action"`
	Comments string `json:"comments"`
}

func (dto DecisionDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("action", string(dto.Action)).Required().OneOf(string(ActionApprove), string(ActionReject))
	if err := validator.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateComments(string(dto.Action), dto.Comments); err != nil {
		return err
	}
	return nil
}

type BulkApproveDTO struct {
	Approvals []string `json:"approvals"`
}

func (dto BulkApproveDTO) Validate() error {
	if err := validation.ValidateNames("approvals", dto.Approvals); err != nil {
		return err
	}
	return nil
}

type BulkRejectDTO struct {
	Approvals []string `json:"approvals"`
	Comments  string   `json:"comments"`
}

func (dto BulkRejectDTO) Validate() error {
	if err := validation.ValidateNames("approvals", dto.Approvals); err != nil {
		return err
	}
	if err := validation.ValidateComments(string(ActionReject), dto.Comments); err != nil {
		return err
	}
	return nil
}

// ApprovalView tells the actor what they may do with a timesheet.
type ApprovalView struct {
	Timesheet      string           `json:"timesheet"`
	Status         timesheet.Status `json:"status"`
	DocStatus      int              `json:"docstatus"`
	ApprovalStatus string           `json:"approval_status"`
	CanApprove     bool             `json:"can_approve"`
	Actions        []Action         `json:"actions"`
	Approvals      []*Approval      `json:"approvals"`
}

type BulkResult struct {
	Approved int `json:"approved,omitempty"`
	Rejected int `json:"rejected,omitempty"`
}

// Domain errors
var (
	ErrApprovalNotFound = errors.NewNotFoundError("Timesheet approval not found", errors.ErrCodeDocumentNotFound)
	ErrNotApprover      = errors.NewForbiddenError("You don't have permission to approve this timesheet", errors.ErrCodeNotApprover)
	ErrNotPending       = errors.NewConflictError("Timesheet is not pending approval", errors.ErrCodeNotPending)
	ErrCommentsRequired = errors.NewValidationFieldError("comments", "Comments are required for rejection", errors.ErrCodeCommentsRequired)
	ErrDialogClosed     = errors.NewConflictError("The approval dialog is already closed", errors.ErrCodeNotPending)
	ErrUnauthenticated  = errors.NewUnauthorizedError("No authenticated actor", errors.ErrCodeUnauthorizedActor)
)
