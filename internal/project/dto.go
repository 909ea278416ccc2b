package project

import (
	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/core/common/validation"
)

type CreateProjectDTO struct {
	Name        string   `json:"name,omitempty"`
	ProjectName string   `json:"project_name"`
	Owner       string   `json:"owner,omitempty"`
	Approvers   []string `json:"approvers,omitempty"`
}

func (dto CreateProjectDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("project_name", dto.ProjectName).Required().MaxLength(140)
	validator.Field("name", dto.Name).MaxLength(140)
	validator.Field("approvers", dto.Approvers).MaxItems(50)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type SetApproversDTO struct {
	Approvers []string `json:"approvers"`
}

func (dto SetApproversDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("approvers", dto.Approvers).MaxItems(50)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateTaskDTO struct {
	Subject string `json:"subject"`
}

func (dto CreateTaskDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("subject", dto.Subject).Required().MaxLength(140)
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

type ProjectsResponse struct {
	Projects []*Project `json:"projects"`
}

// Domain errors
var (
	ErrProjectNotFound = errors.NewNotFoundError("Project not found", errors.ErrCodeProjectNotFound)
	ErrProjectExists   = errors.NewConflictError("Project already exists", errors.ErrCodeValidationFailed)
	ErrForbidden       = errors.NewForbiddenError("Only System Managers and Projects Managers may manage projects", errors.ErrCodeUnauthorizedActor)
)
