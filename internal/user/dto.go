package user

import (
	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/core/common/validation"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

type CreateUserDTO struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Employee string   `json:"employee,omitempty"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", dto.Email).Required().MaxLength(140)
	validator.Field("full_name", dto.FullName).Required().MaxLength(140)
	validator.Field("password", dto.Password).Required().Custom(func(v interface{}) *errors.AppError {
		if len(v.(string)) < 8 {
			return errors.NewValidationFieldError("password", "password must be at least 8 characters", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	for _, role := range dto.Roles {
		validator.Field("roles", role).OneOf(coreUser.RoleEmployee, coreUser.RoleSystemManager, coreUser.RoleProjectsManager)
	}
	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

var (
	ErrNotFound  = errors.NewNotFoundError("User not found", errors.ErrCodeDocumentNotFound)
	ErrForbidden = errors.NewForbiddenError("Only System Managers may manage users", errors.ErrCodeUnauthorizedActor)
	ErrExists    = errors.NewConflictError("User already exists", errors.ErrCodeValidationFailed)
)
