package job

import (
	"time"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/common/validation"
)

type CreateJobDTO struct {
	ClientID    int64      `json:"client_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (dto CreateJobDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("client_id", dto.ClientID).Required()
	validator.Field("title", dto.Title).Required().MaxLength(200)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateJobStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateJobStatusDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("status", dto.Status).
		Required().
		OneOf([]string{StatusInProgress, StatusOnHold, StatusCompleted}, errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
