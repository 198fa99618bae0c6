package job

import (
	"time"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	jobDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/job"
)

// Job is the domain view of a tracked engagement (tax filing, audit, GST
// registration and so on). The payment engine reads jobs and writes back
// amount_due plus the coarse payment flag; everything else is owned here.
type Job struct {
	ID            int64      `json:"id"`
	ClientID      int64      `json:"client_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	AmountDue     int64      `json:"amount_due"`
	PaymentStatus string     `json:"payment_status"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const (
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusCompleted  = "completed"
)

var ErrJobNotFound = errors.NewNotFoundError("job not found", errors.ErrCodeJobNotFound)

func ToDataModel(j *Job) *jobDatamodel.Job {
	return &jobDatamodel.Job{
		ID:            j.ID,
		ClientID:      j.ClientID,
		Title:         j.Title,
		Description:   j.Description,
		Status:        j.Status,
		AmountDue:     j.AmountDue,
		PaymentStatus: j.PaymentStatus,
		Deadline:      j.Deadline,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func FromDataModel(j *jobDatamodel.Job) *Job {
	return &Job{
		ID:            j.ID,
		ClientID:      j.ClientID,
		Title:         j.Title,
		Description:   j.Description,
		Status:        j.Status,
		AmountDue:     j.AmountDue,
		PaymentStatus: j.PaymentStatus,
		Deadline:      j.Deadline,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

func FromDataModelSlice(jobs []*jobDatamodel.Job) []*Job {
	result := make([]*Job, len(jobs))
	for i, j := range jobs {
		result[i] = FromDataModel(j)
	}
	return result
}
