package job

import (
	"log/slog"

	jobDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/job"
)

// Repository defines the data access methods for jobs.
type Repository interface {
	Create(j *Job) error
	GetByID(id int64) (*jobDatamodel.Job, error)
	GetByClientID(clientID int64, limit, offset int) ([]*jobDatamodel.Job, error)
	GetAll(limit, offset int) ([]*jobDatamodel.Job, error)
	UpdateStatus(id int64, status string) error
	UpdateAmountDue(id int64, amount int64) error
	SetPaymentStatus(id int64, flag string) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateJob(dto CreateJobDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("job validation failed", "error", err, "client_id", dto.ClientID)
		return nil, err
	}

	j := &Job{
		ClientID:      dto.ClientID,
		Title:         dto.Title,
		Description:   dto.Description,
		Status:        StatusInProgress,
		PaymentStatus: "none",
		Deadline:      dto.Deadline,
	}

	if err := s.repo.Create(j); err != nil {
		s.logger.Error("failed to create job", "error", err, "client_id", dto.ClientID)
		return nil, err
	}

	s.logger.Info("job created", "job_id", j.ID, "client_id", dto.ClientID, "title", dto.Title)
	return j, nil
}

func (s *Service) GetJobByID(id int64) (*Job, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrJobNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetClientJobs(clientID int64, limit, offset int) ([]*Job, error) {
	rows, err := s.repo.GetByClientID(clientID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get client jobs", "error", err, "client_id", clientID)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetAllJobs(limit, offset int) ([]*Job, error) {
	rows, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list jobs", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) UpdateJobStatus(id int64, dto UpdateJobStatusDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, ErrJobNotFound
	}

	if err := s.repo.UpdateStatus(id, dto.Status); err != nil {
		s.logger.Error("failed to update job status", "error", err, "job_id", id)
		return nil, err
	}

	s.logger.Info("job status updated", "job_id", id, "status", dto.Status)
	return s.GetJobByID(id)
}

// GetByID, UpdateAmountDue and SetPaymentStatus satisfy the payment engine's
// JobStore dependency so the engine never talks to the repository directly.

func (s *Service) GetByID(id int64) (*jobDatamodel.Job, error) {
	return s.repo.GetByID(id)
}

func (s *Service) UpdateAmountDue(id int64, amount int64) error {
	return s.repo.UpdateAmountDue(id, amount)
}

func (s *Service) SetPaymentStatus(id int64, flag string) error {
	return s.repo.SetPaymentStatus(id, flag)
}
