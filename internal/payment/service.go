package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	jobDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/job"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/events"
)

// Repository defines the data access methods for payment records. Status
// transitions go through UpdateWhereStatus, a compare-and-swap guarded by the
// expected current status: zero rows affected means someone else moved the
// record first.
type Repository interface {
	Create(rec *PaymentRecord) error
	GetByID(id int64) (*PaymentRecord, error)
	GetLatestByJobID(jobID int64) (*PaymentRecord, error)
	ListByClientID(clientID int64) ([]*PaymentRecord, error)
	ListByStatus(status string) ([]*PaymentRecord, error)
	LatestPerJobByClient(clientID int64) ([]*PaymentRecord, error)
	UpdateWhereStatus(id int64, fromStatus string, updates map[string]interface{}) (int64, error)
}

// JobStore is the slice of the job module the engine depends on: existence
// checks plus write-back of amount_due and the coarse payment flag.
type JobStore interface {
	GetByID(id int64) (*jobDatamodel.Job, error)
	UpdateAmountDue(id int64, amount int64) error
	SetPaymentStatus(id int64, flag string) error
}

// Service is the payment reconciliation engine. Every operation is a short
// request/response call; notifications ride the event bus and never block a
// transition.
type Service struct {
	repo     Repository
	jobs     JobStore
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, jobs JobStore, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jobs:     jobs,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateObligation establishes a new amount owed for a job. The job's
// amount_due field is synced to the obligation amount in the same operation,
// so the two can no longer drift.
func (s *Service) CreateObligation(adminID int64, dto CreateObligationDTO) (*PaymentRecord, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("obligation validation failed", "error", err, "admin_id", adminID)
		return nil, err
	}

	job, err := s.jobs.GetByID(dto.JobID)
	if err != nil {
		s.logger.Error("job not found for obligation", "error", err, "job_id", dto.JobID)
		return nil, ErrJobNotFound
	}

	jobID := dto.JobID
	rec := &PaymentRecord{
		JobID:       &jobID,
		ClientID:    job.ClientID,
		Amount:      dto.Amount,
		Description: dto.Description,
		Status:      StatusPending,
	}

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to create payment record", "error", err, "job_id", dto.JobID)
		return nil, errors.NewDependencyError("failed to create payment record", errors.ErrCodeStorageFailure, err)
	}

	if err := s.jobs.UpdateAmountDue(dto.JobID, dto.Amount); err != nil {
		s.logger.Error("failed to sync job amount due", "error", err, "job_id", dto.JobID)
	}
	if err := s.jobs.SetPaymentStatus(dto.JobID, JobPaymentPending); err != nil {
		s.logger.Error("failed to flag job payment status", "error", err, "job_id", dto.JobID)
	}

	s.logger.Info("obligation created",
		"payment_id", rec.ID,
		"job_id", dto.JobID,
		"client_id", job.ClientID,
		"amount", dto.Amount)

	s.eventBus.Publish(context.Background(),
		events.NewObligationCreatedEvent(rec.ID, dto.JobID, job.ClientID, dto.Amount, adminID, dto.Description))

	return rec, nil
}

// ReportSettlement records a client's claim of having paid outside the
// system. Only a pending record can accept a report; the transition clears
// any rejection reason left by a previous attempt.
func (s *Service) ReportSettlement(paymentID, clientID int64, dto ReportSettlementDTO) (*PaymentRecord, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("settlement report validation failed", "error", err, "payment_id", paymentID)
		return nil, err
	}

	rec, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}

	if rec.ClientID != clientID {
		s.logger.Warn("settlement report for another client's payment",
			"payment_id", paymentID, "client_id", clientID, "owner_id", rec.ClientID)
		return nil, errors.NewForbiddenError("payment belongs to another client", errors.ErrCodeUnauthorizedAccess)
	}

	if rec.Status == StatusWaitingConfirmation {
		return nil, ErrSettlementInFlight
	}
	if !rec.CanReportSettlement() {
		return nil, ErrNotPending
	}

	evidence := dto.ToEvidence()
	now := time.Now()
	updates := map[string]interface{}{
		"status":           StatusWaitingConfirmation,
		"method":           dto.NormalizedMethod(),
		"evidence":         mustMarshalEvidence(evidence),
		"rejection_reason": nil,
		"paid_at":          now,
		"updated_at":       now,
	}

	affected, err := s.repo.UpdateWhereStatus(paymentID, StatusPending, updates)
	if err != nil {
		s.logger.Error("failed to store settlement report", "error", err, "payment_id", paymentID)
		return nil, errors.NewDependencyError("failed to store settlement report", errors.ErrCodeStorageFailure, err)
	}
	if affected == 0 {
		// Someone moved the record between our read and the guarded write.
		return nil, ErrSettlementInFlight
	}

	rec.Status = StatusWaitingConfirmation
	method := dto.NormalizedMethod()
	rec.Method = &method
	rec.Evidence = evidence
	rec.RejectionReason = nil
	rec.PaidAt = &now
	rec.UpdatedAt = now

	s.logger.Info("settlement reported",
		"payment_id", paymentID,
		"client_id", clientID,
		"method", method,
		"amount", rec.Amount)

	s.eventBus.Publish(context.Background(),
		events.NewSettlementReportedEvent(paymentID, clientID, rec.Amount, method))

	return rec, nil
}

// ConfirmPayment finalizes a reported settlement. Method and evidence stay on
// the record as the permanent trail of how payment was made.
func (s *Service) ConfirmPayment(paymentID, adminID int64) (*PaymentRecord, error) {
	rec, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}

	if !rec.CanBeConfirmed() {
		s.logger.Warn("confirm attempted from invalid status",
			"payment_id", paymentID, "status", rec.Status, "admin_id", adminID)
		return nil, ErrNotWaitingConfirmation
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     StatusPaid,
		"paid_at":    now,
		"updated_at": now,
	}

	affected, err := s.repo.UpdateWhereStatus(paymentID, StatusWaitingConfirmation, updates)
	if err != nil {
		s.logger.Error("failed to confirm payment", "error", err, "payment_id", paymentID)
		return nil, errors.NewDependencyError("failed to confirm payment", errors.ErrCodeStorageFailure, err)
	}
	if affected == 0 {
		return nil, ErrNotWaitingConfirmation
	}

	rec.Status = StatusPaid
	rec.PaidAt = &now
	rec.UpdatedAt = now

	if rec.JobID != nil {
		if err := s.jobs.SetPaymentStatus(*rec.JobID, JobPaymentPaid); err != nil {
			s.logger.Error("failed to flag job as paid", "error", err, "job_id", *rec.JobID)
		}
	}

	s.logger.Info("payment confirmed",
		"payment_id", paymentID,
		"admin_id", adminID,
		"amount", rec.Amount)

	method := MethodDirect
	if rec.Method != nil {
		method = *rec.Method
	}
	s.eventBus.Publish(context.Background(),
		events.NewPaymentConfirmedEvent(paymentID, rec.ClientID, rec.Amount, method))

	return rec, nil
}

// RejectPayment rolls a reported settlement back to pending. Method,
// evidence and the settlement timestamp are cleared; the reason stays
// readable until the client's next attempt overwrites it.
func (s *Service) RejectPayment(paymentID, adminID int64, dto RejectPaymentDTO) (*PaymentRecord, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}

	if !rec.CanBeRejected() {
		s.logger.Warn("reject attempted from invalid status",
			"payment_id", paymentID, "status", rec.Status, "admin_id", adminID)
		return nil, ErrNotWaitingConfirmation
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           StatusPending,
		"method":           nil,
		"evidence":         nil,
		"paid_at":          nil,
		"rejection_reason": dto.Reason,
		"updated_at":       now,
	}

	affected, err := s.repo.UpdateWhereStatus(paymentID, StatusWaitingConfirmation, updates)
	if err != nil {
		s.logger.Error("failed to reject payment", "error", err, "payment_id", paymentID)
		return nil, errors.NewDependencyError("failed to reject payment", errors.ErrCodeStorageFailure, err)
	}
	if affected == 0 {
		return nil, ErrNotWaitingConfirmation
	}

	rec.Status = StatusPending
	rec.Method = nil
	rec.Evidence = nil
	rec.PaidAt = nil
	rec.RejectionReason = &dto.Reason
	rec.UpdatedAt = now

	if rec.JobID != nil {
		if err := s.jobs.SetPaymentStatus(*rec.JobID, JobPaymentPending); err != nil {
			s.logger.Error("failed to reset job payment flag", "error", err, "job_id", *rec.JobID)
		}
	}

	s.logger.Info("payment rejected",
		"payment_id", paymentID,
		"admin_id", adminID,
		"reason", dto.Reason)

	s.eventBus.Publish(context.Background(),
		events.NewPaymentRejectedEvent(paymentID, rec.ClientID, rec.Amount, dto.Reason))

	return rec, nil
}

// RecordOfflinePayment marks a job as settled without the client-report
// cycle. An existing pending record is overwritten in place so no orphaned
// pending record survives the offline settlement; only when the job has no
// record at all is a fresh paid record created.
func (s *Service) RecordOfflinePayment(jobID, adminID int64, dto OfflinePaymentDTO) (*PaymentRecord, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("offline payment validation failed", "error", err, "job_id", jobID)
		return nil, err
	}

	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	latest, err := s.repo.GetLatestByJobID(jobID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); !ok || appErr.Type != errors.ErrorTypeNotFound {
			return nil, errors.NewDependencyError("failed to read payment history", errors.ErrCodeStorageFailure, err)
		}
		latest = nil
	}

	now := time.Now()
	method := dto.NormalizedMethod()

	if latest != nil {
		switch latest.Status {
		case StatusPaid:
			return nil, ErrJobAlreadySettled
		case StatusWaitingConfirmation:
			// The client already reported this one; confirm or reject it
			// instead of recording on top of their evidence.
			return nil, ErrSettlementInFlight
		}

		updates := map[string]interface{}{
			"status":           StatusPaid,
			"method":           method,
			"amount":           dto.Amount,
			"paid_at":          now,
			"rejection_reason": nil,
			"updated_at":       now,
		}
		affected, err := s.repo.UpdateWhereStatus(latest.ID, latest.Status, updates)
		if err != nil {
			return nil, errors.NewDependencyError("failed to record offline payment", errors.ErrCodeStorageFailure, err)
		}
		if affected == 0 {
			return nil, ErrSettlementInFlight
		}

		latest.Status = StatusPaid
		latest.Method = &method
		latest.Amount = dto.Amount
		latest.PaidAt = &now
		latest.RejectionReason = nil
		latest.UpdatedAt = now

		s.finishOfflineRecording(job, latest, adminID, dto.Amount, method)
		return latest, nil
	}

	description := dto.Description
	if description == "" {
		description = job.Title
	}
	rec := &PaymentRecord{
		JobID:       &jobID,
		ClientID:    job.ClientID,
		Amount:      dto.Amount,
		Description: description,
		Status:      StatusPaid,
		Method:      &method,
		PaidAt:      &now,
	}
	if err := s.repo.Create(rec); err != nil {
		return nil, errors.NewDependencyError("failed to record offline payment", errors.ErrCodeStorageFailure, err)
	}

	s.finishOfflineRecording(job, rec, adminID, dto.Amount, method)
	return rec, nil
}

func (s *Service) finishOfflineRecording(job *jobDatamodel.Job, rec *PaymentRecord, adminID, amount int64, method string) {
	if err := s.jobs.SetPaymentStatus(job.ID, JobPaymentPaid); err != nil {
		s.logger.Error("failed to flag job as paid", "error", err, "job_id", job.ID)
	}
	if job.AmountDue != amount {
		// Admin corrected the amount at recording time; keep the job in sync.
		if err := s.jobs.UpdateAmountDue(job.ID, amount); err != nil {
			s.logger.Error("failed to sync corrected amount", "error", err, "job_id", job.ID)
		}
	}

	s.logger.Info("offline payment recorded",
		"payment_id", rec.ID,
		"job_id", job.ID,
		"admin_id", adminID,
		"method", method,
		"amount", amount)

	s.eventBus.Publish(context.Background(),
		events.NewOfflineRecordedEvent(rec.ID, job.ID, rec.ClientID, amount, method))
}

// GetCurrentStatus derives a job's payment status from its newest record,
// scoped to the job's owning client unless the caller is an admin. A job
// with no records has an implicit pending/no-charge status.
func (s *Service) GetCurrentStatus(jobID, callerID int64, isAdmin bool) (string, error) {
	job, err := s.jobs.GetByID(jobID)
	if err != nil {
		return "", ErrJobNotFound
	}
	if !isAdmin && job.ClientID != callerID {
		return "", errors.NewForbiddenError("job belongs to another client", errors.ErrCodeUnauthorizedAccess)
	}

	latest, err := s.repo.GetLatestByJobID(jobID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeNotFound {
			return StatusPending, nil
		}
		return "", errors.NewDependencyError("failed to read payment history", errors.ErrCodeStorageFailure, err)
	}

	return latest.Status, nil
}

// GetClientPendingTotal sums the amounts of each job's current record where
// that record is still pending or waiting for confirmation. Superseded
// records from a job's history are never counted.
func (s *Service) GetClientPendingTotal(clientID int64) (int64, error) {
	current, err := s.repo.LatestPerJobByClient(clientID)
	if err != nil {
		return 0, errors.NewDependencyError("failed to read payment history", errors.ErrCodeStorageFailure, err)
	}

	var total int64
	for _, rec := range current {
		if rec.Status == StatusPending || rec.Status == StatusWaitingConfirmation {
			total += rec.Amount
		}
	}
	return total, nil
}

// ListWaitingForConfirmation returns the admin work queue of reported
// settlements awaiting a confirm/reject decision.
func (s *Service) ListWaitingForConfirmation() ([]*PaymentRecord, error) {
	recs, err := s.repo.ListByStatus(StatusWaitingConfirmation)
	if err != nil {
		return nil, errors.NewDependencyError("failed to list payments", errors.ErrCodeStorageFailure, err)
	}
	return recs, nil
}

// GetClientStatement builds the client-facing history: one row per job
// keeping the newest record, and a stale row is dropped when a strictly
// newer record for the same job and amount has already reached paid.
func (s *Service) GetClientStatement(clientID int64) ([]*PaymentRecord, error) {
	history, err := s.repo.ListByClientID(clientID)
	if err != nil {
		return nil, errors.NewDependencyError("failed to read payment history", errors.ErrCodeStorageFailure, err)
	}

	type jobAmount struct {
		jobID  int64
		amount int64
	}

	seenJobs := make(map[int64]bool)
	paidAt := make(map[jobAmount]time.Time)
	statement := make([]*PaymentRecord, 0, len(history))

	// history is ordered newest first
	for _, rec := range history {
		if rec.JobID == nil {
			statement = append(statement, rec)
			continue
		}

		key := jobAmount{jobID: *rec.JobID, amount: rec.Amount}
		if rec.Status == StatusPaid {
			if _, ok := paidAt[key]; !ok {
				paidAt[key] = rec.CreatedAt
			}
		}

		if seenJobs[*rec.JobID] {
			continue
		}
		if when, ok := paidAt[key]; ok && when.After(rec.CreatedAt) {
			// a newer confirmed payment at the same amount supersedes this one
			continue
		}

		seenJobs[*rec.JobID] = true
		statement = append(statement, rec)
	}

	return statement, nil
}

// GetPayment returns a single record, scoped to its owning client unless the
// caller is an admin.
func (s *Service) GetPayment(paymentID, callerID int64, isAdmin bool) (*PaymentRecord, error) {
	rec, err := s.repo.GetByID(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	if !isAdmin && rec.ClientID != callerID {
		return nil, errors.NewForbiddenError("payment belongs to another client", errors.ErrCodeUnauthorizedAccess)
	}
	return rec, nil
}

func mustMarshalEvidence(ev *Evidence) []byte {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil
	}
	return raw
}
