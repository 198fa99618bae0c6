package payment

import (
	"encoding/json"
	"time"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	paymentDatamodel "github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/datamodel/payment"
)

// PaymentRecord is the domain view of a payment row. One record is reused
// across the report -> confirm/reject cycle; a rejection resets the record to
// pending instead of creating a new one, so a job accumulates one record per
// charge, not one per attempt.
type PaymentRecord struct {
	ID              int64      `json:"id"`
	JobID           *int64     `json:"job_id,omitempty"`
	ClientID        int64      `json:"client_id"`
	Amount          int64      `json:"amount"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Method          *string    `json:"method,omitempty"`
	Evidence        *Evidence  `json:"evidence,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Evidence is the client's self-reported proof of settlement. It is stored
// only while a record is waiting for confirmation or after it is paid; a
// rejection wipes it.
type Evidence struct {
	UpiID         string `json:"upi_id,omitempty"`
	PayerName     string `json:"payer_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
}

const (
	StatusPending             = "pending"
	StatusWaitingConfirmation = "waiting_confirmation"
	StatusPaid                = "paid"
	// StatusRejected exists in stored data from the legacy system but is never
	// the write target of a rejection: rejecting resets the record to pending
	// with the reason attached.
	StatusRejected = "rejected"
)

const (
	MethodCash   = "CASH"
	MethodUPI    = "UPI"
	MethodBank   = "BANK"
	MethodQR     = "QR"
	MethodDirect = "Direct"
)

// ValidStatuses is the full enum accepted at write time, including the legacy
// rejected literal.
var ValidStatuses = []string{StatusPending, StatusWaitingConfirmation, StatusPaid, StatusRejected}

// ReportableMethods are the methods a client may self-report.
var ReportableMethods = []string{MethodUPI, MethodBank, MethodQR}

// OfflineMethods are the methods an admin may record directly.
var OfflineMethods = []string{MethodCash, MethodUPI}

// Coarse per-job payment flags, kept on the job row for fast filtering.
const (
	JobPaymentNone    = "none"
	JobPaymentPending = "pending"
	JobPaymentPaid    = "paid"
)

func (p *PaymentRecord) CanReportSettlement() bool {
	return p.Status == StatusPending
}

func (p *PaymentRecord) CanBeConfirmed() bool {
	return p.Status == StatusWaitingConfirmation
}

func (p *PaymentRecord) CanBeRejected() bool {
	return p.Status == StatusWaitingConfirmation
}

func (p *PaymentRecord) IsSettled() bool {
	return p.Status == StatusPaid
}

// Domain errors, typed so callers can branch on the taxonomy.
var (
	ErrPaymentNotFound = errors.NewNotFoundError("payment record not found", errors.ErrCodePaymentNotFound)
	ErrJobNotFound     = errors.NewNotFoundError("job not found", errors.ErrCodeJobNotFound)

	ErrNotPending = errors.NewStateConflictError(
		"payment is not awaiting settlement", errors.ErrCodePaymentStateMoved)
	ErrNotWaitingConfirmation = errors.NewStateConflictError(
		"payment is not waiting for confirmation", errors.ErrCodePaymentStateMoved)
	ErrSettlementInFlight = errors.NewStateConflictError(
		"a settlement report is already awaiting confirmation", errors.ErrCodePaymentStateMoved)
	ErrJobAlreadySettled = errors.NewStateConflictError(
		"job is already settled", errors.ErrCodeJobAlreadySettled)
)

func ToDataModel(p *PaymentRecord) (*paymentDatamodel.Payment, error) {
	var evidence json.RawMessage
	if p.Evidence != nil {
		raw, err := json.Marshal(p.Evidence)
		if err != nil {
			return nil, err
		}
		evidence = raw
	}
	return &paymentDatamodel.Payment{
		ID:              p.ID,
		JobID:           p.JobID,
		ClientID:        p.ClientID,
		Amount:          p.Amount,
		Description:     p.Description,
		Status:          p.Status,
		Method:          p.Method,
		Evidence:        evidence,
		RejectionReason: p.RejectionReason,
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func FromDataModel(p *paymentDatamodel.Payment) *PaymentRecord {
	var evidence *Evidence
	if len(p.Evidence) > 0 {
		var ev Evidence
		if err := json.Unmarshal(p.Evidence, &ev); err == nil {
			evidence = &ev
		}
	}
	return &PaymentRecord{
		ID:              p.ID,
		JobID:           p.JobID,
		ClientID:        p.ClientID,
		Amount:          p.Amount,
		Description:     p.Description,
		Status:          p.Status,
		Method:          p.Method,
		Evidence:        evidence,
		RejectionReason: p.RejectionReason,
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*paymentDatamodel.Payment) []*PaymentRecord {
	result := make([]*PaymentRecord, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
