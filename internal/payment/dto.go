package payment

import (
	"strings"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/common/validation"
)

// CreateObligationDTO is the admin request that raises a new charge on a job.
type CreateObligationDTO struct {
	JobID       int64  `json:"job_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (dto CreateObligationDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("job_id", dto.JobID).Required()
	validator.Field("amount", dto.Amount).Required().MinInt(1, errors.ErrCodeInvalidAmount)
	validator.Field("description", dto.Description).Required().MaxLength(500)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// EvidenceDTO carries the client's self-reported proof fields. Which fields
// are mandatory depends on the chosen method.
type EvidenceDTO struct {
	UpiID         string `json:"upi_id,omitempty"`
	PayerName     string `json:"payer_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
}

// ReportSettlementDTO is the client request that declares "I paid via X".
type ReportSettlementDTO struct {
	Method   string      `json:"method"`
	Evidence EvidenceDTO `json:"evidence"`
}

// Validate checks the method enum and the method-specific evidence fields
// before any store write happens. UPI and QR settlements need a UPI id plus
// payer name; bank transfers need an account number plus holder name.
func (dto ReportSettlementDTO) Validate() error {
	method := strings.ToUpper(strings.TrimSpace(dto.Method))

	validator := validation.NewValidator()
	validator.Field("method", method).
		Required().
		OneOf(ReportableMethods, errors.ErrCodeInvalidMethod)

	switch method {
	case MethodUPI, MethodQR:
		validator.Field("upi_id", dto.Evidence.UpiID).Required()
		validator.Field("payer_name", dto.Evidence.PayerName).Required()
	case MethodBank:
		validator.Field("account_number", dto.Evidence.AccountNumber).Required()
		validator.Field("account_name", dto.Evidence.AccountName).Required()
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// NormalizedMethod returns the uppercase method code stored on the record.
func (dto ReportSettlementDTO) NormalizedMethod() string {
	return strings.ToUpper(strings.TrimSpace(dto.Method))
}

func (dto ReportSettlementDTO) ToEvidence() *Evidence {
	ev := Evidence(dto.Evidence)
	return &ev
}

// RejectPaymentDTO carries the mandatory rejection reason.
type RejectPaymentDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectPaymentDTO) Validate() error {
	if strings.TrimSpace(dto.Reason) == "" {
		return errors.NewValidationError("rejection reason is required", errors.ErrCodeMissingReason)
	}
	return nil
}

// OfflinePaymentDTO is the admin request recording a settlement that happened
// outside any digital channel.
type OfflinePaymentDTO struct {
	Amount      int64  `json:"amount"`
	Method      string `json:"method"`
	Description string `json:"description,omitempty"`
}

func (dto OfflinePaymentDTO) Validate() error {
	method := strings.ToUpper(strings.TrimSpace(dto.Method))

	validator := validation.NewValidator()
	validator.Field("amount", dto.Amount).Required().MinInt(1, errors.ErrCodeInvalidAmount)
	validator.Field("method", method).
		Required().
		OneOf(OfflineMethods, errors.ErrCodeInvalidMethod)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (dto OfflinePaymentDTO) NormalizedMethod() string {
	return strings.ToUpper(strings.TrimSpace(dto.Method))
}
