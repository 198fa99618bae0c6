package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport"
)

// ServiceAPI is the engine surface the HTTP layer depends on.
type ServiceAPI interface {
	CreateObligation(adminID int64, dto CreateObligationDTO) (*PaymentRecord, error)
	ReportSettlement(paymentID, clientID int64, dto ReportSettlementDTO) (*PaymentRecord, error)
	ConfirmPayment(paymentID, adminID int64) (*PaymentRecord, error)
	RejectPayment(paymentID, adminID int64, dto RejectPaymentDTO) (*PaymentRecord, error)
	RecordOfflinePayment(jobID, adminID int64, dto OfflinePaymentDTO) (*PaymentRecord, error)
	GetCurrentStatus(jobID, callerID int64, isAdmin bool) (string, error)
	GetClientPendingTotal(clientID int64) (int64, error)
	ListWaitingForConfirmation() ([]*PaymentRecord, error)
	GetClientStatement(clientID int64) ([]*PaymentRecord, error)
	GetPayment(paymentID, callerID int64, isAdmin bool) (*PaymentRecord, error)
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
	logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		service:     service,
		logger:      logger,
	}
}

// CreateObligation handles POST /payments.
func (h *Handler) CreateObligation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	var dto CreateObligationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.CreateObligation(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to create obligation")
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

// ReportSettlement handles PATCH /payments/{id}/settle.
func (h *Handler) ReportSettlement(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	paymentID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid payment id", errors.ErrCodeValidationFailed))
		return
	}

	var dto ReportSettlementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.ReportSettlement(paymentID, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to report settlement")
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// ConfirmPayment handles PATCH /payments/{id}/confirm.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	paymentID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid payment id", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.ConfirmPayment(paymentID, user.ID)
	if err != nil {
		h.HandleServiceError(w, err, "failed to confirm payment")
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// RejectPayment handles PATCH /payments/{id}/reject.
func (h *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	paymentID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid payment id", errors.ErrCodeValidationFailed))
		return
	}

	var dto RejectPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.RejectPayment(paymentID, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to reject payment")
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// RecordOfflinePayment handles POST /jobs/{id}/offline-payment.
func (h *Handler) RecordOfflinePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	jobID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid job id", errors.ErrCodeValidationFailed))
		return
	}

	var dto OfflinePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.RecordOfflinePayment(jobID, user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to record offline payment")
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

// GetJobPaymentStatus handles GET /jobs/{id}/payment-status.
func (h *Handler) GetJobPaymentStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	jobID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid job id", errors.ErrCodeValidationFailed))
		return
	}

	status, err := h.service.GetCurrentStatus(jobID, user.ID, user.IsAdmin())
	if err != nil {
		h.HandleServiceError(w, err, "failed to read payment status")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
		"status": status,
	})
}

// ListWaiting handles GET /payments/waiting, the admin confirmation queue.
func (h *Handler) ListWaiting(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListWaitingForConfirmation()
	if err != nil {
		h.HandleServiceError(w, err, "failed to list waiting payments")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments": recs,
		"count":    len(recs),
	})
}

// GetStatement handles GET /payments/statement for the calling client.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	recs, err := h.service.GetClientStatement(user.ID)
	if err != nil {
		h.HandleServiceError(w, err, "failed to build statement")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"payments": recs,
		"count":    len(recs),
	})
}

// GetPendingTotal handles GET /payments/pending-total for the calling client.
func (h *Handler) GetPendingTotal(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	total, err := h.service.GetClientPendingTotal(user.ID)
	if err != nil {
		h.HandleServiceError(w, err, "failed to compute pending total")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"client_id":     user.ID,
		"pending_total": total,
	})
}

// GetPayment handles GET /payments/{id}.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, errors.NewUnauthorizedError("authentication required", errors.ErrCodeUnauthorizedAccess))
		return
	}

	paymentID, err := parseIDParam(r, "id")
	if err != nil {
		h.WriteError(w, errors.NewValidationError("invalid payment id", errors.ErrCodeValidationFailed))
		return
	}

	rec, err := h.service.GetPayment(paymentID, user.ID, user.IsAdmin())
	if err != nil {
		h.HandleServiceError(w, err, "failed to get payment")
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
