package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeObligationCreated  = "payment.obligation_created"
	EventTypeSettlementReported = "payment.settlement_reported"
	EventTypePaymentConfirmed   = "payment.confirmed"
	EventTypePaymentRejected    = "payment.rejected"
	EventTypeOfflineRecorded    = "payment.offline_recorded"
)

type ObligationCreatedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	JobID     int64  `json:"job_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	CreatedBy int64  `json:"created_by"`
	Desc      string `json:"description"`
}

func NewObligationCreatedEvent(paymentID, jobID, clientID, amount, createdBy int64, desc string) *ObligationCreatedEvent {
	return &ObligationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeObligationCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":  paymentID,
				"job_id":      jobID,
				"client_id":   clientID,
				"amount":      amount,
				"created_by":  createdBy,
				"description": desc,
			},
		},
		PaymentID: paymentID,
		JobID:     jobID,
		ClientID:  clientID,
		Amount:    amount,
		CreatedBy: createdBy,
		Desc:      desc,
	}
}

type SettlementReportedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

func NewSettlementReportedEvent(paymentID, clientID, amount int64, method string) *SettlementReportedEvent {
	return &SettlementReportedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSettlementReported,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"client_id":  clientID,
				"amount":     amount,
				"method":     method,
			},
		},
		PaymentID: paymentID,
		ClientID:  clientID,
		Amount:    amount,
		Method:    method,
	}
}

type PaymentConfirmedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

func NewPaymentConfirmedEvent(paymentID, clientID, amount int64, method string) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentConfirmed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"client_id":  clientID,
				"amount":     amount,
				"method":     method,
			},
		},
		PaymentID: paymentID,
		ClientID:  clientID,
		Amount:    amount,
		Method:    method,
	}
}

type PaymentRejectedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

func NewPaymentRejectedEvent(paymentID, clientID, amount int64, reason string) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"client_id":  clientID,
				"amount":     amount,
				"reason":     reason,
			},
		},
		PaymentID: paymentID,
		ClientID:  clientID,
		Amount:    amount,
		Reason:    reason,
	}
}

type OfflineRecordedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	JobID     int64  `json:"job_id"`
	ClientID  int64  `json:"client_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

func NewOfflineRecordedEvent(paymentID, jobID, clientID, amount int64, method string) *OfflineRecordedEvent {
	return &OfflineRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOfflineRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"job_id":     jobID,
				"client_id":  clientID,
				"amount":     amount,
				"method":     method,
			},
		},
		PaymentID: paymentID,
		JobID:     jobID,
		ClientID:  clientID,
		Amount:    amount,
		Method:    method,
	}
}
