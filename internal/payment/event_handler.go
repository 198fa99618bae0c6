package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/events"
)

// Notifier is the outbound notification channel. Delivery happens off the
// request path; a failure here never unwinds a payment transition.
type Notifier interface {
	Notify(clientID int64, subject, body string)
}

// EventHandler turns payment lifecycle events into client notifications.
type EventHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewEventHandler(notifier Notifier, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		notifier: notifier,
		logger:   logger,
	}
}

func (h *EventHandler) HandleObligationCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.ObligationCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for obligation created handler", "event_type", event.EventType())
		return fmt.Errorf("expected ObligationCreatedEvent, got %T", event)
	}

	h.notifier.Notify(e.ClientID,
		"New payment due",
		fmt.Sprintf("A payment of %d is due for %s (job #%d).", e.Amount, e.Desc, e.JobID))
	return nil
}

func (h *EventHandler) HandleSettlementReported(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.SettlementReportedEvent)
	if !ok {
		h.logger.Error("invalid event type for settlement reported handler", "event_type", event.EventType())
		return fmt.Errorf("expected SettlementReportedEvent, got %T", event)
	}

	h.notifier.Notify(e.ClientID,
		"Payment received for review",
		fmt.Sprintf("Your %s payment of %d was received and is waiting for confirmation.", e.Method, e.Amount))
	return nil
}

func (h *EventHandler) HandlePaymentConfirmed(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentConfirmedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment confirmed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentConfirmedEvent, got %T", event)
	}

	h.notifier.Notify(e.ClientID,
		"Payment confirmed",
		fmt.Sprintf("Your %s payment of %d has been confirmed. Thank you.", e.Method, e.Amount))
	return nil
}

func (h *EventHandler) HandlePaymentRejected(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentRejectedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment rejected handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentRejectedEvent, got %T", event)
	}

	h.notifier.Notify(e.ClientID,
		"Payment could not be verified",
		fmt.Sprintf("Your payment of %d could not be verified: %s. Please try again.", e.Amount, e.Reason))
	return nil
}

func (h *EventHandler) HandleOfflineRecorded(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.OfflineRecordedEvent)
	if !ok {
		h.logger.Error("invalid event type for offline recorded handler", "event_type", event.EventType())
		return fmt.Errorf("expected OfflineRecordedEvent, got %T", event)
	}

	h.notifier.Notify(e.ClientID,
		"Payment recorded",
		fmt.Sprintf("Your %s payment of %d for job #%d has been recorded as paid.", e.Method, e.Amount, e.JobID))
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeObligationCreated, h.HandleObligationCreated)
	eventBus.Subscribe(events.EventTypeSettlementReported, h.HandleSettlementReported)
	eventBus.Subscribe(events.EventTypePaymentConfirmed, h.HandlePaymentConfirmed)
	eventBus.Subscribe(events.EventTypePaymentRejected, h.HandlePaymentRejected)
	eventBus.Subscribe(events.EventTypeOfflineRecorded, h.HandleOfflineRecorded)

	h.logger.Info("payment event handlers registered",
		"handlers", []string{
			events.EventTypeObligationCreated,
			events.EventTypeSettlementReported,
			events.EventTypePaymentConfirmed,
			events.EventTypePaymentRejected,
			events.EventTypeOfflineRecorded,
		})
}
