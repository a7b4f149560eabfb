package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/events"
)

// AuditLog logs every domain event the ticket store publishes, giving the
// dashboard operator a structured trail of lifecycle transitions.
type AuditLog struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditLog creates the audit subscriber.
func NewAuditLog(dispatcher events.Dispatcher, logger *zap.Logger) *AuditLog {
	return &AuditLog{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all event types.
func (a *AuditLog) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketResolved,
		events.EventTicketEscalated,
		events.EventTicketsCleared,
		events.EventNotificationRecorded,
	} {
		a.dispatcher.Subscribe(eventType, a.logEvent)
	}
}

func (a *AuditLog) logEvent(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	return nil
}
