package events

import (
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketResolved       EventType = "ticket_resolved"
	EventTicketEscalated      EventType = "ticket_escalated"
	EventTicketsCleared       EventType = "tickets_cleared"
	EventNotificationRecorded EventType = "notification_recorded"
)

// Event represents a domain event emitted by the ticket store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Category     domain.Category  `json:"category"`
	Priority     domain.Priority  `json:"priority"`
	AssignedRole domain.StaffRole `json:"assigned_role"`
	Subject      string           `json:"subject"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	OldPriority domain.Priority `json:"old_priority"`
	NewPriority domain.Priority `json:"new_priority"`
}

// TicketsClearedPayload payload.
type TicketsClearedPayload struct {
	Count int `json:"count"`
}

// NotificationRecordedPayload payload.
type NotificationRecordedPayload struct {
	Recipient string `json:"recipient"`
	Sent      bool   `json:"sent"`
}
