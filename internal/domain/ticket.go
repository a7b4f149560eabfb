package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

// Ticket is the record materialized for one admitted inbound message. It is
// owned exclusively by the store; callers mutate it only through the store's
// resolve, escalate and notification-outcome operations.
type Ticket struct {
	ID               string
	SenderName       string
	SenderEmail      string
	Subject          string
	Description      string
	Category         Category
	Priority         Priority
	IssueType        string
	UrgencyReason    string
	AssignedRole     StaffRole
	AssignedTo       string
	Status           TicketStatus
	CreatedAt        time.Time
	ResolvedAt       *time.Time
	Escalated        bool
	EscalatedAt      *time.Time
	EmailID          string
	NotificationSent bool
}

// Stats aggregates ticket counters for the dashboard. Per-priority and
// per-category counts are recomputed from the live collection on every
// snapshot so escalations are always reflected.
type Stats struct {
	TotalTickets      int
	HighPriority      int
	MediumPriority    int
	LowPriority       int
	TicketsByCategory map[Category]int
	StartTime         time.Time
}
