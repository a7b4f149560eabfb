package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// SimulateEmailRequest payload.
type SimulateEmailRequest struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TicketResponse mirrors one ticket for the dashboard.
type TicketResponse struct {
	TicketID         string              `json:"ticket_id"`
	SenderName       string              `json:"sender_name"`
	SenderEmail      string              `json:"sender_email"`
	Subject          string              `json:"subject"`
	Description      string              `json:"description"`
	Category         domain.Category     `json:"category"`
	Priority         domain.Priority     `json:"priority"`
	IssueType        string              `json:"issue_type"`
	UrgencyReason    string              `json:"urgency_reason"`
	AssignedRole     domain.StaffRole    `json:"assigned_role"`
	AssignedTo       string              `json:"assigned_to"`
	Status           domain.TicketStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	ResolvedAt       *time.Time          `json:"resolved_at,omitempty"`
	Escalated        bool                `json:"escalated"`
	EscalatedAt      *time.Time          `json:"escalated_at,omitempty"`
	EmailID          string              `json:"email_id"`
	NotificationSent bool                `json:"notification_sent"`
}

// StatsResponse mirrors aggregate counters.
type StatsResponse struct {
	TotalTickets      int                     `json:"total_tickets"`
	HighPriority      int                     `json:"high_priority"`
	MediumPriority    int                     `json:"medium_priority"`
	LowPriority       int                     `json:"low_priority"`
	TicketsByCategory map[domain.Category]int `json:"tickets_by_category"`
	StartTime         time.Time               `json:"start_time"`
}

// SystemInfoResponse describes the monitored mailbox.
type SystemInfoResponse struct {
	MonitoredEmail string `json:"monitored_email"`
	TotalProcessed int    `json:"total_processed"`
	Uptime         string `json:"uptime"`
}

// DashboardResponse is the full snapshot projection.
type DashboardResponse struct {
	Tickets    []TicketResponse   `json:"tickets"`
	Stats      StatsResponse      `json:"stats"`
	SystemInfo SystemInfoResponse `json:"system_info"`
}
