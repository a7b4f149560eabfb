package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-triage/internal/api/dto"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/service"
	"github.com/spec-kit/helpdesk-triage/internal/store"
	apperrors "github.com/spec-kit/helpdesk-triage/pkg/util"
)

// TicketsHandler exposes the dashboard query surface.
type TicketsHandler struct {
	store    *store.TicketStore
	pipeline *service.Pipeline
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketStore *store.TicketStore, pipeline *service.Pipeline) *TicketsHandler {
	return &TicketsHandler{store: ticketStore, pipeline: pipeline}
}

// Dashboard GET /api/dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(dashboardResponse(h.store.Snapshot()))
}

// CheckInbox POST /api/check-inbox. Runs one synchronous
// ingestion-classify-create-notify cycle.
func (h *TicketsHandler) CheckInbox(c *fiber.Ctx) error {
	created := h.pipeline.ProcessPending(c.Context())
	items := make([]dto.TicketResponse, 0, len(created))
	for i := range created {
		items = append(items, ticketResponse(created[i]))
	}
	return c.JSON(fiber.Map{"new_tickets": items, "count": len(items)})
}

// SimulateEmail POST /api/simulate-email.
func (h *TicketsHandler) SimulateEmail(c *fiber.Ctx) error {
	var req dto.SimulateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Sender) == "" || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("sender, subject, body required", nil)
	}
	ticket := h.pipeline.Simulate(c.Context(), req.Sender, req.Subject, req.Body)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Resolve POST /api/tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.store.Resolve(c.Context(), id) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return c.JSON(fiber.Map{"ticket_id": id, "status": string(domain.TicketStatusResolved)})
}

// Escalate POST /api/tickets/:id/escalate.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.store.Escalate(c.Context(), id) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return c.JSON(fiber.Map{"ticket_id": id, "escalated": true})
}

// Clear POST /api/tickets/clear.
func (h *TicketsHandler) Clear(c *fiber.Ctx) error {
	count := h.store.Clear(c.Context())
	return c.JSON(fiber.Map{"cleared": count})
}

func dashboardResponse(snapshot store.Snapshot) dto.DashboardResponse {
	tickets := make([]dto.TicketResponse, 0, len(snapshot.Tickets))
	for i := range snapshot.Tickets {
		tickets = append(tickets, ticketResponse(snapshot.Tickets[i]))
	}
	return dto.DashboardResponse{
		Tickets: tickets,
		Stats: dto.StatsResponse{
			TotalTickets:      snapshot.Stats.TotalTickets,
			HighPriority:      snapshot.Stats.HighPriority,
			MediumPriority:    snapshot.Stats.MediumPriority,
			LowPriority:       snapshot.Stats.LowPriority,
			TicketsByCategory: snapshot.Stats.TicketsByCategory,
			StartTime:         snapshot.Stats.StartTime,
		},
		SystemInfo: dto.SystemInfoResponse{
			MonitoredEmail: snapshot.SystemInfo.MonitoredMailbox,
			TotalProcessed: snapshot.SystemInfo.TotalProcessed,
			Uptime:         snapshot.SystemInfo.Uptime.Round(time.Second).String(),
		},
	}
}

func ticketResponse(ticket domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		TicketID:         ticket.ID,
		SenderName:       ticket.SenderName,
		SenderEmail:      ticket.SenderEmail,
		Subject:          ticket.Subject,
		Description:      ticket.Description,
		Category:         ticket.Category,
		Priority:         ticket.Priority,
		IssueType:        ticket.IssueType,
		UrgencyReason:    ticket.UrgencyReason,
		AssignedRole:     ticket.AssignedRole,
		AssignedTo:       ticket.AssignedTo,
		Status:           ticket.Status,
		CreatedAt:        ticket.CreatedAt,
		ResolvedAt:       ticket.ResolvedAt,
		Escalated:        ticket.Escalated,
		EscalatedAt:      ticket.EscalatedAt,
		EmailID:          ticket.EmailID,
		NotificationSent: ticket.NotificationSent,
	}
}
