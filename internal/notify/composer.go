package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// Notification is the owner-facing payload handed to the mail sender.
type Notification struct {
	To      string
	Subject string
	Body    string
}

const bodyTemplate = `NEW IT SUPPORT TICKET ASSIGNED TO YOU

Ticket Details:
----------------------------------------------------
Ticket ID: %s
Priority: %s
Category: %s
Created: %s

Employee Request:
----------------------------------------------------
From: %s (%s)
Subject: %s
Issue Type: %s

Description:
%s

Why This Priority: %s

Recommended Solutions:
----------------------------------------------------
%s

Reply to this email to update the employee directly.
`

// Compose renders the notification for a ticket. It is a pure function of
// the ticket fields and never talks to a transport; delivery and the
// resulting outcome are the caller's concern.
func Compose(ticket domain.Ticket) Notification {
	subject := fmt.Sprintf("[%s] New IT Ticket: %s",
		strings.ToUpper(string(ticket.Priority)), ticket.ID)

	body := fmt.Sprintf(bodyTemplate,
		ticket.ID,
		strings.ToUpper(string(ticket.Priority)),
		strings.ToUpper(string(ticket.Category)),
		ticket.CreatedAt.Format(time.RFC3339),
		ticket.SenderName,
		ticket.SenderEmail,
		ticket.Subject,
		ticket.IssueType,
		ticket.Description,
		ticket.UrgencyReason,
		checklistFor(ticket.Category),
	)

	return Notification{
		To:      ticket.AssignedTo,
		Subject: subject,
		Body:    body,
	}
}
