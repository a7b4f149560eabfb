package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
)

// Descriptions are capped at this many characters (runes, not bytes); longer
// bodies get an ellipsis appended.
const descriptionLimit = 500

// SeenCache mirrors processed message identifiers outside the process.
// Implementations are best-effort; the in-memory dedup set stays
// authoritative.
type SeenCache interface {
	Add(ctx context.Context, id string) error
	Contains(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// TicketStore owns the single in-process ticket collection and is the only
// writer to it. Every operation takes the store mutex, so creates, resolves,
// escalations and clears never interleave.
type TicketStore struct {
	mu           sync.Mutex
	tickets      []*domain.Ticket
	processed    map[string]struct{}
	totalCreated int
	startTime    time.Time

	routing    RoutingTable
	monitored  string
	cache      SeenCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the store.
type Dependencies struct {
	Routing    RoutingTable
	Monitored  string
	Cache      SeenCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// New constructs an empty store.
func New(deps Dependencies) *TicketStore {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketStore{
		processed:  make(map[string]struct{}),
		startTime:  time.Now(),
		routing:    deps.Routing,
		monitored:  deps.Monitored,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create materializes a ticket from an admitted message and its judgment,
// appends it to the collection and marks the message identifier processed.
// The returned ticket is a copy; the stored record is mutated only through
// the store's own operations.
func (s *TicketStore) Create(ctx context.Context, msg domain.InboundMessage, judgment domain.Judgment) domain.Ticket {
	s.mu.Lock()
	now := time.Now()
	name, email := splitSender(msg.Sender)

	ticket := &domain.Ticket{
		ID:            newTicketID(now),
		SenderName:    name,
		SenderEmail:   email,
		Subject:       msg.Subject,
		Description:   truncateDescription(msg.Body),
		Category:      judgment.Category,
		Priority:      judgment.Priority,
		IssueType:     judgment.IssueType,
		UrgencyReason: judgment.UrgencyReason,
		AssignedRole:  judgment.RouteTo,
		AssignedTo:    s.routing.AddressFor(judgment.RouteTo),
		Status:        domain.TicketStatusOpen,
		CreatedAt:     now,
		EmailID:       msg.ID,
	}

	s.tickets = append(s.tickets, ticket)
	if !msg.Simulated() {
		s.processed[msg.ID] = struct{}{}
	}
	s.totalCreated++
	created := *ticket
	s.mu.Unlock()

	if s.cache != nil && !msg.Simulated() {
		if err := s.cache.Add(ctx, msg.ID); err != nil {
			s.logger.Warn("seen-cache add failed",
				zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		Payload: events.TicketCreatedPayload{
			Category:     created.Category,
			Priority:     created.Priority,
			AssignedRole: created.AssignedRole,
			Subject:      created.Subject,
		},
	})
	return created
}

// Resolve marks the ticket resolved and stamps ResolvedAt. Resolving an
// already-resolved ticket is allowed and simply refreshes the timestamp.
// Returns false when no ticket carries the identifier.
func (s *TicketStore) Resolve(ctx context.Context, id string) bool {
	s.mu.Lock()
	ticket := s.find(id)
	if ticket == nil {
		s.mu.Unlock()
		return false
	}
	now := time.Now()
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolvedAt = &now
	s.mu.Unlock()

	s.publish(ctx, events.Event{Type: events.EventTicketResolved, TicketID: id})
	return true
}

// Escalate raises the ticket priority by exactly one step with high as the
// ceiling. Escalation never touches the ticket status. Returns false when no
// ticket carries the identifier.
func (s *TicketStore) Escalate(ctx context.Context, id string) bool {
	s.mu.Lock()
	ticket := s.find(id)
	if ticket == nil {
		s.mu.Unlock()
		return false
	}
	old := ticket.Priority
	ticket.Priority = old.Escalated()
	ticket.Escalated = true
	now := time.Now()
	ticket.EscalatedAt = &now
	newPriority := ticket.Priority
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: id,
		Payload: events.TicketEscalatedPayload{
			OldPriority: old,
			NewPriority: newPriority,
		},
	})
	return true
}

// RecordNotificationOutcome stores the last known delivery outcome reported
// by the mail-sending collaborator. Returns false when no ticket carries the
// identifier.
func (s *TicketStore) RecordNotificationOutcome(ctx context.Context, id string, sent bool) bool {
	s.mu.Lock()
	ticket := s.find(id)
	if ticket == nil {
		s.mu.Unlock()
		return false
	}
	ticket.NotificationSent = sent
	recipient := ticket.AssignedTo
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:     events.EventNotificationRecorded,
		TicketID: id,
		Payload: events.NotificationRecordedPayload{
			Recipient: recipient,
			Sent:      sent,
		},
	})
	return true
}

// Clear empties the ticket collection and the dedup set together and resets
// all counters with a fresh start time. Irreversible. Returns the number of
// tickets removed.
func (s *TicketStore) Clear(ctx context.Context) int {
	s.mu.Lock()
	count := len(s.tickets)
	s.tickets = nil
	s.processed = make(map[string]struct{})
	s.totalCreated = 0
	s.startTime = time.Now()
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn("seen-cache clear failed", zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketsCleared,
		Payload: events.TicketsClearedPayload{Count: count},
	})
	return count
}

// Seen reports whether the message identifier was already turned into a
// ticket. The in-memory dedup set is consulted first, then the best-effort
// cache.
func (s *TicketStore) Seen(ctx context.Context, id string) bool {
	s.mu.Lock()
	_, ok := s.processed[id]
	s.mu.Unlock()
	if ok {
		return true
	}
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Contains(ctx, id)
	if err != nil {
		s.logger.Debug("seen-cache lookup failed", zap.String("message_id", id), zap.Error(err))
		return false
	}
	return cached
}

// SystemInfo describes the monitored identity for the dashboard.
type SystemInfo struct {
	MonitoredMailbox string
	TotalProcessed   int
	Uptime           time.Duration
}

// Snapshot is a read-only projection of the store.
type Snapshot struct {
	Tickets    []domain.Ticket
	Stats      domain.Stats
	SystemInfo SystemInfo
}

// Snapshot copies the collection and recomputes per-priority and
// per-category stats from the live tickets, so escalations never leave the
// aggregates stale.
func (s *TicketStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.Stats{
		TotalTickets:      s.totalCreated,
		TicketsByCategory: make(map[domain.Category]int),
		StartTime:         s.startTime,
	}
	tickets := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		tickets = append(tickets, *ticket)
		switch ticket.Priority {
		case domain.PriorityHigh:
			stats.HighPriority++
		case domain.PriorityMedium:
			stats.MediumPriority++
		case domain.PriorityLow:
			stats.LowPriority++
		}
		stats.TicketsByCategory[ticket.Category]++
	}

	return Snapshot{
		Tickets: tickets,
		Stats:   stats,
		SystemInfo: SystemInfo{
			MonitoredMailbox: s.monitored,
			TotalProcessed:   len(s.processed),
			Uptime:           time.Since(s.startTime),
		},
	}
}

// find locates a ticket by identifier. Callers must hold the mutex.
func (s *TicketStore) find(id string) *domain.Ticket {
	for _, ticket := range s.tickets {
		if ticket.ID == id {
			return ticket
		}
	}
	return nil
}

func (s *TicketStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// newTicketID builds a globally unique, creation-time-sortable identifier.
func newTicketID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "TK-" + now.Format("20060102-150405") + "-" + suffix
}

// splitSender separates a display name from an address header. Headers
// without an angle-bracket form derive the display name from the local part
// of the address.
func splitSender(sender string) (name, email string) {
	if idx := strings.Index(sender, "<"); idx >= 0 {
		name = strings.TrimSpace(strings.ReplaceAll(sender[:idx], `"`, ""))
		email = strings.TrimSuffix(strings.TrimSpace(sender[idx+1:]), ">")
		return name, email
	}
	local := sender
	if at := strings.Index(sender, "@"); at >= 0 {
		local = sender[:at]
	}
	return titleCase(strings.ReplaceAll(local, ".", " ")), sender
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func truncateDescription(body string) string {
	runes := []rune(body)
	if len(runes) <= descriptionLimit {
		return body
	}
	return string(runes[:descriptionLimit]) + "..."
}
