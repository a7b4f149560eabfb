package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
)

func newTestStore() *TicketStore {
	return New(Dependencies{
		Routing: RoutingTable{
			Addresses: map[domain.StaffRole]string{
				domain.RoleSecurityOfficer: "security@company.com",
				domain.RoleNetworkAdmin:    "network@company.com",
			},
			Default: "it.manager@company.com",
		},
		Monitored: "support@company.com",
	})
}

func networkJudgment() domain.Judgment {
	return domain.Judgment{
		Category:      domain.CategoryNetwork,
		Priority:      domain.PriorityHigh,
		RouteTo:       domain.RoleNetworkAdmin,
		IssueType:     "Network connectivity issue",
		UrgencyReason: "Network issues affect productivity",
	}
}

func ticketByID(t *testing.T, s *TicketStore, id string) domain.Ticket {
	t.Helper()
	for _, ticket := range s.Snapshot().Tickets {
		if ticket.ID == id {
			return ticket
		}
	}
	t.Fatalf("ticket %s not found in snapshot", id)
	return domain.Ticket{}
}

func TestCreateSplitsSender(t *testing.T) {
	tests := []struct {
		name      string
		sender    string
		wantName  string
		wantEmail string
	}{
		{"angle bracket form", "IT Guy <it@corp.com>", "IT Guy", "it@corp.com"},
		{"quoted display name", `"Jane Doe" <jane@corp.com>`, "Jane Doe", "jane@corp.com"},
		{"bare address derives name from local part", "jane.doe@corp.com", "Jane Doe", "jane.doe@corp.com"},
		{"bare address without dots", "admin@corp.com", "Admin", "admin@corp.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			msg := domain.InboundMessage{ID: "m1", Sender: tt.sender, Subject: "s", Body: "b"}
			ticket := s.Create(context.Background(), msg, networkJudgment())
			if ticket.SenderName != tt.wantName {
				t.Errorf("SenderName = %q, want %q", ticket.SenderName, tt.wantName)
			}
			if ticket.SenderEmail != tt.wantEmail {
				t.Errorf("SenderEmail = %q, want %q", ticket.SenderEmail, tt.wantEmail)
			}
		})
	}
}

func TestCreateTruncatesDescription(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRunes int
	}{
		{"short body kept verbatim", strings.Repeat("x", 400), 400},
		{"body at the cap kept verbatim", strings.Repeat("x", 500), 500},
		{"long body truncated with ellipsis", strings.Repeat("x", 600), 503},
		{"multibyte body under the cap kept verbatim", strings.Repeat("é", 200), 200},
		{"multibyte body truncated on characters", strings.Repeat("€", 600), 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			msg := domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: tt.body}
			ticket := s.Create(context.Background(), msg, networkJudgment())
			if got := utf8.RuneCountInString(ticket.Description); got != tt.wantRunes {
				t.Errorf("description rune count = %d, want %d", got, tt.wantRunes)
			}
			if !utf8.ValidString(ticket.Description) {
				t.Error("description is not valid UTF-8")
			}
			truncated := utf8.RuneCountInString(tt.body) > descriptionLimit
			if truncated && !strings.HasSuffix(ticket.Description, "...") {
				t.Error("truncated description must end with ellipsis")
			}
			if !truncated && ticket.Description != tt.body {
				t.Error("body under the cap must be kept verbatim")
			}
		})
	}
}

func TestCreateAssignsTicketFields(t *testing.T) {
	s := newTestStore()
	msg := domain.InboundMessage{ID: "m42", Sender: "a@corp.com", Subject: "vpn down", Body: "help"}
	ticket := s.Create(context.Background(), msg, networkJudgment())

	if !strings.HasPrefix(ticket.ID, "TK-") {
		t.Errorf("ID = %q, want TK- prefix", ticket.ID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("Status = %q, want %q", ticket.Status, domain.TicketStatusOpen)
	}
	if ticket.AssignedTo != "network@company.com" {
		t.Errorf("AssignedTo = %q, want network@company.com", ticket.AssignedTo)
	}
	if ticket.EmailID != "m42" {
		t.Errorf("EmailID = %q, want m42", ticket.EmailID)
	}
	if ticket.ResolvedAt != nil || ticket.Escalated || ticket.NotificationSent {
		t.Error("new ticket must start unresolved, unescalated and unnotified")
	}
	if !s.Seen(context.Background(), "m42") {
		t.Error("Seen() = false after Create, want true")
	}
}

func TestCreateRoutesUnknownRoleToDefault(t *testing.T) {
	s := newTestStore()
	judgment := networkJudgment()
	judgment.RouteTo = domain.RoleProcurementOfficer
	msg := domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}

	ticket := s.Create(context.Background(), msg, judgment)
	if ticket.AssignedTo != "it.manager@company.com" {
		t.Errorf("AssignedTo = %q, want default address", ticket.AssignedTo)
	}
}

func TestTicketIDsUnique(t *testing.T) {
	s := newTestStore()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ticket := s.Create(context.Background(),
			domain.InboundMessage{ID: strconv.Itoa(i), Sender: "a@corp.com", Body: "b"},
			networkJudgment())
		if _, dup := seen[ticket.ID]; dup {
			t.Fatalf("duplicate ticket ID %s", ticket.ID)
		}
		seen[ticket.ID] = struct{}{}
	}
}

func TestResolve(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, networkJudgment())

	if !s.Resolve(ctx, created.ID) {
		t.Fatal("Resolve() = false for existing ticket")
	}
	resolved := ticketByID(t, s, created.ID)
	if resolved.Status != domain.TicketStatusResolved {
		t.Errorf("Status = %q, want %q", resolved.Status, domain.TicketStatusResolved)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("ResolvedAt is nil after Resolve")
	}

	first := *resolved.ResolvedAt
	if !s.Resolve(ctx, created.ID) {
		t.Fatal("second Resolve() = false, want true")
	}
	again := ticketByID(t, s, created.ID)
	if again.ResolvedAt.Before(first) {
		t.Error("second Resolve must refresh ResolvedAt forward")
	}

	if s.Resolve(ctx, "TK-missing") {
		t.Error("Resolve() = true for unknown id")
	}
}

func TestEscalateStepsPriorityWithCeiling(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	judgment := networkJudgment()
	judgment.Priority = domain.PriorityLow
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, judgment)

	want := []domain.Priority{domain.PriorityMedium, domain.PriorityHigh, domain.PriorityHigh}
	for i, expected := range want {
		if !s.Escalate(ctx, created.ID) {
			t.Fatalf("Escalate() #%d = false", i+1)
		}
		ticket := ticketByID(t, s, created.ID)
		if ticket.Priority != expected {
			t.Errorf("after escalation #%d priority = %s, want %s", i+1, ticket.Priority, expected)
		}
	}

	ticket := ticketByID(t, s, created.ID)
	if !ticket.Escalated || ticket.EscalatedAt == nil {
		t.Error("escalation must set Escalated and EscalatedAt")
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("escalation changed status to %q, want %q", ticket.Status, domain.TicketStatusOpen)
	}

	if s.Escalate(ctx, "TK-missing") {
		t.Error("Escalate() = true for unknown id")
	}
}

func TestRecordNotificationOutcome(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, networkJudgment())

	if !s.RecordNotificationOutcome(ctx, created.ID, true) {
		t.Fatal("RecordNotificationOutcome() = false for existing ticket")
	}
	if !ticketByID(t, s, created.ID).NotificationSent {
		t.Error("NotificationSent = false after recording success")
	}

	if !s.RecordNotificationOutcome(ctx, created.ID, false) {
		t.Fatal("RecordNotificationOutcome() = false on second call")
	}
	if ticketByID(t, s, created.ID).NotificationSent {
		t.Error("NotificationSent = true after recording failure")
	}

	if s.RecordNotificationOutcome(ctx, "TK-missing", true) {
		t.Error("RecordNotificationOutcome() = true for unknown id")
	}
}

func TestClearResetsEverything(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, networkJudgment())
	s.Create(ctx, domain.InboundMessage{ID: "m2", Sender: "b@corp.com", Body: "b"}, networkJudgment())

	if got := s.Clear(ctx); got != 2 {
		t.Errorf("Clear() = %d, want 2", got)
	}

	snap := s.Snapshot()
	if len(snap.Tickets) != 0 {
		t.Errorf("snapshot holds %d tickets after clear, want 0", len(snap.Tickets))
	}
	if snap.Stats.TotalTickets != 0 || snap.Stats.HighPriority != 0 {
		t.Errorf("stats not reset: %+v", snap.Stats)
	}
	if s.Seen(ctx, "m1") || s.Seen(ctx, "m2") {
		t.Error("cleared message ids must be re-admittable")
	}
}

func TestSnapshotRecomputesStatsAfterEscalation(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	judgment := networkJudgment()
	judgment.Priority = domain.PriorityLow
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, judgment)

	s.Escalate(ctx, created.ID)

	snap := s.Snapshot()
	if snap.Stats.LowPriority != 0 {
		t.Errorf("LowPriority = %d, want 0 after escalation", snap.Stats.LowPriority)
	}
	if snap.Stats.MediumPriority != 1 {
		t.Errorf("MediumPriority = %d, want 1 after escalation", snap.Stats.MediumPriority)
	}
	if snap.Stats.TotalTickets != 1 {
		t.Errorf("TotalTickets = %d, want 1", snap.Stats.TotalTickets)
	}
	if snap.Stats.TicketsByCategory[domain.CategoryNetwork] != 1 {
		t.Errorf("network category count = %d, want 1", snap.Stats.TicketsByCategory[domain.CategoryNetwork])
	}
	if snap.SystemInfo.MonitoredMailbox != "support@company.com" {
		t.Errorf("MonitoredMailbox = %q", snap.SystemInfo.MonitoredMailbox)
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, networkJudgment())

	snap := s.Snapshot()
	snap.Tickets[0].Status = "tampered"

	if got := ticketByID(t, s, created.ID).Status; got != domain.TicketStatusOpen {
		t.Errorf("store ticket status = %q after mutating a snapshot copy, want %q", got, domain.TicketStatusOpen)
	}
}

// fakeSeenCache is an in-memory stand-in for the Redis mirror.
type fakeSeenCache struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newFakeSeenCache() *fakeSeenCache {
	return &fakeSeenCache{ids: make(map[string]struct{})}
}

func (f *fakeSeenCache) Add(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids[id] = struct{}{}
	return nil
}

func (f *fakeSeenCache) Contains(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[id]
	return ok, nil
}

func (f *fakeSeenCache) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = make(map[string]struct{})
	return nil
}

func TestSeenConsultsCacheMirror(t *testing.T) {
	cache := newFakeSeenCache()
	s := New(Dependencies{Cache: cache})
	ctx := context.Background()

	// Identifier known only to the mirror, e.g. written by a previous process.
	if err := cache.Add(ctx, "m-old"); err != nil {
		t.Fatal(err)
	}
	if !s.Seen(ctx, "m-old") {
		t.Error("Seen() = false for id present in cache mirror")
	}

	s.Create(ctx, domain.InboundMessage{ID: "m-new", Sender: "a@corp.com", Body: "b"}, networkJudgment())
	if ok, _ := cache.Contains(ctx, "m-new"); !ok {
		t.Error("Create must mirror the message id into the cache")
	}

	s.Clear(ctx)
	if ok, _ := cache.Contains(ctx, "m-new"); ok {
		t.Error("Clear must empty the cache mirror")
	}
}

func TestStorePublishesLifecycleEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var mu sync.Mutex
	var seen []events.EventType
	record := func(_ context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.Type)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketEscalated,
		events.EventTicketResolved,
		events.EventTicketsCleared,
	} {
		dispatcher.Subscribe(eventType, record)
	}

	s := New(Dependencies{Dispatcher: dispatcher})
	ctx := context.Background()
	created := s.Create(ctx, domain.InboundMessage{ID: "m1", Sender: "a@corp.com", Body: "b"}, networkJudgment())
	s.Escalate(ctx, created.ID)
	s.Resolve(ctx, created.ID)
	s.Clear(ctx)

	want := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketEscalated,
		events.EventTicketResolved,
		events.EventTicketsCleared,
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != len(want) {
		t.Fatalf("published %d events, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestTicketIDFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := newTicketID(now)

	if !strings.HasPrefix(id, "TK-20250314-092653-") {
		t.Errorf("id = %q, want TK-20250314-092653-<suffix>", id)
	}
	suffix := strings.TrimPrefix(id, "TK-20250314-092653-")
	if len(suffix) != 6 {
		t.Errorf("suffix %q has length %d, want 6", suffix, len(suffix))
	}
	if suffix != strings.ToUpper(suffix) {
		t.Errorf("suffix %q is not upper-cased", suffix)
	}
}
