package classify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
)

func TestFallbackJudgment(t *testing.T) {
	tests := []struct {
		name         string
		subject      string
		body         string
		wantCategory domain.Category
		wantPriority domain.Priority
		wantRole     domain.StaffRole
	}{
		{
			name:         "password reset is a security issue",
			subject:      "Cannot log in",
			body:         "I need a password reset for my account",
			wantCategory: domain.CategorySecurity,
			wantPriority: domain.PriorityHigh,
			wantRole:     domain.RoleSecurityOfficer,
		},
		{
			name:         "onboarding goes to HR",
			subject:      "New employee starting Monday",
			body:         "please prepare accounts for the new hire",
			wantCategory: domain.CategoryAccess,
			wantPriority: domain.PriorityMedium,
			wantRole:     domain.RoleHRCoordinator,
		},
		{
			name:         "vpn outage goes to network admin",
			subject:      "VPN down for whole team",
			body:         "our entire remote team cannot connect since this morning",
			wantCategory: domain.CategoryNetwork,
			wantPriority: domain.PriorityHigh,
			wantRole:     domain.RoleNetworkAdmin,
		},
		{
			name:         "broken laptop goes to helpdesk",
			subject:      "Laptop will not boot",
			body:         "the machine shows a black screen on startup",
			wantCategory: domain.CategoryHardware,
			wantPriority: domain.PriorityMedium,
			wantRole:     domain.RoleHelpdeskManager,
		},
		{
			name:         "license request goes to procurement",
			subject:      "Need a license for design tool",
			body:         "we would like to purchase two more seats",
			wantCategory: domain.CategorySoftware,
			wantPriority: domain.PriorityLow,
			wantRole:     domain.RoleProcurementOfficer,
		},
		{
			name:         "security keywords pre-empt network keywords",
			subject:      "breach over the vpn",
			body:         "we suspect unauthorized access through the tunnel",
			wantCategory: domain.CategorySecurity,
			wantPriority: domain.PriorityHigh,
			wantRole:     domain.RoleSecurityOfficer,
		},
		{
			name:         "password beats vpn in the same message",
			subject:      "vpn asks for my password again",
			body:         "the client keeps rejecting my password since the update",
			wantCategory: domain.CategorySecurity,
			wantPriority: domain.PriorityHigh,
			wantRole:     domain.RoleSecurityOfficer,
		},
		{
			name:         "keyword matching is case-insensitive",
			subject:      "PASSWORD locked",
			body:         "my account got locked after three attempts",
			wantCategory: domain.CategorySecurity,
			wantPriority: domain.PriorityHigh,
			wantRole:     domain.RoleSecurityOfficer,
		},
		{
			name:         "no keyword falls through to general",
			subject:      "Question about the printer queue",
			body:         "documents sit in the queue and never come out",
			wantCategory: domain.CategoryGeneral,
			wantPriority: domain.PriorityMedium,
			wantRole:     domain.RoleHelpdeskManager,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := domain.InboundMessage{ID: "m1", Subject: tt.subject, Body: tt.body}
			got := fallbackJudgment(msg)
			if got.Category != tt.wantCategory {
				t.Errorf("category = %s, want %s", got.Category, tt.wantCategory)
			}
			if got.Priority != tt.wantPriority {
				t.Errorf("priority = %s, want %s", got.Priority, tt.wantPriority)
			}
			if got.RouteTo != tt.wantRole {
				t.Errorf("route_to = %s, want %s", got.RouteTo, tt.wantRole)
			}
			if got.IssueType == "" || got.UrgencyReason == "" {
				t.Error("issue_type and urgency_reason must be populated")
			}
		})
	}
}

type stubJudge struct {
	judgment domain.Judgment
	err      error
	calls    int
}

func (s *stubJudge) Judge(context.Context, domain.InboundMessage) (domain.Judgment, error) {
	s.calls++
	return s.judgment, s.err
}

func TestClassifyUsesRemoteWhenHealthy(t *testing.T) {
	want := domain.Judgment{
		Category:      domain.CategoryHardware,
		Priority:      domain.PriorityHigh,
		RouteTo:       domain.RoleHelpdeskManager,
		IssueType:     "Broken dock",
		UrgencyReason: "Blocks an entire meeting room",
	}
	remote := &stubJudge{judgment: want}
	classifier := NewClassifier(remote, zap.NewNop(), observability.NewMetrics())

	got := classifier.Classify(context.Background(), domain.InboundMessage{ID: "m1", Body: "vpn"})
	if got != want {
		t.Errorf("Classify() = %+v, want remote judgment %+v", got, want)
	}
	if remote.calls != 1 {
		t.Errorf("remote called %d times, want 1", remote.calls)
	}
}

func TestClassifyFallsBackOnRemoteFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport error", &TransportError{Err: errors.New("connection refused")}},
		{"malformed reply", &MalformedReplyError{Reason: "invalid JSON"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &stubJudge{err: tt.err}
			classifier := NewClassifier(remote, zap.NewNop(), observability.NewMetrics())

			msg := domain.InboundMessage{ID: "m1", Subject: "vpn outage", Body: "nobody can connect"}
			got := classifier.Classify(context.Background(), msg)
			if got.Category != domain.CategoryNetwork {
				t.Errorf("fallback category = %s, want %s", got.Category, domain.CategoryNetwork)
			}
			if got.RouteTo != domain.RoleNetworkAdmin {
				t.Errorf("fallback route_to = %s, want %s", got.RouteTo, domain.RoleNetworkAdmin)
			}
		})
	}
}

func TestClassifyWithoutRemote(t *testing.T) {
	classifier := NewClassifier(nil, zap.NewNop(), observability.NewMetrics())

	msg := domain.InboundMessage{ID: "m1", Subject: "general question", Body: "how do I book a meeting room"}
	got := classifier.Classify(context.Background(), msg)
	if got != fallbackDefault {
		t.Errorf("Classify() = %+v, want fallback default %+v", got, fallbackDefault)
	}
}

func TestJudgmentReplyValidation(t *testing.T) {
	valid := judgmentReply{
		Category:      "network",
		Priority:      "high",
		RouteTo:       "NETWORK_ADMIN",
		IssueType:     "VPN outage",
		UrgencyReason: "Whole team offline",
	}

	if _, err := valid.toJudgment(); err != nil {
		t.Fatalf("toJudgment() unexpected error for valid reply: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *judgmentReply)
	}{
		{"unknown category", func(r *judgmentReply) { r.Category = "billing" }},
		{"unknown priority", func(r *judgmentReply) { r.Priority = "urgent" }},
		{"unknown role", func(r *judgmentReply) { r.RouteTo = "CEO" }},
		{"upper-cased category", func(r *judgmentReply) { r.Category = "NETWORK" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := valid
			tt.mutate(&reply)
			_, err := reply.toJudgment()
			if err == nil {
				t.Fatal("toJudgment() expected error")
			}
			var malformed *MalformedReplyError
			if !errors.As(err, &malformed) {
				t.Errorf("error = %T, want *MalformedReplyError", err)
			}
		})
	}
}
