package ingest

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// automatedSenderMarkers flag senders that are mailing systems rather than
// employees. Matched case-insensitively as substrings of the sender header.
var automatedSenderMarkers = []string{"noreply", "no-reply", "donotreply"}

// Bodies shorter than this after trimming are treated as noise or spam.
const minBodyLength = 20

// SeenFunc reports whether a message identifier has already been ticketed.
type SeenFunc func(ctx context.Context, id string) bool

// Filter decides whether a raw inbound message is worth turning into a
// ticket. It has no side effects; admission is a pure predicate over message
// content and the current dedup state.
type Filter struct {
	seen SeenFunc
}

// NewFilter constructs a filter backed by the given dedup lookup.
func NewFilter(seen SeenFunc) *Filter {
	return &Filter{seen: seen}
}

// Admit reports whether the message should become a ticket. Re-delivery of an
// already-ticketed message identifier is always rejected, so one message
// never grows a second ticket.
func (f *Filter) Admit(ctx context.Context, msg domain.InboundMessage) bool {
	if f.seen != nil && f.seen(ctx, msg.ID) {
		return false
	}

	sender := strings.ToLower(msg.Sender)
	for _, marker := range automatedSenderMarkers {
		if strings.Contains(sender, marker) {
			return false
		}
	}

	if len(strings.TrimSpace(msg.Body)) < minBodyLength {
		return false
	}

	return true
}
