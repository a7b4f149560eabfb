package mailbox

import (
	"context"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/notify"
)

// Fetcher produces the batch of unread inbound messages for one poll cycle.
// A fetch failure is reported as an error; the pipeline treats it as an
// empty batch for that cycle.
type Fetcher interface {
	FetchUnread(ctx context.Context) ([]domain.InboundMessage, error)
}

// Sender delivers a composed notification to its recipient.
type Sender interface {
	Send(ctx context.Context, n notify.Notification) error
}
