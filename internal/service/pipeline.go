package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/classify"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/ingest"
	"github.com/spec-kit/helpdesk-triage/internal/mailbox"
	"github.com/spec-kit/helpdesk-triage/internal/notify"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/store"
)

// Pipeline runs the ingestion-classify-create-notify cycle for inbound
// messages. Classification and composition are pure and run concurrently
// across messages; ticket creation serializes through the store.
type Pipeline struct {
	fetcher    mailbox.Fetcher
	sender     mailbox.Sender
	filter     *ingest.Filter
	classifier *classify.Classifier
	store      *store.TicketStore
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// Dependencies bundles collaborators for the pipeline.
type Dependencies struct {
	Fetcher    mailbox.Fetcher
	Sender     mailbox.Sender
	Filter     *ingest.Filter
	Classifier *classify.Classifier
	Store      *store.TicketStore
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewPipeline constructs the pipeline.
func NewPipeline(deps Dependencies) *Pipeline {
	return &Pipeline{
		fetcher:    deps.Fetcher,
		sender:     deps.Sender,
		filter:     deps.Filter,
		classifier: deps.Classifier,
		store:      deps.Store,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// ProcessPending runs one synchronous cycle and returns the tickets it
// created. A fetch failure yields an empty batch for the cycle; nothing in
// here is fatal to the caller.
func (p *Pipeline) ProcessPending(ctx context.Context) []domain.Ticket {
	p.metrics.RecordCycle()

	batch, err := p.fetcher.FetchUnread(ctx)
	if err != nil {
		p.logger.Warn("mailbox fetch failed, skipping cycle", zap.Error(err))
		return nil
	}

	admitted := make([]domain.InboundMessage, 0, len(batch))
	for _, msg := range batch {
		if p.filter.Admit(ctx, msg) {
			admitted = append(admitted, msg)
		}
	}
	if len(admitted) == 0 {
		return nil
	}

	judgments := make([]domain.Judgment, len(admitted))
	var wg sync.WaitGroup
	for i := range admitted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			judgments[i] = p.classifier.Classify(ctx, admitted[i])
		}(i)
	}
	wg.Wait()

	created := make([]domain.Ticket, 0, len(admitted))
	for i, msg := range admitted {
		ticket := p.store.Create(ctx, msg, judgments[i])
		p.metrics.RecordTicketCreated()
		ticket.NotificationSent = p.notify(ctx, ticket)
		created = append(created, ticket)

		p.logger.Info("ticket created",
			zap.String("ticket_id", ticket.ID),
			zap.String("category", string(ticket.Category)),
			zap.String("priority", string(ticket.Priority)),
			zap.String("assigned_role", string(ticket.AssignedRole)),
			zap.Bool("notification_sent", ticket.NotificationSent))
	}
	return created
}

// Simulate synthesizes an inbound message and runs it through classification,
// creation and notification. The ingestion filter is deliberately skipped so
// any content can be exercised, and simulated identifiers stay out of the
// processed set.
func (p *Pipeline) Simulate(ctx context.Context, sender, subject, body string) domain.Ticket {
	now := time.Now()
	msg := domain.InboundMessage{
		ID:         domain.SimulatedIDPrefix + now.Format("150405") + "-" + uuid.NewString()[:8],
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		ReceivedAt: now,
	}

	judgment := p.classifier.Classify(ctx, msg)
	ticket := p.store.Create(ctx, msg, judgment)
	p.metrics.RecordTicketCreated()
	ticket.NotificationSent = p.notify(ctx, ticket)
	return ticket
}

// notify composes and attempts delivery, then records the outcome on the
// ticket. Returns whether delivery succeeded.
func (p *Pipeline) notify(ctx context.Context, ticket domain.Ticket) bool {
	payload := notify.Compose(ticket)
	err := p.sender.Send(ctx, payload)
	if err != nil {
		p.logger.Warn("notification send failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("to", payload.To),
			zap.Error(err))
	}
	sent := err == nil
	p.store.RecordNotificationOutcome(ctx, ticket.ID, sent)
	p.metrics.RecordNotification(sent)
	return sent
}
