package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/service"
)

// InboxPoller drives the periodic ingestion cycle. Cycles never overlap: the
// next tick is consumed only after the previous cycle has returned, so a
// slow classifier cannot pile up concurrent inbox scans.
type InboxPoller struct {
	pipeline *service.Pipeline
	interval time.Duration
	logger   *zap.Logger
}

// NewInboxPoller constructs the poller.
func NewInboxPoller(pipeline *service.Pipeline, interval time.Duration, logger *zap.Logger) *InboxPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &InboxPoller{pipeline: pipeline, interval: interval, logger: logger}
}

// Run blocks until the context is cancelled. Recoverable failures inside a
// cycle are handled by the pipeline; the loop itself never exits early.
func (p *InboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("inbox poller started", zap.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("inbox poller stopped")
			return
		case <-ticker.C:
			created := p.pipeline.ProcessPending(ctx)
			if len(created) > 0 {
				p.logger.Info("poll cycle finished", zap.Int("new_tickets", len(created)))
			}
		}
	}
}
