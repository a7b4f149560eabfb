package classify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
)

// RemoteJudge is the hosted-model boundary. Implementations must honor the
// context deadline and return TransportError or MalformedReplyError.
type RemoteJudge interface {
	Judge(ctx context.Context, msg domain.InboundMessage) (domain.Judgment, error)
}

// Classifier maps an inbound message to a judgment. Classification is total:
// when the remote model is unavailable or replies with garbage, the
// deterministic keyword ladder takes over, so Classify never fails outward.
type Classifier struct {
	remote  RemoteJudge
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClassifier constructs the classifier. A nil remote means fallback-only
// operation.
func NewClassifier(remote RemoteJudge, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	return &Classifier{remote: remote, logger: logger, metrics: metrics}
}

// Classify judges one message.
func (c *Classifier) Classify(ctx context.Context, msg domain.InboundMessage) domain.Judgment {
	if c.remote == nil {
		c.metrics.RecordFallback()
		return fallbackJudgment(msg)
	}

	judgment, err := c.remote.Judge(ctx, msg)
	if err == nil {
		return judgment
	}

	// Both failure kinds fall back, but they are logged distinctly: a
	// malformed reply points at the model, a transport error at the network.
	var malformed *MalformedReplyError
	if errors.As(err, &malformed) {
		c.logger.Warn("classifier reply rejected, using keyword fallback",
			zap.String("message_id", msg.ID), zap.Error(err))
	} else {
		c.logger.Warn("classifier call failed, using keyword fallback",
			zap.String("message_id", msg.ID), zap.Error(err))
	}
	c.metrics.RecordFallback()
	return fallbackJudgment(msg)
}
