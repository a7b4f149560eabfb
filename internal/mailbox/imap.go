package mailbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-triage/internal/config"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// At most this many unread messages are pulled per cycle; backlog drains
// across subsequent cycles.
const fetchBatchLimit = 10

// IMAPFetcher pulls unread messages from the monitored mailbox. Each fetch
// opens a fresh session so a dead connection never poisons later cycles.
type IMAPFetcher struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewIMAPFetcher constructs the fetcher.
func NewIMAPFetcher(cfg config.MailConfig, logger *zap.Logger) *IMAPFetcher {
	return &IMAPFetcher{cfg: cfg, logger: logger}
}

// FetchUnread returns up to the last ten unread messages from INBOX.
func (f *IMAPFetcher) FetchUnread(ctx context.Context) ([]domain.InboundMessage, error) {
	client, err := imapclient.DialTLS(f.cfg.IMAPAddr(), nil)
	if err != nil {
		return nil, fmt.Errorf("imap dial: %w", err)
	}
	defer client.Close()

	if err := client.Login(f.cfg.Address, f.cfg.AppPassword).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("imap select: %w", err)
	}

	searchData, err := client.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > fetchBatchLimit {
		uids = uids[len(uids)-fetchBatchLimit:]
	}
	f.logger.Debug("unread messages found", zap.Int("count", len(uids)))

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:      true,
		Envelope: true,
		BodySection: []*imap.FetchItemBodySection{
			{Specifier: imap.PartSpecifierText},
		},
	})
	buffered, err := fetchCmd.Collect()
	if err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	messages := make([]domain.InboundMessage, 0, len(buffered))
	for _, msg := range buffered {
		messages = append(messages, toInboundMessage(msg))
	}
	return messages, nil
}

func toInboundMessage(msg *imapclient.FetchMessageBuffer) domain.InboundMessage {
	var sender, subject string
	receivedAt := time.Now()
	if env := msg.Envelope; env != nil {
		subject = env.Subject
		if !env.Date.IsZero() {
			receivedAt = env.Date
		}
		if len(env.From) > 0 {
			sender = formatAddress(env.From[0])
		}
	}

	body := strings.TrimSpace(string(msg.FindBodySection(&imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierText,
	})))

	return domain.InboundMessage{
		ID:         strconv.FormatUint(uint64(msg.UID), 10),
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		ReceivedAt: receivedAt,
	}
}

func formatAddress(addr imap.Address) string {
	email := addr.Mailbox + "@" + addr.Host
	if addr.Name != "" {
		return fmt.Sprintf("%s <%s>", addr.Name, email)
	}
	return email
}
