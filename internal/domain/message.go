package domain

import (
	"strings"
	"time"
)

// SimulatedIDPrefix marks messages synthesized through the dashboard rather
// than fetched from the mailbox.
const SimulatedIDPrefix = "sim_"

// InboundMessage is a raw support request pulled from the monitored mailbox.
// The core never fetches mail itself; a mailbox collaborator produces these
// values. ID is opaque and unique per message instance.
type InboundMessage struct {
	ID         string
	Sender     string
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Simulated reports whether the message was synthesized rather than fetched.
// Simulated messages never enter the processed-message dedup set.
func (m InboundMessage) Simulated() bool {
	return strings.HasPrefix(m.ID, SimulatedIDPrefix)
}
