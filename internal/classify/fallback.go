package classify

import (
	"strings"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// fallbackRule pairs a keyword set with the judgment it produces.
type fallbackRule struct {
	keywords []string
	judgment domain.Judgment
}

// fallbackLadder is evaluated top to bottom over the lower-cased
// concatenation of subject and body; the first matching rule wins. The order
// is deliberate: security signals pre-empt everything else.
var fallbackLadder = []fallbackRule{
	{
		keywords: []string{"password", "reset", "security", "breach", "hack", "unauthorized"},
		judgment: domain.Judgment{
			Category:      domain.CategorySecurity,
			Priority:      domain.PriorityHigh,
			RouteTo:       domain.RoleSecurityOfficer,
			IssueType:     "Security or access issue",
			UrgencyReason: "Security-related issues require immediate attention",
		},
	},
	{
		keywords: []string{"new employee", "onboarding", "departure", "leaving"},
		judgment: domain.Judgment{
			Category:      domain.CategoryAccess,
			Priority:      domain.PriorityMedium,
			RouteTo:       domain.RoleHRCoordinator,
			IssueType:     "Employee lifecycle management",
			UrgencyReason: "Standard employee onboarding/offboarding process",
		},
	},
	{
		keywords: []string{"vpn", "network", "connectivity", "internet", "wifi"},
		judgment: domain.Judgment{
			Category:      domain.CategoryNetwork,
			Priority:      domain.PriorityHigh,
			RouteTo:       domain.RoleNetworkAdmin,
			IssueType:     "Network connectivity issue",
			UrgencyReason: "Network issues affect productivity",
		},
	},
	{
		keywords: []string{"laptop", "computer", "hardware", "screen", "keyboard"},
		judgment: domain.Judgment{
			Category:      domain.CategoryHardware,
			Priority:      domain.PriorityMedium,
			RouteTo:       domain.RoleHelpdeskManager,
			IssueType:     "Hardware support request",
			UrgencyReason: "Hardware issues affect daily work",
		},
	},
	{
		keywords: []string{"license", "software", "purchase", "subscription"},
		judgment: domain.Judgment{
			Category:      domain.CategorySoftware,
			Priority:      domain.PriorityLow,
			RouteTo:       domain.RoleProcurementOfficer,
			IssueType:     "Software or license request",
			UrgencyReason: "Standard procurement process",
		},
	},
}

// fallbackDefault is returned when no keyword set matches.
var fallbackDefault = domain.Judgment{
	Category:      domain.CategoryGeneral,
	Priority:      domain.PriorityMedium,
	RouteTo:       domain.RoleHelpdeskManager,
	IssueType:     "General IT support request",
	UrgencyReason: "Standard IT support ticket",
}

// fallbackJudgment classifies with the deterministic keyword ladder.
func fallbackJudgment(msg domain.InboundMessage) domain.Judgment {
	text := strings.ToLower(msg.Subject + " " + msg.Body)
	for _, rule := range fallbackLadder {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.judgment
			}
		}
	}
	return fallbackDefault
}
