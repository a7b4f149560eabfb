package domain

import "fmt"

// Category buckets a support request by subject area.
type Category string

const (
	CategorySecurity Category = "security"
	CategoryAccess   Category = "access"
	CategoryHardware Category = "hardware"
	CategorySoftware Category = "software"
	CategoryNetwork  Category = "network"
	CategoryGeneral  Category = "general"
)

// Priority enumerates ticket urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// StaffRole enumerates the staff roles a ticket can be routed to.
type StaffRole string

const (
	RoleSecurityOfficer    StaffRole = "SOFTWARE_SECURITY_OFFICER"
	RoleHelpdeskManager    StaffRole = "IT_HELPDESK_MANAGER"
	RoleHRCoordinator      StaffRole = "HR_COORDINATOR"
	RoleProcurementOfficer StaffRole = "PROCUREMENT_OFFICER"
	RoleNetworkAdmin       StaffRole = "NETWORK_ADMIN"
)

// Judgment is the classification result for one inbound message. A judgment
// is produced fresh per message and never mutated afterwards.
type Judgment struct {
	Category      Category
	Priority      Priority
	RouteTo       StaffRole
	IssueType     string
	UrgencyReason string
}

// ParseCategory validates a category value received from an external source.
func ParseCategory(v string) (Category, error) {
	switch c := Category(v); c {
	case CategorySecurity, CategoryAccess, CategoryHardware,
		CategorySoftware, CategoryNetwork, CategoryGeneral:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", v)
}

// ParsePriority validates a priority value received from an external source.
func ParsePriority(v string) (Priority, error) {
	switch p := Priority(v); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", v)
}

// ParseStaffRole validates a role value received from an external source.
func ParseStaffRole(v string) (StaffRole, error) {
	switch r := StaffRole(v); r {
	case RoleSecurityOfficer, RoleHelpdeskManager, RoleHRCoordinator,
		RoleProcurementOfficer, RoleNetworkAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown staff role %q", v)
}

// Escalated returns the priority one step above p. High is the ceiling:
// escalating a high-priority ticket leaves it at high.
func (p Priority) Escalated() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return p
	}
}
