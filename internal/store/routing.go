package store

import "github.com/spec-kit/helpdesk-triage/internal/domain"

// RoutingTable is the static mapping from staff role to contact address.
type RoutingTable struct {
	Addresses map[domain.StaffRole]string
	Default   string
}

// AddressFor resolves the contact address for a role. Unknown roles fall
// back to the default address so a ticket always has a deliverable owner.
func (r RoutingTable) AddressFor(role domain.StaffRole) string {
	if addr, ok := r.Addresses[role]; ok && addr != "" {
		return addr
	}
	return r.Default
}
