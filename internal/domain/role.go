package domain

// Role gates which operations a user may perform. It is fixed at registration.
type Role string

const (
	RoleUser     Role = "USER"
	RoleHospital Role = "HOSPITAL"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHospital, RoleAdmin:
		return true
	}
	return false
}

// Capability names a single permission.
type Capability string

const (
	CapManageRequests  Capability = "manage_requests"
	CapReviewResponses Capability = "review_responses"
	CapRespond         Capability = "respond"
	CapSearchNearby    Capability = "search_nearby"
	CapSearchDonors    Capability = "search_donors"
	CapListUsers       Capability = "list_users"
	CapManageUsers     Capability = "manage_users"
	CapManageContacts  Capability = "manage_contacts"
)

// Capabilities is a set of permissions.
type Capabilities map[Capability]struct{}

// Has reports membership.
func (c Capabilities) Has(capability Capability) bool {
	_, ok := c[capability]
	return ok
}

var roleCapabilities = map[Role][]Capability{
	RoleUser:     {CapRespond, CapSearchNearby, CapManageContacts},
	RoleHospital: {CapManageRequests, CapReviewResponses, CapSearchDonors, CapManageContacts},
	RoleAdmin:    {CapSearchDonors, CapListUsers, CapManageUsers, CapManageContacts},
}

// CapabilitiesFor maps a role to its capability set. Unknown roles get none.
func CapabilitiesFor(role Role) Capabilities {
	caps := make(Capabilities, len(roleCapabilities[role]))
	for _, c := range roleCapabilities[role] {
		caps[c] = struct{}{}
	}
	return caps
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

// Can reports whether the actor's role grants the capability.
func (a Actor) Can(capability Capability) bool {
	return CapabilitiesFor(a.Role).Has(capability)
}
