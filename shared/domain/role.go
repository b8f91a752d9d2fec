package domain

// Role is the authority a user holds on a board.
// Ordered admin > member > guest > observer.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMember   Role = "member"
	RoleGuest    Role = "guest"
	RoleObserver Role = "observer"
)

var roleAuthority = map[Role]int{
	RoleObserver: 0,
	RoleGuest:    1,
	RoleMember:   2,
	RoleAdmin:    3,
}

// Roles returns all roles from the highest authority to the lowest.
func Roles() []Role {
	return []Role{RoleAdmin, RoleMember, RoleGuest, RoleObserver}
}

func (r Role) IsValid() bool {
	_, ok := roleAuthority[r]
	return ok
}

// Authority returns -1 for unknown roles.
func (r Role) Authority() int {
	if a, ok := roleAuthority[r]; ok {
		return a
	}
	return -1
}

// AtLeast reports whether r grants at least the authority of other.
// Unknown roles never satisfy and are never satisfied.
func (r Role) AtLeast(other Role) bool {
	if !r.IsValid() || !other.IsValid() {
		return false
	}
	return r.Authority() >= other.Authority()
}

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// InvitePolicy controls which members may send invitations.
type InvitePolicy string

const (
	InviteAll       InvitePolicy = "all"
	InviteAdminOnly InvitePolicy = "adminOnly"
)

func (p InvitePolicy) IsValid() bool {
	return p == InviteAll || p == InviteAdminOnly
}
