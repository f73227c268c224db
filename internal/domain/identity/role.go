package identity

// Role is the marketplace role carried by every account
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleClassic       Role = "classic"
	RolePremium       Role = "premium"
	RoleSeller        Role = "seller"
	RoleStylist       Role = "stylist"
	RoleVIP           Role = "vip"
)

// AllRoles lists every known role
var AllRoles = []Role{RoleAdministrator, RoleClassic, RolePremium, RoleSeller, RoleStylist, RoleVIP}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// CanSell reports whether the role may list products and owns an active storefront feed
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleAdministrator
}

// IsAdmin reports whether the role has administrative capability
func (r Role) IsAdmin() bool {
	return r == RoleAdministrator
}

func (r Role) String() string {
	return string(r)
}
