package user

const (
	RoleEmployee        = "Employee"
	RoleSystemManager   = "System Manager"
	RoleProjectsManager = "Projects Manager"

	// Administrator is the built-in superuser identity.
	Administrator = "Administrator"
)

// Actor is the identity a request runs as.
type Actor struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Employee string   `json:"employee,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

func (a *Actor) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a *Actor) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

func (a *Actor) IsAdministrator() bool {
	return a != nil && a.ID == Administrator
}

// IsPrivileged reports whether the actor bypasses employee restrictions.
func (a *Actor) IsPrivileged() bool {
	return a.IsAdministrator() || a.HasRole(RoleSystemManager)
}
