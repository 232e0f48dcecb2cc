package auth

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

const LoginPath = "/auth/login"

var AllRoles = []Role{RoleAdmin, RoleHR, RoleEmployee, RoleClient}

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range AllRoles {
		if role == known {
			return role, true
		}
	}
	return role, false
}

// Privileged roles pass every gate.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleHR
}

// HomePath is the dashboard a role lands on after login or a refused request.
func HomePath(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleHR:
		return "/hr/dashboard"
	case RoleEmployee:
		return "/employee/dashboard"
	case RoleClient:
		return "/client/dashboard"
	default:
		return LoginPath
	}
}

type RoleSet map[Role]struct{}

func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for _, role := range AllRoles {
		if s.Contains(role) {
			names = append(names, string(role))
		}
	}
	return strings.Join(names, ",")
}
