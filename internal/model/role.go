package model

import "fmt"

// Role is the closed set of console roles. It determines the privilege an
// invited admin receives on activation and which routes they may call.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
)

// AllRoles lists every assignable role.
var AllRoles = []Role{RoleSuperAdmin, RoleAdmin}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin:
		return true
	}
	return false
}

// RoleBadge is the display projection of a role for the console UI.
type RoleBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Badge maps a role to its display badge. The mapping is exhaustive over the
// closed set; an unrecognized role is an error, never a silent fallback —
// hiding an unknown role behind a default badge would mask a privilege the
// operator cannot see.
func (r Role) Badge() (RoleBadge, error) {
	switch r {
	case RoleSuperAdmin:
		return RoleBadge{Label: "Super Administrador", Color: "red"}, nil
	case RoleAdmin:
		return RoleBadge{Label: "Administrador", Color: "blue"}, nil
	}
	return RoleBadge{}, fmt.Errorf("unknown role %q", string(r))
}
