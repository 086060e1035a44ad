package model

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.Valid() {
			t.Errorf("role %s must be valid", r)
		}
	}
	for _, r := range []Role{"", "root", "teacher", "Admin"} {
		if r.Valid() {
			t.Errorf("role %q must not be valid", r)
		}
	}
}

func TestRoleBadge(t *testing.T) {
	badge, err := RoleSuperAdmin.Badge()
	if err != nil {
		t.Fatalf("super_admin badge: %v", err)
	}
	if badge.Label != "Super Administrador" || badge.Color != "red" {
		t.Errorf("unexpected super_admin badge: %+v", badge)
	}

	badge, err = RoleAdmin.Badge()
	if err != nil {
		t.Fatalf("admin badge: %v", err)
	}
	if badge.Label != "Administrador" || badge.Color != "blue" {
		t.Errorf("unexpected admin badge: %+v", badge)
	}
}

func TestRoleBadgeUnknown(t *testing.T) {
	if _, err := Role("auditor").Badge(); err == nil {
		t.Error("unknown role must not get a fallback badge")
	}
}
