package enums

import "testing"

func TestUserRoleValues(t *testing.T) {
	cases := map[UserRole]string{
		UserRoleStudent:    "STUDENT",
		UserRoleAdmin:      "ADMIN",
		UserRoleSuperAdmin: "SUPER_ADMIN",
	}
	for role, want := range cases {
		if role.String() != want {
			t.Fatalf("unexpected wire value %q for %q", role.String(), want)
		}
		if !role.IsValid() {
			t.Fatalf("role %q should be valid", role)
		}
	}
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("SUPER_ADMIN")
	if err != nil {
		t.Fatalf("ParseUserRole: %v", err)
	}
	if role != UserRoleSuperAdmin {
		t.Fatalf("unexpected role %q", role)
	}

	if _, err := ParseUserRole("MODERATOR"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if UserRole("MODERATOR").IsValid() {
		t.Fatal("unknown role should not be valid")
	}
}
