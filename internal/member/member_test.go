package member

import (
	"strings"
	"testing"
)

func TestGenerateIDFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if !strings.HasPrefix(id, "PA-") {
			t.Fatalf("expected PA- prefix, got %s", id)
		}
		body := strings.TrimPrefix(id, "PA-")
		if len(body) != 6 {
			t.Fatalf("expected 6 characters after prefix, got %s", id)
		}
		for _, c := range body {
			if !strings.ContainsRune(idAlphabet, c) {
				t.Fatalf("character %q outside alphabet in %s", c, id)
			}
			if strings.ContainsRune("O01I", c) {
				t.Fatalf("confusable character %q in %s", c, id)
			}
		}
	}
}

func TestDeriveRoleCoreTeam(t *testing.T) {
	if role := DeriveRole("Core team", "head", "", ""); role != RoleAdmin {
		t.Fatalf("expected admin for core team head, got %s", role)
	}
	if role := DeriveRole("core", "Executive", "member", ""); role != RoleAdmin {
		t.Fatalf("expected admin for core executive, got %s", role)
	}
	if role := DeriveRole("Core team", "volunteer", "", ""); role != RoleMember {
		t.Fatalf("expected member for unrecognized position, got %s", role)
	}
	if role := DeriveRole("Core team", "volunteer", "leader", ""); role != RoleLeader {
		t.Fatalf("expected requested role to win, got %s", role)
	}
	if role := DeriveRole("Design team", "Lead", "", RoleLeader); role != RoleLeader {
		t.Fatalf("expected current role to be kept, got %s", role)
	}
}

func TestAccessLabel(t *testing.T) {
	cases := map[[2]string]string{
		{"Core team", "head"}:      "Admin",
		{"Core team", "Executive"}: "Admin",
		{"Design team", "Lead"}:    "Lead",
		{"Design team", "lead"}:    "Lead",
		{"Design team", "Co-lead"}: "Co-Lead",
		{"Design team", "colead"}:  "Co-Lead",
		{"Design team", "Member"}:  "Member",
		{"Tech Team", "Tech-Lead"}: "",
		{"Core team", "HEAD"}:      "",
		{"Design team", ""}:        "",
	}
	for in, want := range cases {
		if got := AccessLabel(in[0], in[1]); got != want {
			t.Fatalf("AccessLabel(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
