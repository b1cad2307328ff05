package stats

import (
	"testing"

	"github.com/digcfo/stats-service/internal/model"
)

func TestBuildRoleLabelKnownCodes(t *testing.T) {
	cases := []struct {
		roleID string
		want   string
	}{
		{"1", "Registration: Eier"},
		{"2", "Registration: Medlem"},
		{"3", "Registration: Investor"},
		{"302c99e3-e66c-4bca-b2c9-47d70d8d55c8", "Registration: Eier"},
		{"7DCE6E4E-C17E-43EF-9E73-3A780D52C927", "Registration: Regnskapsfører"},
		{"8EAF290D-1ED8-4199-857A-18EAC7DC4711", "Registration: Styremedlem"},
	}

	for _, tc := range cases {
		got := BuildRoleLabel(model.RoleSourceRegistration, strp(tc.roleID), nil, nil)
		if got != tc.want {
			t.Fatalf("BuildRoleLabel(%q) = %q, want %q", tc.roleID, got, tc.want)
		}
	}
}

func TestBuildRoleLabelUnknownCodeFallback(t *testing.T) {
	if got := BuildRoleLabel(model.RoleSourcePortal, strp("42"), nil, nil); got != "Portal: RoleId 42" {
		t.Fatalf("unexpected fallback label %q", got)
	}
	if got := BuildRoleLabel(model.RoleSourcePortal, nil, nil, nil); got != "Portal: RoleId ukjent" {
		t.Fatalf("unexpected nil-code label %q", got)
	}
}

func TestBuildRoleLabelFlags(t *testing.T) {
	got := BuildRoleLabel(model.RoleSourceRegistration, strp("1"), boolp(true), boolp(true))
	if got != "Registration: Eier [Default, RegisteredAs]" {
		t.Fatalf("unexpected flagged label %q", got)
	}

	got = BuildRoleLabel(model.RoleSourceRegistration, strp("1"), boolp(false), nil)
	if got != "Registration: Eier" {
		t.Fatalf("false/nil flags must not render, got %q", got)
	}
}

func TestBuildRoleLabelBlankSource(t *testing.T) {
	if got := BuildRoleLabel(model.RoleSource(""), strp("1"), nil, nil); got != "Unknown: Eier" {
		t.Fatalf("expected Unknown source fallback, got %q", got)
	}
}
