package stats

import (
	"testing"
	"time"

	"github.com/digcfo/stats-service/internal/model"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }
func timep(t time.Time) *time.Time {
	return &t
}

func TestResolveUsersMergesByStableID(t *testing.T) {
	rows := []model.MembershipRow{
		{
			AccountID:  "acc-1",
			UserID:     strp("u1"),
			Email:      strp("a@x.com"),
			RoleSource: model.RoleSourceRegistration,
			RoleID:     strp("1"),
		},
		{
			AccountID:  "acc-1",
			UserID:     strp("u1"),
			RoleSource: model.RoleSourcePortal,
			RoleID:     strp("2"),
		},
	}

	users := ResolveUsers(rows)["acc-1"]
	if len(users) != 1 {
		t.Fatalf("expected 1 merged user, got %d", len(users))
	}
	u := users[0]
	if u.Email == nil || *u.Email != "a@x.com" {
		t.Fatalf("expected email from first row to survive, got %v", u.Email)
	}
	if len(u.Roles) != 2 {
		t.Fatalf("expected roles from both rows, got %v", u.Roles)
	}
}

func TestResolveUsersMergesBySyntheticEmail(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", Email: strp("A@X.com "), RoleSource: model.RoleSourceRegistration, RoleID: strp("1")},
		{AccountID: "acc-1", Email: strp(" a@x.com"), RoleSource: model.RoleSourcePortal, RoleID: strp("3")},
	}

	users := ResolveUsers(rows)["acc-1"]
	if len(users) != 1 {
		t.Fatalf("expected case/whitespace-insensitive email merge, got %d users", len(users))
	}
}

func TestResolveUsersStableIDCaseInsensitive(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-x", UserID: strp("U1"), Email: strp("a@x.com"), RoleSource: model.RoleSourceRegistration, RoleID: strp("1")},
		{AccountID: "acc-x", UserID: strp("u1"), RoleSource: model.RoleSourcePortal, RoleID: strp("2")},
	}

	users := ResolveUsers(rows)["acc-x"]
	if len(users) != 1 {
		t.Fatalf("expected id keys to compare case-insensitively, got %d users", len(users))
	}
	if len(users[0].Roles) != 2 {
		t.Fatalf("expected two distinct role labels, got %v", users[0].Roles)
	}
}

func TestResolveUsersSyntheticIdentityFoldsIntoStableUser(t *testing.T) {
	// Account X: one row via the registration source with stable id U1 and
	// email a@x.com, one via the portal source with no stable id but the
	// same email. One logical user, roles from both rows.
	rows := []model.MembershipRow{
		{AccountID: "acc-x", UserID: strp("U1"), Email: strp("a@x.com"), RoleSource: model.RoleSourceRegistration, RoleID: strp("1")},
		{AccountID: "acc-x", Email: strp("A@x.com"), RoleSource: model.RoleSourcePortal, RoleID: strp("2")},
	}

	users := ResolveUsers(rows)["acc-x"]
	if len(users) != 1 {
		t.Fatalf("expected synthetic identity to fold into the stable user, got %d users", len(users))
	}
	u := users[0]
	if u.Email == nil || *u.Email != "a@x.com" {
		t.Fatalf("expected email a@x.com, got %v", u.Email)
	}
	if u.UserID == nil {
		t.Fatalf("expected the stable id to survive the merge")
	}
	if len(u.Roles) != 2 {
		t.Fatalf("expected two distinct role labels, got %v", u.Roles)
	}
}

func TestResolveUsersSyntheticFoldIsOrderIndependent(t *testing.T) {
	idRow := model.MembershipRow{AccountID: "acc-x", UserID: strp("u1"), Email: strp("a@x.com"), RoleSource: model.RoleSourceRegistration, RoleID: strp("1")}
	emailRow := model.MembershipRow{AccountID: "acc-x", Email: strp("a@x.com"), RoleSource: model.RoleSourcePortal, RoleID: strp("2")}

	forward := ResolveUsers([]model.MembershipRow{idRow, emailRow})["acc-x"]
	reverse := ResolveUsers([]model.MembershipRow{emailRow, idRow})["acc-x"]

	if len(forward) != 1 || len(reverse) != 1 {
		t.Fatalf("expected one user regardless of row order, got %d and %d", len(forward), len(reverse))
	}
	if len(forward[0].Roles) != len(reverse[0].Roles) {
		t.Fatalf("expected identical role sets, got %v and %v", forward[0].Roles, reverse[0].Roles)
	}
}

func TestResolveUsersDropsRowsWithoutIdentity(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", RoleSource: model.RoleSourceRegistration, RoleID: strp("1")},
		{AccountID: "acc-1", Email: strp("   "), RoleSource: model.RoleSourcePortal},
	}

	if got := ResolveUsers(rows); len(got["acc-1"]) != 0 {
		t.Fatalf("expected identity-less rows to be dropped, got %v", got["acc-1"])
	}
}

func TestResolveUsersDropsArchivedProfiles(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", UserID: strp("u1"), UserArchived: boolp(true), RoleSource: model.RoleSourceRegistration},
		{AccountID: "acc-1", UserID: strp("u2"), UserArchived: boolp(false), RoleSource: model.RoleSourceRegistration},
		{AccountID: "acc-1", UserID: strp("u3"), RoleSource: model.RoleSourcePortal},
	}

	users := ResolveUsers(rows)["acc-1"]
	if len(users) != 2 {
		t.Fatalf("expected archived profile excluded and profile-less row kept, got %d users", len(users))
	}
}

func TestResolveUsersTakesMaxLastLogin(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := []model.MembershipRow{
		{AccountID: "acc-1", UserID: strp("u1"), LastLoginUTC: timep(t2), RoleSource: model.RoleSourceRegistration},
		{AccountID: "acc-1", UserID: strp("u1"), LastLoginUTC: timep(t1), RoleSource: model.RoleSourcePortal},
		{AccountID: "acc-1", UserID: strp("u1"), RoleSource: model.RoleSourcePortal},
	}

	users := ResolveUsers(rows)["acc-1"]
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].LastLoginUTC == nil || !users[0].LastLoginUTC.Equal(t2) {
		t.Fatalf("expected max last login %v, got %v", t2, users[0].LastLoginUTC)
	}
}

func TestResolveUsersDeduplicatesRolesCaseInsensitively(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", UserID: strp("u1"), RoleSource: model.RoleSourceRegistration, RoleID: strp("1")},
		{AccountID: "acc-1", UserID: strp("u1"), RoleSource: model.RoleSourceRegistration, RoleID: strp("302C99E3-E66C-4BCA-B2C9-47D70D8D55C8")},
	}

	// Both rows render "Registration: Eier".
	users := ResolveUsers(rows)["acc-1"]
	if len(users[0].Roles) != 1 {
		t.Fatalf("expected identical labels to collapse, got %v", users[0].Roles)
	}
}

func TestResolveUsersOrdering(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", UserID: strp("u3"), FullName: strp("Bob Builder"), RoleSource: model.RoleSourceRegistration},
		{AccountID: "acc-1", UserID: strp("u1"), Email: strp("zed@x.com"), RoleSource: model.RoleSourceRegistration},
		{AccountID: "acc-1", UserID: strp("u2"), Email: strp("Ann@x.com"), RoleSource: model.RoleSourceRegistration},
	}

	users := ResolveUsers(rows)["acc-1"]
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	// Ordered by email, else full name, case-insensitively.
	if *users[0].Email != "Ann@x.com" {
		t.Fatalf("expected Ann first, got %v", users[0].Email)
	}
	if users[1].FullName == nil || *users[1].FullName != "Bob Builder" {
		t.Fatalf("expected name-only user second, got %+v", users[1])
	}
	if *users[2].Email != "zed@x.com" {
		t.Fatalf("expected zed last, got %v", users[2].Email)
	}
}

func TestResolveUsersRolesSorted(t *testing.T) {
	rows := []model.MembershipRow{
		{AccountID: "acc-1", UserID: strp("u1"), RoleSource: model.RoleSourcePortal, RoleID: strp("2")},
		{AccountID: "acc-1", UserID: strp("u1"), RoleSource: model.RoleSourceRegistration, RoleID: strp("3")},
	}

	users := ResolveUsers(rows)["acc-1"]
	roles := users[0].Roles
	if len(roles) != 2 || roles[0] != "Portal: Medlem" || roles[1] != "Registration: Investor" {
		t.Fatalf("expected lexicographic role order, got %v", roles)
	}
}
