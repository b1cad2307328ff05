package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/digcfo/stats-service/internal/model"
)

// userAccumulator folds all membership rows sharing one identity key within
// an account. Field merge is first-non-nil-wins except the login timestamp,
// which keeps the maximum observed value.
type userAccumulator struct {
	userID       *string
	email        *string
	fullName     *string
	lastLoginUTC *time.Time
	roles        map[string]string // lower-cased label -> first-seen casing
}

func newUserAccumulator() *userAccumulator {
	return &userAccumulator{roles: make(map[string]string)}
}

func (u *userAccumulator) absorb(row model.MembershipRow) {
	if u.userID == nil {
		u.userID = row.UserID
	}
	if u.email == nil {
		u.email = row.Email
	}
	if u.fullName == nil {
		u.fullName = row.FullName
	}
	if row.LastLoginUTC != nil && (u.lastLoginUTC == nil || row.LastLoginUTC.After(*u.lastLoginUTC)) {
		u.lastLoginUTC = row.LastLoginUTC
	}

	label := BuildRoleLabel(row.RoleSource, row.RoleID, row.IsDefaultAccount, row.RegisteredAs)
	if strings.TrimSpace(label) == "" {
		return
	}
	lower := strings.ToLower(label)
	if _, ok := u.roles[lower]; !ok {
		u.roles[lower] = label
	}
}

func (u *userAccumulator) build() model.CustomerUser {
	roles := make([]string, 0, len(u.roles))
	for _, label := range u.roles {
		roles = append(roles, label)
	}
	sort.Slice(roles, func(i, j int) bool {
		return strings.ToLower(roles[i]) < strings.ToLower(roles[j])
	})

	return model.CustomerUser{
		UserID:       u.userID,
		Email:        u.email,
		FullName:     u.fullName,
		LastLoginUTC: u.lastLoginUTC,
		Roles:        roles,
	}
}

// stableID returns the lower-cased stable user id of a row, or "" when it
// has none. Keys compare case-insensitively, so ids are folded to lower
// case before use.
func stableID(row model.MembershipRow) string {
	if row.UserID == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*row.UserID))
}

// syntheticKey returns the normalized email acting as the row's identity
// when no stable id exists. A blank result means the row carries no
// identity at all.
func syntheticKey(row model.MembershipRow) string {
	if row.Email == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*row.Email))
}

// ResolveUsers reconciles membership rows from both role sources into one
// deduplicated user list per account. Rows with no identity and rows whose
// profile is archived are dropped; everything else degrades to partial data
// rather than failing.
//
// Resolution runs in two passes so the result does not depend on row order:
// rows carrying a stable id are folded first and register their email as an
// alias for that id; id-less rows then merge into the aliased user when
// their normalized email matches one, and key on the email itself
// otherwise.
func ResolveUsers(rows []model.MembershipRow) map[string][]model.CustomerUser {
	grouped := make(map[string]map[string]*userAccumulator)
	emailAlias := make(map[string]map[string]string) // account -> email -> id key

	absorb := func(accountID, key string, row model.MembershipRow) {
		accountUsers, ok := grouped[accountID]
		if !ok {
			accountUsers = make(map[string]*userAccumulator)
			grouped[accountID] = accountUsers
		}
		acc, ok := accountUsers[key]
		if !ok {
			acc = newUserAccumulator()
			accountUsers[key] = acc
		}
		acc.absorb(row)
	}

	for _, row := range rows {
		if row.UserArchived != nil && *row.UserArchived {
			continue
		}
		id := stableID(row)
		if id == "" {
			continue
		}
		absorb(row.AccountID, id, row)

		if email := syntheticKey(row); email != "" {
			aliases, ok := emailAlias[row.AccountID]
			if !ok {
				aliases = make(map[string]string)
				emailAlias[row.AccountID] = aliases
			}
			if _, claimed := aliases[email]; !claimed {
				aliases[email] = id
			}
		}
	}

	for _, row := range rows {
		if row.UserArchived != nil && *row.UserArchived {
			continue
		}
		if stableID(row) != "" {
			continue
		}
		key := syntheticKey(row)
		if key == "" {
			continue
		}
		if id, ok := emailAlias[row.AccountID][key]; ok {
			key = id
		}
		absorb(row.AccountID, key, row)
	}

	out := make(map[string][]model.CustomerUser, len(grouped))
	for accountID, accountUsers := range grouped {
		type keyed struct {
			key  string
			user model.CustomerUser
		}
		users := make([]keyed, 0, len(accountUsers))
		for key, acc := range accountUsers {
			users = append(users, keyed{key: key, user: acc.build()})
		}
		sort.Slice(users, func(i, j int) bool {
			a, b := userSortName(users[i].user), userSortName(users[j].user)
			if a != b {
				return a < b
			}
			return users[i].key < users[j].key
		})

		list := make([]model.CustomerUser, 0, len(users))
		for _, k := range users {
			list = append(list, k.user)
		}
		out[accountID] = list
	}
	return out
}

func userSortName(u model.CustomerUser) string {
	switch {
	case u.Email != nil:
		return strings.ToLower(*u.Email)
	case u.FullName != nil:
		return strings.ToLower(*u.FullName)
	default:
		return ""
	}
}
