package model

import "time"

// RoleSource tags which role table a membership row came from.
type RoleSource string

const (
	RoleSourceRegistration RoleSource = "Registration"
	RoleSourcePortal       RoleSource = "Portal"
)

func (s RoleSource) String() string {
	return string(s)
}

func (s RoleSource) Valid() bool {
	return s == RoleSourceRegistration || s == RoleSourcePortal
}

// AccountRow is one non-archived account as read from the registration
// source, with the subscription name and primary-user fields already
// resolved by the query.
type AccountRow struct {
	ID                   string  `db:"id"`
	Name                 string  `db:"name"`
	OrganizationNumber   *int64  `db:"organization_number"`
	SubscriptionName     *string `db:"subscription_name"`
	PrimaryUserEmail     *string `db:"primary_user_email"`
	PrimaryUserName      *string `db:"primary_user_name"`
	IsArchived           *bool   `db:"is_archived"`
	IsActive             *bool   `db:"is_active"`
	RegistrationStatusID *int    `db:"registration_status_id"`
	RegistrationStatus   *string `db:"registration_status"`
}

// MembershipRow is the normalized shape both role tables are mapped into
// before identity resolution. Email is the profile email when the user row
// exists, else the role-table email; UserArchived is nil when no profile
// row exists for the membership.
type MembershipRow struct {
	AccountID        string     `db:"account_id"`
	UserID           *string    `db:"user_id"`
	Email            *string    `db:"email"`
	FullName         *string    `db:"full_name"`
	LastLoginUTC     *time.Time `db:"last_login_utc"`
	RoleSource       RoleSource `db:"role_source"`
	RoleID           *string    `db:"role_id"`
	IsDefaultAccount *bool      `db:"is_default_account"`
	RegisteredAs     *bool      `db:"registered_as"`
	UserArchived     *bool      `db:"user_archived"`
}

// SyncRecord is one accounting-system sync attempt from the finance-data
// source.
type SyncRecord struct {
	AccountID  string     `db:"account_id"`
	SyncStatus *int       `db:"sync_status"`
	SyncEndUTC *time.Time `db:"sync_end_utc"`
}
