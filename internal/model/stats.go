package model

import "time"

// StatsSummary is a single snapshot of the platform-wide counters.
// Regenerated on every request, never cached.
type StatsSummary struct {
	TotalCustomers  int       `db:"total_customers" json:"totalCustomers"`
	ActiveCustomers int       `db:"active_customers" json:"activeCustomers"`
	TotalUsers      int       `db:"total_users" json:"totalUsers"`
	ActiveUsers7d   int       `db:"active_users_7d" json:"activeUsers7d"`
	ActiveUsers30d  int       `db:"active_users_30d" json:"activeUsers30d"`
	GeneratedAtUTC  time.Time `db:"-" json:"generatedAtUtc"`
}

// CustomerOverview is the fully composed per-account record. Built fresh per
// request from account, subscription, membership and sync data.
type CustomerOverview struct {
	AccountID            string         `json:"accountId"`
	CustomerName         string         `json:"customerName"`
	OrganizationNumber   *int64         `json:"organizationNumber"`
	SubscriptionName     *string        `json:"subscriptionName"`
	UsersCount           int            `json:"usersCount"`
	LastLoginUTC         *time.Time     `json:"lastLoginUtc"`
	PrimaryUserEmail     *string        `json:"primaryUserEmail"`
	PrimaryUserName      *string        `json:"primaryUserName"`
	IsDeleted            bool           `json:"isDeleted"`
	IsDisabled           bool           `json:"isDisabled"`
	IsActive             *bool          `json:"isActive"`
	RegistrationStatusID *int           `json:"registrationStatusId"`
	RegistrationStatus   *string        `json:"registrationStatus"`
	LastSyncStatus       *int           `json:"lastSyncStatus"`
	LastSyncEndUTC       *time.Time     `json:"lastSyncEndUtc"`
	Users                []CustomerUser `json:"users"`
}

// CustomerUser is one logical user of an account after identity dedup.
// UserID is nil when the user exists only via a synthetic email identity.
type CustomerUser struct {
	UserID       *string    `json:"userId"`
	Email        *string    `json:"email"`
	FullName     *string    `json:"fullName"`
	LastLoginUTC *time.Time `json:"lastLoginUtc"`
	Roles        []string   `json:"roles"`
}

type OrganizationLookupResult struct {
	AccountID          string  `db:"id" json:"accountId"`
	CustomerName       *string `db:"name" json:"customerName"`
	OrganizationNumber int64   `db:"organization_number" json:"organizationNumber"`
	IsArchived         *bool   `db:"is_archived" json:"isArchived"`
	IsActive           *bool   `db:"is_active" json:"isActive"`
}

// DeletedCustomerFlagSummary groups accounts matching a name prefix by their
// raw flag combination, with the number of accounts in each group.
type DeletedCustomerFlagSummary struct {
	IsArchived           *bool   `db:"is_archived" json:"isArchived"`
	IsActive             *bool   `db:"is_active" json:"isActive"`
	RegistrationStatusID *int    `db:"registration_status_id" json:"registrationStatusId"`
	RegistrationStatus   *string `db:"registration_status" json:"registrationStatus"`
	Count                int     `db:"cnt" json:"count"`
}
