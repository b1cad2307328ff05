package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/digcfo/stats-service/internal/metrics"
	"github.com/digcfo/stats-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// ErrNoSummaryRow means the aggregate query returned zero rows. The query is
// a row of subselects and always yields exactly one row; zero rows is an
// invariant violation, not an empty result.
var ErrNoSummaryRow = errors.New("aggregate query returned no row")

// RegistrationRepository reads from the primary "registration" source.
// Failures here are fatal for the request; there is no fallback.
type RegistrationRepository interface {
	AggregateCounts(ctx context.Context) (model.StatsSummary, error)
	AccountOverviewRows(ctx context.Context) ([]model.AccountRow, error)
	MembershipRows(ctx context.Context) ([]model.MembershipRow, error)
	AccountByOrganizationNumber(ctx context.Context, organizationNumber int64) (*model.OrganizationLookupResult, error)
	FlagSummariesByNamePrefix(ctx context.Context, namePrefix string) ([]model.DeletedCustomerFlagSummary, error)
}

type RegistrationRepositoryImpl struct {
	db *sqlx.DB
}

func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepositoryImpl {
	return &RegistrationRepositoryImpl{db: db}
}

var _ RegistrationRepository = (*RegistrationRepositoryImpl)(nil)

func observeRegistration(start time.Time) {
	metrics.SourceQueryDuration.WithLabelValues("registration").Observe(time.Since(start).Seconds())
}

// AggregateCounts computes all five platform counters in a single round-trip
// so they describe one consistent snapshot.
func (r *RegistrationRepositoryImpl) AggregateCounts(ctx context.Context) (model.StatsSummary, error) {
	defer observeRegistration(time.Now())

	const q = `
		SELECT
			(SELECT COUNT(*) FROM registration_account
			  WHERE COALESCE(is_archived, 0) = 0)                        AS total_customers,
			(SELECT COUNT(*) FROM registration_account
			  WHERE COALESCE(is_archived, 0) = 0 AND is_active = 1)      AS active_customers,
			(SELECT COUNT(*) FROM registration_user
			  WHERE is_archived = 0)                                     AS total_users,
			(SELECT COUNT(DISTINCT registration_user_id) FROM user_login_history
			  WHERE login_at >= UTC_TIMESTAMP() - INTERVAL 7 DAY)        AS active_users_7d,
			(SELECT COUNT(DISTINCT registration_user_id) FROM user_login_history
			  WHERE login_at >= UTC_TIMESTAMP() - INTERVAL 30 DAY)       AS active_users_30d
	`

	var s model.StatsSummary
	err := r.db.GetContext(ctx, &s, q)
	if err == sql.ErrNoRows {
		return model.StatsSummary{}, ErrNoSummaryRow
	}
	if err != nil {
		return model.StatsSummary{}, err
	}
	return s, nil
}

// AccountOverviewRows returns one row per non-archived account with the
// subscription name and primary-user fields resolved in the query. The
// subscription pick prefers the active subscription, then the most recent by
// end/start date; the label pick prefers the nb/no/en languages before
// falling back to lexicographic language order.
func (r *RegistrationRepositoryImpl) AccountOverviewRows(ctx context.Context) ([]model.AccountRow, error) {
	defer observeRegistration(time.Now())

	const q = `
		WITH active_sub AS (
			SELECT
				ash.account_id,
				ash.subscription_id,
				ROW_NUMBER() OVER (
					PARTITION BY ash.account_id
					ORDER BY ash.is_active DESC, ash.end_date DESC, ash.start_date DESC
				) AS rn
			FROM account_subscription_history ash
		),
		sub_name AS (
			SELECT
				st.subscription_id,
				st.name,
				ROW_NUMBER() OVER (
					PARTITION BY st.subscription_id
					ORDER BY CASE WHEN st.language_id IN ('nb', 'no', 'en') THEN 0 ELSE 1 END, st.language_id
				) AS rn
			FROM subscription_text st
		)
		SELECT
			a.id,
			a.name,
			a.organization_number,
			sn.name                  AS subscription_name,
			pu.email                 AS primary_user_email,
			NULLIF(TRIM(CONCAT(COALESCE(pu.first_name, ''), ' ', COALESCE(pu.last_name, ''))), '')
			                         AS primary_user_name,
			a.is_archived,
			a.is_active,
			a.registration_status_id,
			ras.status               AS registration_status
		FROM registration_account a
		LEFT JOIN active_sub s  ON s.account_id = a.id AND s.rn = 1
		LEFT JOIN sub_name sn   ON sn.subscription_id = s.subscription_id AND sn.rn = 1
		LEFT JOIN registration_user pu ON pu.id = a.primary_user_id
		LEFT JOIN registration_account_status ras ON ras.id = a.registration_status_id
		WHERE COALESCE(a.is_archived, 0) = 0
	`

	var rows []model.AccountRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// registrationRoleRow and portalRoleRow are the two raw role-table shapes.
// Each is mapped into model.MembershipRow by its own function so the
// identity resolver never sees the source differences.

type registrationRoleRow struct {
	AccountID        string     `db:"account_id"`
	UserID           *string    `db:"user_id"`
	UserEmail        *string    `db:"user_email"`
	FullName         *string    `db:"full_name"`
	LastLoginUTC     *time.Time `db:"last_login_utc"`
	RoleID           *string    `db:"role_id"`
	IsDefaultAccount *bool      `db:"is_default_account"`
	RegisteredAs     *bool      `db:"registered_as"`
	UserArchived     *bool      `db:"user_archived"`
}

type portalRoleRow struct {
	AccountID        string     `db:"account_id"`
	UserID           *string    `db:"user_id"`
	UserEmail        *string    `db:"user_email"`
	RoleEmail        *string    `db:"role_email"`
	FullName         *string    `db:"full_name"`
	LastLoginUTC     *time.Time `db:"last_login_utc"`
	RoleID           *string    `db:"role_id"`
	IsDefaultAccount *bool      `db:"is_default_account"`
	RegisteredAs     *bool      `db:"registered_as"`
	UserArchived     *bool      `db:"user_archived"`
}

func mapRegistrationRole(row registrationRoleRow) model.MembershipRow {
	return model.MembershipRow{
		AccountID:        row.AccountID,
		UserID:           row.UserID,
		Email:            row.UserEmail,
		FullName:         row.FullName,
		LastLoginUTC:     row.LastLoginUTC,
		RoleSource:       model.RoleSourceRegistration,
		RoleID:           row.RoleID,
		IsDefaultAccount: row.IsDefaultAccount,
		RegisteredAs:     row.RegisteredAs,
		UserArchived:     row.UserArchived,
	}
}

func mapPortalRole(row portalRoleRow) model.MembershipRow {
	email := row.UserEmail
	if email == nil {
		email = row.RoleEmail
	}
	return model.MembershipRow{
		AccountID:        row.AccountID,
		UserID:           row.UserID,
		Email:            email,
		FullName:         row.FullName,
		LastLoginUTC:     row.LastLoginUTC,
		RoleSource:       model.RoleSourcePortal,
		RoleID:           row.RoleID,
		IsDefaultAccount: row.IsDefaultAccount,
		RegisteredAs:     row.RegisteredAs,
		UserArchived:     row.UserArchived,
	}
}

const membershipSelect = `
	SELECT
		aur.account_id,
		aur.user_id,
		u.email            AS user_email,
		%s
		NULLIF(TRIM(CONCAT(COALESCE(u.first_name, ''), ' ', COALESCE(u.last_name, ''))), '')
		                   AS full_name,
		ull.last_login_utc AS last_login_utc,
		CAST(aur.role_id AS CHAR(64)) AS role_id,
		aur.is_default_account,
		aur.registered_as,
		u.is_archived      AS user_archived
	FROM %s aur
	JOIN registration_account a ON a.id = aur.account_id
	LEFT JOIN registration_user u ON u.id = aur.user_id
	LEFT JOIN (
		SELECT registration_user_id, MAX(login_at) AS last_login_utc
		FROM user_login_history
		GROUP BY registration_user_id
	) ull ON ull.registration_user_id = aur.user_id
	WHERE COALESCE(a.is_archived, 0) = 0
`

// MembershipRows unions both role tables into the normalized shape. Archived
// and identity-less rows are returned as-is; dropping them is the identity
// resolver's job.
func (r *RegistrationRepositoryImpl) MembershipRows(ctx context.Context) ([]model.MembershipRow, error) {
	defer observeRegistration(time.Now())

	// Table names and the extra column are compile-time constants; only the
	// two shapes differ, the portal table carrying its own email column.
	regQuery := fmt.Sprintf(membershipSelect, "", "registration_account_user_role")
	portalQuery := fmt.Sprintf(membershipSelect, "aur.email AS role_email,", "portal_account_user_role")

	var regRows []registrationRoleRow
	if err := r.db.SelectContext(ctx, &regRows, regQuery); err != nil {
		return nil, err
	}

	var portalRows []portalRoleRow
	if err := r.db.SelectContext(ctx, &portalRows, portalQuery); err != nil {
		return nil, err
	}

	out := make([]model.MembershipRow, 0, len(regRows)+len(portalRows))
	for _, row := range regRows {
		out = append(out, mapRegistrationRole(row))
	}
	for _, row := range portalRows {
		out = append(out, mapPortalRole(row))
	}
	return out, nil
}

func (r *RegistrationRepositoryImpl) AccountByOrganizationNumber(ctx context.Context, organizationNumber int64) (*model.OrganizationLookupResult, error) {
	defer observeRegistration(time.Now())

	var res model.OrganizationLookupResult
	err := r.db.GetContext(ctx, &res, `
		SELECT id, name, organization_number, is_archived, is_active
		  FROM registration_account
		 WHERE organization_number = ? LIMIT 1
	`, organizationNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// FlagSummariesByNamePrefix groups accounts whose name starts with the given
// prefix by their raw flag combination. The prefix is bound as a parameter,
// never spliced into the query text.
func (r *RegistrationRepositoryImpl) FlagSummariesByNamePrefix(ctx context.Context, namePrefix string) ([]model.DeletedCustomerFlagSummary, error) {
	defer observeRegistration(time.Now())

	const q = `
		SELECT
			a.is_archived,
			a.is_active,
			a.registration_status_id,
			ras.status AS registration_status,
			COUNT(*)   AS cnt
		FROM registration_account a
		LEFT JOIN registration_account_status ras ON ras.id = a.registration_status_id
		WHERE a.name LIKE CONCAT(?, '%')
		GROUP BY a.is_archived, a.is_active, a.registration_status_id, ras.status
		ORDER BY cnt DESC
	`

	var rows []model.DeletedCustomerFlagSummary
	if err := r.db.SelectContext(ctx, &rows, q, namePrefix); err != nil {
		return nil, err
	}
	return rows, nil
}
