package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/digcfo/stats-service/internal/model"
	"github.com/digcfo/stats-service/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service exposes the read-only stats operations to the HTTP layer.
type Service interface {
	Summary(ctx context.Context) (model.StatsSummary, error)
	Customers(ctx context.Context) ([]model.CustomerOverview, error)
	LookupOrganization(ctx context.Context, organizationNumber int64) (*model.OrganizationLookupResult, error)
	DeletedFlagSummaries(ctx context.Context, namePrefix string) ([]model.DeletedCustomerFlagSummary, error)
}

type ServiceImpl struct {
	registration repository.RegistrationRepository
	financeData  repository.FinanceDataRepository
	log          *zap.Logger
}

func NewService(registration repository.RegistrationRepository, financeData repository.FinanceDataRepository, log *zap.Logger) *ServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ServiceImpl{registration: registration, financeData: financeData, log: log}
}

var _ Service = (*ServiceImpl)(nil)

// Summary returns the five platform counters stamped with the generation
// time.
func (s *ServiceImpl) Summary(ctx context.Context) (model.StatsSummary, error) {
	summary, err := s.registration.AggregateCounts(ctx)
	if err != nil {
		return model.StatsSummary{}, fmt.Errorf("aggregate counts: %w", err)
	}
	summary.GeneratedAtUTC = time.Now().UTC()
	return summary, nil
}

// Customers acquires account, membership and sync rows concurrently, then
// composes one overview per non-archived account. Registration-source
// failures are fatal; a finance-data failure degrades to nil sync fields.
func (s *ServiceImpl) Customers(ctx context.Context) ([]model.CustomerOverview, error) {
	var (
		accounts    []model.AccountRow
		memberships []model.MembershipRow
		syncLookup  SyncLookup
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.registration.AccountOverviewRows(gctx)
		if err != nil {
			return fmt.Errorf("account rows: %w", err)
		}
		accounts = rows
		return nil
	})

	g.Go(func() error {
		rows, err := s.registration.MembershipRows(gctx)
		if err != nil {
			return fmt.Errorf("membership rows: %w", err)
		}
		memberships = rows
		return nil
	})

	g.Go(func() error {
		records, err := s.financeData.SyncAttempts(gctx)
		if err != nil {
			// Absence of sync data never blocks the overview.
			s.log.Warn("financedata source unavailable, sync fields degraded", zap.Error(err))
			syncLookup = DegradedSyncLookup()
			return nil
		}
		syncLookup = MergeSyncAttempts(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComposeOverviews(accounts, ResolveUsers(memberships), syncLookup), nil
}

func (s *ServiceImpl) LookupOrganization(ctx context.Context, organizationNumber int64) (*model.OrganizationLookupResult, error) {
	res, err := s.registration.AccountByOrganizationNumber(ctx, organizationNumber)
	if err != nil {
		return nil, fmt.Errorf("organization lookup: %w", err)
	}
	return res, nil
}

func (s *ServiceImpl) DeletedFlagSummaries(ctx context.Context, namePrefix string) ([]model.DeletedCustomerFlagSummary, error) {
	rows, err := s.registration.FlagSummariesByNamePrefix(ctx, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("flag summaries: %w", err)
	}
	return rows, nil
}

// ComposeOverviews joins the acquired row sets into the final per-account
// records. Missing joins default to zero users, an empty user list and nil
// sync/subscription fields. Output is ordered by customer name,
// case-insensitively.
func ComposeOverviews(accounts []model.AccountRow, usersByAccount map[string][]model.CustomerUser, syncLookup SyncLookup) []model.CustomerOverview {
	out := make([]model.CustomerOverview, 0, len(accounts))

	for _, a := range accounts {
		users := usersByAccount[a.ID]
		if users == nil {
			users = []model.CustomerUser{}
		}

		var lastLogin *time.Time
		for _, u := range users {
			if u.LastLoginUTC != nil && (lastLogin == nil || u.LastLoginUTC.After(*lastLogin)) {
				lastLogin = u.LastLoginUTC
			}
		}

		flags := DeriveStatus(a.IsArchived, a.IsActive, a.RegistrationStatus)

		overview := model.CustomerOverview{
			AccountID:            a.ID,
			CustomerName:         a.Name,
			OrganizationNumber:   a.OrganizationNumber,
			SubscriptionName:     a.SubscriptionName,
			UsersCount:           len(users),
			LastLoginUTC:         lastLogin,
			PrimaryUserEmail:     a.PrimaryUserEmail,
			PrimaryUserName:      a.PrimaryUserName,
			IsDeleted:            flags.IsDeleted,
			IsDisabled:           flags.IsDisabled,
			IsActive:             a.IsActive,
			RegistrationStatusID: a.RegistrationStatusID,
			RegistrationStatus:   a.RegistrationStatus,
			Users:                users,
		}

		if rec, ok := syncLookup.ByAccount[a.ID]; ok {
			overview.LastSyncStatus = rec.SyncStatus
			overview.LastSyncEndUTC = rec.SyncEndUTC
		}

		out = append(out, overview)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].CustomerName) < strings.ToLower(out[j].CustomerName)
	})
	return out
}
