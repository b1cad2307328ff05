package repository

import (
	"context"
	"time"

	"github.com/digcfo/stats-service/internal/metrics"
	"github.com/digcfo/stats-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// FinanceDataRepository reads sync-attempt rows from the secondary
// "financedata" source. Errors are surfaced as-is; the service layer decides
// that this source's failure degrades rather than fails the request.
type FinanceDataRepository interface {
	SyncAttempts(ctx context.Context) ([]model.SyncRecord, error)
}

type FinanceDataRepositoryImpl struct {
	db *sqlx.DB
}

func NewFinanceDataRepository(db *sqlx.DB) *FinanceDataRepositoryImpl {
	return &FinanceDataRepositoryImpl{db: db}
}

var _ FinanceDataRepository = (*FinanceDataRepositoryImpl)(nil)

func (r *FinanceDataRepositoryImpl) SyncAttempts(ctx context.Context) ([]model.SyncRecord, error) {
	defer func(start time.Time) {
		metrics.SourceQueryDuration.WithLabelValues("financedata").Observe(time.Since(start).Seconds())
	}(time.Now())

	var rows []model.SyncRecord
	err := r.db.SelectContext(ctx, &rows, `
		SELECT account_id, sync_status, sync_end_utc
		  FROM accounting_system_credential
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
