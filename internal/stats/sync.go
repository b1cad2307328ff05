package stats

import "github.com/digcfo/stats-service/internal/model"

// SyncLookup is the merged sync state per account. Degraded marks the
// mapping as empty because the finance-data source could not be read; the
// overview still composes, with nil sync fields for every account.
type SyncLookup struct {
	ByAccount map[string]model.SyncRecord
	Degraded  bool
}

// MergeSyncAttempts keeps, per account, the record with the latest end
// timestamp. Records without an end timestamp lose to any timestamped one;
// on an exact tie the earliest record in slice order wins, which is
// deterministic for a given query result.
func MergeSyncAttempts(records []model.SyncRecord) SyncLookup {
	byAccount := make(map[string]model.SyncRecord, len(records))
	for _, rec := range records {
		cur, ok := byAccount[rec.AccountID]
		if !ok || endsAfter(rec, cur) {
			byAccount[rec.AccountID] = rec
		}
	}
	return SyncLookup{ByAccount: byAccount}
}

// DegradedSyncLookup is the empty result substituted when the finance-data
// source is unreachable.
func DegradedSyncLookup() SyncLookup {
	return SyncLookup{ByAccount: make(map[string]model.SyncRecord), Degraded: true}
}

func endsAfter(a, b model.SyncRecord) bool {
	if a.SyncEndUTC == nil {
		return false
	}
	if b.SyncEndUTC == nil {
		return true
	}
	return a.SyncEndUTC.After(*b.SyncEndUTC)
}
