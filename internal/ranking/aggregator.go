// Package ranking turns savings-record snapshots into a net-savings
// leaderboard.
package ranking

import (
	"log/slog"

	"github.com/okaimono/sage/internal/model"
)

// Result is one leaderboard computation: the public top-N window plus the
// requester's own standing, located even when outside that window.
type Result struct {
	MyRank          *int
	MyNickname      *string
	Rankings        model.RankingEntries
	MyTotalSaved    int
	MyTotalOverpaid int
}

// Rank aggregates a full snapshot of savings records into a leaderboard.
// Per user, net saved is the sum of saved amounts minus the sum of overpaid
// amounts across all records. Users sort by net saved descending; ties keep
// first-encounter input order and receive distinct sequential ranks.
// Malformed records are skipped, never fatal. Nicknames are optional;
// unknown users rank with a nil nickname.
func Rank(records []model.SavingsRecord, nicknames map[string]*string, requester string, limit int) Result {
	totals := make(map[string]*model.RankingEntry)
	order := make([]string, 0, len(records))

	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			slog.Debug("Skipping malformed savings record", "index", i, "error", err)
			continue
		}

		entry, ok := totals[rec.UserID]
		if !ok {
			entry = &model.RankingEntry{
				UserID:   rec.UserID,
				Nickname: nicknames[rec.UserID],
			}
			totals[rec.UserID] = entry
			order = append(order, rec.UserID)
		}
		entry.TotalSaved += rec.TotalSavedAmount - rec.TotalOverpaidAmount
		entry.TotalOverpaid += rec.TotalOverpaidAmount
	}

	entries := make(model.RankingEntries, 0, len(order))
	for _, uid := range order {
		entries = append(entries, *totals[uid])
	}
	entries.Sort()

	result := Result{}
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].UserID == requester {
			rank := entries[i].Rank
			result.MyRank = &rank
			result.MyNickname = entries[i].Nickname
			result.MyTotalSaved = entries[i].TotalSaved
			result.MyTotalOverpaid = entries[i].TotalOverpaid
		}
	}

	if limit < 0 {
		limit = 0
	}
	if limit > len(entries) {
		limit = len(entries)
	}
	result.Rankings = entries[:limit]

	return result
}
