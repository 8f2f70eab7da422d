package model

import "sort"

// RankingEntry is one row of the net-savings leaderboard. TotalSaved is the
// net figure (saved minus overpaid) and may be negative.
type RankingEntry struct {
	Nickname      *string `json:"nickname"`
	UserID        string  `json:"user_id"`
	Rank          int     `json:"rank"`
	TotalSaved    int     `json:"total_saved"`
	TotalOverpaid int     `json:"total_overpaid"`
}

// RankingEntries supports sorting a leaderboard snapshot.
type RankingEntries []RankingEntry

// Len implements sort.Interface.
func (r RankingEntries) Len() int { return len(r) }

// Less implements sort.Interface - higher net savings come first. Equal
// values keep their input order; ranking relies on a stable sort so ties
// stay deterministic.
func (r RankingEntries) Less(i, j int) bool {
	return r[i].TotalSaved > r[j].TotalSaved
}

// Swap implements sort.Interface.
func (r RankingEntries) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

// Sort orders the entries by net savings descending, preserving input order
// among ties.
func (r RankingEntries) Sort() {
	sort.Stable(r)
}

// TopN returns the first n entries after sorting.
func (r RankingEntries) TopN(n int) RankingEntries {
	if n <= 0 {
		return RankingEntries{}
	}
	r.Sort()
	if n > len(r) {
		n = len(r)
	}
	result := make(RankingEntries, n)
	copy(result, r[:n])
	return result
}
