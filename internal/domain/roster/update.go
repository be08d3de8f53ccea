package roster

import "time"

// RankUpdate is the current solo-queue standing from the multisearch
// page. ResolvedName/ResolvedTag carry the canonical riot ID when the
// stored spelling was off.
type RankUpdate struct {
	Tier         string
	Division     *int
	LP           int
	ResolvedName string
	ResolvedTag  string
}

// ChampionsUpdate is the ranked champion breakdown plus season totals.
type ChampionsUpdate struct {
	SeasonGames   int
	SeasonWins    int
	SeasonLosses  int
	SeasonWinrate float64
	Champions     []ChampionStat
}

// HistoryUpdate is past-season data: per-season records plus the derived
// all-time peak and last completed season rank.
type HistoryUpdate struct {
	PreviousSeasonTier *string
	PeakTier           *string
	SeasonHistory      []SeasonRecord
}

// StatsUpdate is the unified scrape result. Each section is optional so
// a partial update from a single source never forces a bespoke type;
// nil sections leave the stored values alone.
type StatsUpdate struct {
	Rank        *RankUpdate
	Champions   *ChampionsUpdate
	History     *HistoryUpdate
	OpggURL     string
	ScrapeError string
	RetrievedAt time.Time
}

// Empty reports whether the update carries no data section at all.
func (u StatsUpdate) Empty() bool {
	return u.Rank == nil && u.Champions == nil && u.History == nil
}

// Merge folds the update into previously stored stats, producing a new
// PlayerStats. prev may be nil. Sections absent from the update keep
// their stored values; a merge never drops data the update does not
// replace.
func (u StatsUpdate) Merge(prev *PlayerStats) *PlayerStats {
	next := PlayerStats{Tier: TierUnranked}
	if prev != nil {
		next = *prev
	}
	next.ManualOverride = false

	at := u.RetrievedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	next.LastUpdated = &at

	if u.Rank != nil {
		next.Tier = u.Rank.Tier
		next.Division = u.Rank.Division
		next.LP = u.Rank.LP
	}
	if u.Champions != nil {
		next.SeasonGames = u.Champions.SeasonGames
		next.SeasonWins = u.Champions.SeasonWins
		next.SeasonLosses = u.Champions.SeasonLosses
		next.SeasonWinrate = u.Champions.SeasonWinrate
		next.Champions = u.Champions.Champions
	}
	if u.History != nil {
		next.PreviousSeasonTier = u.History.PreviousSeasonTier
		next.PeakTier = u.History.PeakTier
		next.SeasonHistory = u.History.SeasonHistory
	}
	if u.OpggURL != "" {
		next.OpggURL = u.OpggURL
	}
	next.ScrapeError = u.ScrapeError

	return &next
}
