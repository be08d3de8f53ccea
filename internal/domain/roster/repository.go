package roster

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store lookups and mutations that name a
// team or player the document does not contain.
var ErrNotFound = errors.New("roster: not found")

// ErrStoreFailure marks an I/O failure inside the store, as opposed to
// a validation rejection. The mutation did not take effect.
var ErrStoreFailure = errors.New("roster: store failure")

// NewPlayer is the input for adding a roster entry.
type NewPlayer struct {
	GameName     string
	TagLine      string
	Role         Role
	IsSubstitute bool
}

// TeamUpdate mutates team fields; nil pointers leave fields untouched.
type TeamUpdate struct {
	Name      *string
	SetMyTeam bool
}

// PlayerUpdate mutates identity and role fields; ManualStats replaces
// stored stats wholesale (manual override), RankExtras patches just the
// hand-entered past-rank fields.
type PlayerUpdate struct {
	GameName     *string
	TagLine      *string
	Role         *Role
	IsSubstitute *bool
	ManualStats  *PlayerStats
	RankExtras   *RankExtras
}

// RankExtras are the manually maintained past-rank fields.
type RankExtras struct {
	PreviousSeasonTier *string
	PeakTier           *string
}

// Store is the durable tournament document. Implementations must
// serialize concurrent writers: a batch refresh, a single-player
// refresh, and a manual edit may all land at once, and a write to one
// player must never clobber a concurrent write to another.
type Store interface {
	Tournament(ctx context.Context) (Tournament, error)
	SetSeasonName(ctx context.Context, name string) error

	AddTeam(ctx context.Context, name string) (Team, error)
	UpdateTeam(ctx context.Context, teamID string, update TeamUpdate) (Team, error)
	DeleteTeam(ctx context.Context, teamID string) error
	GetTeam(ctx context.Context, teamID string) (Team, bool, error)

	AddPlayer(ctx context.Context, teamID string, input NewPlayer) (Player, error)
	ClearTeamPlayers(ctx context.Context, teamID string) error
	UpdatePlayer(ctx context.Context, playerID string, update PlayerUpdate) (Player, error)
	DeletePlayer(ctx context.Context, playerID string) error
	GetPlayer(ctx context.Context, playerID string) (Team, Player, bool, error)
	SetPlayerStats(ctx context.Context, playerID string, update StatsUpdate) error
}
