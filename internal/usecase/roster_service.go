package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/infrastructure/scrape"
)

// RosterService owns tournament and roster CRUD. All reads and writes
// go through the roster store; the service adds input validation and
// the multi-player import rules on top.
type RosterService struct {
	store roster.Store
}

func NewRosterService(store roster.Store) *RosterService {
	return &RosterService{store: store}
}

func (s *RosterService) Tournament(ctx context.Context) (roster.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.Tournament")
	defer span.End()

	doc, err := s.store.Tournament(ctx)
	if err != nil {
		return roster.Tournament{}, fmt.Errorf("load tournament: %w", err)
	}
	return doc, nil
}

func (s *RosterService) SetSeasonName(ctx context.Context, name string) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.SetSeasonName")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}
	if err := s.store.SetSeasonName(ctx, name); err != nil {
		return fmt.Errorf("%w: set season name: %v", ErrStoreFailure, err)
	}
	return nil
}

func (s *RosterService) CreateTeam(ctx context.Context, name string) (roster.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.CreateTeam")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return roster.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	team, err := s.store.AddTeam(ctx, name)
	if err != nil {
		return roster.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return team, nil
}

func (s *RosterService) UpdateTeam(ctx context.Context, teamID string, update roster.TeamUpdate) (roster.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.UpdateTeam")
	defer span.End()

	team, err := s.store.UpdateTeam(ctx, teamID, update)
	if err != nil {
		return roster.Team{}, mapStoreError(err, "team", teamID)
	}
	return team, nil
}

func (s *RosterService) DeleteTeam(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.DeleteTeam")
	defer span.End()

	if err := s.store.DeleteTeam(ctx, teamID); err != nil {
		return mapStoreError(err, "team", teamID)
	}
	return nil
}

func (s *RosterService) GetTeam(ctx context.Context, teamID string) (roster.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetTeam")
	defer span.End()

	team, ok, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return roster.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return roster.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return team, nil
}

// ImportPlayersInput adds players to a team from pasted input.
type ImportPlayersInput struct {
	TeamID string
	// PlayerInput is a riot ID, a name-tag slug, or an op.gg multisearch
	// link holding several players.
	PlayerInput string
	// Role applies when roles are not auto-assigned. Empty means fill.
	Role         string
	IsSubstitute bool
	// Overwrite clears the team's roster before adding.
	Overwrite bool
}

// ImportPlayers parses the input and adds every player found. When the
// input yields a full team of five or more, the first five get lane
// roles in the standard top/jungle/mid/bot/support order.
func (s *RosterService) ImportPlayers(ctx context.Context, input ImportPlayersInput) ([]roster.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.ImportPlayers")
	defer span.End()

	if strings.TrimSpace(input.TeamID) == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	identities, err := scrape.ParsePlayerInput(input.PlayerInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	defaultRole := roster.RoleFill
	if input.Role != "" {
		defaultRole, err = roster.ParseRole(input.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if input.Overwrite {
		if err := s.store.ClearTeamPlayers(ctx, input.TeamID); err != nil {
			return nil, mapStoreError(err, "team", input.TeamID)
		}
	}

	added := make([]roster.Player, 0, len(identities))
	for i, identity := range identities {
		role := defaultRole
		if len(identities) >= len(roster.RoleOrder) && i < len(roster.RoleOrder) {
			role = roster.RoleOrder[i]
		}

		player, err := s.store.AddPlayer(ctx, input.TeamID, roster.NewPlayer{
			GameName:     identity.GameName,
			TagLine:      identity.TagLine,
			Role:         role,
			IsSubstitute: input.IsSubstitute,
		})
		if err != nil {
			return nil, mapStoreError(err, "team", input.TeamID)
		}
		added = append(added, player)
	}

	return added, nil
}

// ParsePlayerInput exposes the import parser for the preview endpoint.
func (s *RosterService) ParsePlayerInput(input string) ([]scrape.Identity, error) {
	identities, err := scrape.ParsePlayerInput(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return identities, nil
}

// UpdatePlayerInput patches a player. Nil fields stay untouched.
type UpdatePlayerInput struct {
	GameName     *string
	TagLine      *string
	Role         *string
	IsSubstitute *bool
	// ManualStats replaces the player's stats wholesale with hand-entered
	// values. Winrate is recomputed from games and wins.
	ManualStats *ManualStats
	// RankExtras patches just the hand-maintained past-rank fields,
	// leaving scraped data alone.
	RankExtras *roster.RankExtras
}

// ManualStats is the hand-entered subset of player stats, for players
// the scraper cannot see (wrong region, private, smurf).
type ManualStats struct {
	Tier         string
	Division     *int
	LP           int
	SeasonGames  int
	SeasonWins   int
	SeasonLosses int
	Champions    []roster.ChampionStat
	Masteries    []roster.Mastery
}

func (s *RosterService) UpdatePlayer(ctx context.Context, playerID string, input UpdatePlayerInput) (roster.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.UpdatePlayer")
	defer span.End()

	update := roster.PlayerUpdate{
		GameName:     input.GameName,
		TagLine:      input.TagLine,
		IsSubstitute: input.IsSubstitute,
		RankExtras:   input.RankExtras,
	}

	if input.Role != nil {
		role, err := roster.ParseRole(*input.Role)
		if err != nil {
			return roster.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		update.Role = &role
	}

	if input.ManualStats != nil {
		update.ManualStats = buildManualStats(*input.ManualStats)
	}

	player, err := s.store.UpdatePlayer(ctx, playerID, update)
	if err != nil {
		return roster.Player{}, mapStoreError(err, "player", playerID)
	}
	return player, nil
}

func (s *RosterService) DeletePlayer(ctx context.Context, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.DeletePlayer")
	defer span.End()

	if err := s.store.DeletePlayer(ctx, playerID); err != nil {
		return mapStoreError(err, "player", playerID)
	}
	return nil
}

func (s *RosterService) GetPlayer(ctx context.Context, playerID string) (roster.Team, roster.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetPlayer")
	defer span.End()

	team, player, ok, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return roster.Team{}, roster.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return roster.Team{}, roster.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return team, player, nil
}

func buildManualStats(input ManualStats) *roster.PlayerStats {
	tier := input.Tier
	if tier == "" {
		tier = roster.TierUnranked
	}

	stats := &roster.PlayerStats{
		Tier:         tier,
		Division:     input.Division,
		LP:           input.LP,
		SeasonGames:  input.SeasonGames,
		SeasonWins:   input.SeasonWins,
		SeasonLosses: input.SeasonLosses,
		Champions:    input.Champions,
		Masteries:    input.Masteries,
	}
	if stats.SeasonGames > 0 {
		stats.SeasonWinrate = float64(stats.SeasonWins) / float64(stats.SeasonGames) * 100
	}

	return stats
}

func mapStoreError(err error, kind, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, roster.ErrNotFound):
		return fmt.Errorf("%w: %s=%s", ErrNotFound, kind, id)
	case errors.Is(err, roster.ErrStoreFailure):
		return fmt.Errorf("%w: %v", ErrStoreFailure, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
