package roster

import (
	"fmt"
	"strings"
	"time"
)

// MaxTeams caps how many teams a tournament document may hold.
const MaxTeams = 8

// Role is a player's assigned tournament position.
type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleBot     Role = "bot"
	RoleSupport Role = "support"
	RoleFill    Role = "fill"
)

// RoleOrder is the standard lane order used when auto-assigning roles to
// a five-player import.
var RoleOrder = []Role{RoleTop, RoleJungle, RoleMid, RoleBot, RoleSupport}

var allRoles = map[Role]struct{}{
	RoleTop:     {},
	RoleJungle:  {},
	RoleMid:     {},
	RoleBot:     {},
	RoleSupport: {},
	RoleFill:    {},
}

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if role == "" {
		return RoleFill, nil
	}
	if _, ok := allRoles[role]; !ok {
		return "", fmt.Errorf("invalid role: %s", raw)
	}
	return role, nil
}

// ChampionStat is one champion's ranked-season line for a player.
type ChampionStat struct {
	ChampionID   int     `json:"champion_id"`
	ChampionName string  `json:"champion_name"`
	ChampionKey  string  `json:"champion_key"`
	Games        int     `json:"games"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Winrate      float64 `json:"winrate"`
	KDA          float64 `json:"kda"`
	AvgKills     float64 `json:"avg_kills"`
	AvgDeaths    float64 `json:"avg_deaths"`
	AvgAssists   float64 `json:"avg_assists"`
	// Role holds the lane(s) the champion was played in, slash separated
	// when the source reports more than one.
	Role string `json:"role,omitempty"`
}

// Mastery is a champion mastery entry.
type Mastery struct {
	ChampionName string `json:"champion_name"`
	ChampionKey  string `json:"champion_key"`
	Level        int    `json:"level"`
	Points       int    `json:"points"`
}

// SeasonRecord is one past season's solo-queue outcome. PeakRank is the
// highest rank reached during the season, EndRank the closing rank.
type SeasonRecord struct {
	Season   string `json:"season"`
	PeakRank string `json:"peak_rank"`
	EndRank  string `json:"end_rank"`
}

// PlayerStats is everything scraped (or manually entered) for a player.
type PlayerStats struct {
	LastUpdated        *time.Time     `json:"last_updated"`
	Tier               string         `json:"tier"`
	Division           *int           `json:"division"`
	LP                 int            `json:"lp"`
	PreviousSeasonTier *string        `json:"previous_season_tier"`
	PeakTier           *string        `json:"peak_tier"`
	SeasonHistory      []SeasonRecord `json:"season_history,omitempty"`
	SeasonGames        int            `json:"season_games"`
	SeasonWins         int            `json:"season_wins"`
	SeasonLosses       int            `json:"season_losses"`
	SeasonWinrate      float64        `json:"season_winrate"`
	Champions          []ChampionStat `json:"champions"`
	Masteries          []Mastery      `json:"masteries,omitempty"`
	OpggURL            string         `json:"opgg_url,omitempty"`
	ScrapeError        string         `json:"scrape_error,omitempty"`
	ManualOverride     bool           `json:"manual_override,omitempty"`
}

const TierUnranked = "UNRANKED"

// Player is one roster entry. Stats is nil until the first refresh or
// manual entry.
type Player struct {
	ID           string       `json:"id"`
	GameName     string       `json:"game_name"`
	TagLine      string       `json:"tag_line"`
	Role         Role         `json:"role"`
	IsSubstitute bool         `json:"is_substitute"`
	Stats        *PlayerStats `json:"stats"`
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.GameName) == "" {
		return fmt.Errorf("player game name is required")
	}
	if _, ok := allRoles[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}
	return nil
}

// RiotID renders the name#tag identity used for scraping.
func (p Player) RiotID() string {
	if p.TagLine == "" {
		return p.GameName
	}
	return p.GameName + "#" + p.TagLine
}

// Team is an ordered list of players. Order is significant: display and
// role assignment by position both rely on it.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	for _, p := range t.Players {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("team %s: %w", t.Name, err)
		}
	}
	return nil
}

// Meta carries tournament-level settings. MyTeamID being a single field
// enforces the at-most-one my-team invariant structurally.
type Meta struct {
	SeasonName string    `json:"season_name"`
	MyTeamID   string    `json:"my_team_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Tournament is the root persisted document.
type Tournament struct {
	Meta  Meta   `json:"meta"`
	Teams []Team `json:"teams"`
}

func NewTournament(seasonName string) Tournament {
	if strings.TrimSpace(seasonName) == "" {
		seasonName = "Season 1"
	}
	return Tournament{
		Meta: Meta{
			SeasonName: seasonName,
			CreatedAt:  time.Now().UTC(),
		},
		Teams: []Team{},
	}
}

func (t Tournament) Validate() error {
	if len(t.Teams) > MaxTeams {
		return fmt.Errorf("tournament holds %d teams, maximum is %d", len(t.Teams), MaxTeams)
	}

	seen := make(map[string]struct{}, len(t.Teams))
	myTeamFound := t.Meta.MyTeamID == ""
	for _, team := range t.Teams {
		if err := team.Validate(); err != nil {
			return err
		}
		if _, dup := seen[team.ID]; dup {
			return fmt.Errorf("duplicate team id: %s", team.ID)
		}
		seen[team.ID] = struct{}{}
		if team.ID == t.Meta.MyTeamID {
			myTeamFound = true
		}
	}
	if !myTeamFound {
		return fmt.Errorf("my_team_id %s does not match any team", t.Meta.MyTeamID)
	}

	return nil
}

// TeamByID returns the team and whether it exists.
func (t Tournament) TeamByID(teamID string) (Team, bool) {
	for _, team := range t.Teams {
		if team.ID == teamID {
			return team, true
		}
	}
	return Team{}, false
}

// PlayerByID returns the owning team and player.
func (t Tournament) PlayerByID(playerID string) (Team, Player, bool) {
	for _, team := range t.Teams {
		for _, p := range team.Players {
			if p.ID == playerID {
				return team, p, true
			}
		}
	}
	return Team{}, Player{}, false
}
