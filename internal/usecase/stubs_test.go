package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/wardvision/scout/internal/domain/roster"
)

// stubStore is a plain in-memory roster.Store for service tests.
type stubStore struct {
	mu     sync.Mutex
	doc    roster.Tournament
	nextID int

	// statsErr, when set, fails every SetPlayerStats call.
	statsErr error
	// statsWritten counts successful SetPlayerStats calls.
	statsWritten int
}

func newStubStore() *stubStore {
	return &stubStore{doc: roster.NewTournament("Test Season")}
}

func (s *stubStore) newID() string {
	s.nextID++
	return "id" + strconv.Itoa(s.nextID)
}

func (s *stubStore) Tournament(context.Context) (roster.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, nil
}

func (s *stubStore) SetSeasonName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Meta.SeasonName = name
	return nil
}

func (s *stubStore) AddTeam(_ context.Context, name string) (roster.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.doc.Teams) >= roster.MaxTeams {
		return roster.Team{}, fmt.Errorf("tournament is full")
	}
	team := roster.Team{ID: s.newID(), Name: name, Players: []roster.Player{}}
	s.doc.Teams = append(s.doc.Teams, team)
	return team, nil
}

func (s *stubStore) UpdateTeam(_ context.Context, teamID string, update roster.TeamUpdate) (roster.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Teams {
		if s.doc.Teams[i].ID != teamID {
			continue
		}
		if update.Name != nil {
			s.doc.Teams[i].Name = *update.Name
		}
		if update.SetMyTeam {
			s.doc.Meta.MyTeamID = teamID
		}
		return s.doc.Teams[i], nil
	}
	return roster.Team{}, roster.ErrNotFound
}

func (s *stubStore) DeleteTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Teams {
		if s.doc.Teams[i].ID == teamID {
			s.doc.Teams = append(s.doc.Teams[:i], s.doc.Teams[i+1:]...)
			return nil
		}
	}
	return roster.ErrNotFound
}

func (s *stubStore) GetTeam(_ context.Context, teamID string) (roster.Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.doc.TeamByID(teamID)
	return team, ok, nil
}

func (s *stubStore) AddPlayer(_ context.Context, teamID string, input roster.NewPlayer) (roster.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Teams {
		if s.doc.Teams[i].ID != teamID {
			continue
		}
		player := roster.Player{
			ID:           s.newID(),
			GameName:     input.GameName,
			TagLine:      input.TagLine,
			Role:         input.Role,
			IsSubstitute: input.IsSubstitute,
		}
		s.doc.Teams[i].Players = append(s.doc.Teams[i].Players, player)
		return player, nil
	}
	return roster.Player{}, roster.ErrNotFound
}

func (s *stubStore) ClearTeamPlayers(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Teams {
		if s.doc.Teams[i].ID == teamID {
			s.doc.Teams[i].Players = nil
			return nil
		}
	}
	return roster.ErrNotFound
}

func (s *stubStore) UpdatePlayer(_ context.Context, playerID string, update roster.PlayerUpdate) (roster.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.playerRef(playerID)
	if p == nil {
		return roster.Player{}, roster.ErrNotFound
	}
	if update.GameName != nil {
		p.GameName = *update.GameName
	}
	if update.TagLine != nil {
		p.TagLine = *update.TagLine
	}
	if update.Role != nil {
		p.Role = *update.Role
	}
	if update.IsSubstitute != nil {
		p.IsSubstitute = *update.IsSubstitute
	}
	if update.ManualStats != nil {
		stats := *update.ManualStats
		stats.ManualOverride = true
		p.Stats = &stats
	}
	if update.RankExtras != nil {
		if p.Stats == nil {
			p.Stats = &roster.PlayerStats{Tier: roster.TierUnranked}
		}
		if update.RankExtras.PreviousSeasonTier != nil {
			p.Stats.PreviousSeasonTier = update.RankExtras.PreviousSeasonTier
		}
		if update.RankExtras.PeakTier != nil {
			p.Stats.PeakTier = update.RankExtras.PeakTier
		}
	}
	return *p, nil
}

func (s *stubStore) DeletePlayer(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ti := range s.doc.Teams {
		for pi := range s.doc.Teams[ti].Players {
			if s.doc.Teams[ti].Players[pi].ID == playerID {
				players := s.doc.Teams[ti].Players
				s.doc.Teams[ti].Players = append(players[:pi], players[pi+1:]...)
				return nil
			}
		}
	}
	return roster.ErrNotFound
}

func (s *stubStore) GetPlayer(_ context.Context, playerID string) (roster.Team, roster.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, player, ok := s.doc.PlayerByID(playerID)
	return team, player, ok, nil
}

func (s *stubStore) SetPlayerStats(_ context.Context, playerID string, update roster.StatsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statsErr != nil {
		return s.statsErr
	}
	p := s.playerRef(playerID)
	if p == nil {
		return roster.ErrNotFound
	}
	p.Stats = update.Merge(p.Stats)
	s.statsWritten++
	return nil
}

func (s *stubStore) playerRef(playerID string) *roster.Player {
	for ti := range s.doc.Teams {
		for pi := range s.doc.Teams[ti].Players {
			if s.doc.Teams[ti].Players[pi].ID == playerID {
				return &s.doc.Teams[ti].Players[pi]
			}
		}
	}
	return nil
}

// stubScraper scripts scrape outcomes per riot ID.
type stubScraper struct {
	mu sync.Mutex
	// fail lists game names whose scrape returns an error.
	fail map[string]bool
	// block, when non-nil, is closed to release held scrapes.
	block chan struct{}
	// blockOnly limits the gate to the listed game names; nil gates all.
	blockOnly map[string]bool
	// tiers overrides the scraped tier per game name.
	tiers map[string]string
	calls []string
}

func (s *stubScraper) Scrape(ctx context.Context, gameName, tagLine string) (roster.StatsUpdate, error) {
	s.mu.Lock()
	s.calls = append(s.calls, gameName)
	blocked := s.block
	if blocked != nil && s.blockOnly != nil && !s.blockOnly[gameName] {
		blocked = nil
	}
	failed := s.fail[gameName]
	tier := s.tiers[gameName]
	s.mu.Unlock()

	if blocked != nil {
		select {
		case <-blocked:
		case <-ctx.Done():
			return roster.StatsUpdate{}, ctx.Err()
		}
	}
	if failed {
		return roster.StatsUpdate{}, fmt.Errorf("scrape %s: all sources down", gameName)
	}

	if tier == "" {
		tier = "GOLD"
	}
	return roster.StatsUpdate{
		Rank: &roster.RankUpdate{Tier: tier, LP: 50},
		Champions: &roster.ChampionsUpdate{
			SeasonGames: 10,
			Champions:   []roster.ChampionStat{{ChampionName: "Annie", Games: 10}},
		},
	}, nil
}
