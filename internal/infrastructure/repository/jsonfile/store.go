// Package jsonfile persists the tournament document as a single JSON
// file. Every mutation is a whole-document read-modify-write under one
// mutex, and saves go through a temp file plus rename so a crash mid
// write never leaves a torn document behind.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/platform/id"
)

// Store implements roster.Store on top of a JSON document file.
type Store struct {
	mu    sync.Mutex
	path  string
	ids   id.Generator
	doc   roster.Tournament
}

// New loads the document at path, creating a fresh tournament when the
// file does not exist yet. A present but unreadable or invalid file is
// an error: silently starting over would drop the user's rosters.
func New(path string, ids id.Generator) (*Store, error) {
	s := &Store{path: path, ids: ids}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := sonic.Unmarshal(raw, &s.doc); err != nil {
			return nil, fmt.Errorf("decode tournament file %s: %w", path, err)
		}
		if err := s.doc.Validate(); err != nil {
			return nil, fmt.Errorf("tournament file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		s.doc = roster.NewTournament("")
	default:
		return nil, fmt.Errorf("read tournament file %s: %w", path, err)
	}

	return s, nil
}

// save writes the in-memory document to disk atomically. Callers hold
// s.mu.
func (s *Store) save() error {
	raw, err := sonic.ConfigStd.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tournament: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tournament-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace tournament file: %w", err)
	}

	return nil
}

// mutate applies fn to a working copy of the document, validates the
// result, and saves. The stored document only changes when both the
// mutation and the save succeed.
func (s *Store) mutate(fn func(doc *roster.Tournament) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneTournament(s.doc)
	if err := fn(&next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	prev := s.doc
	s.doc = next
	if err := s.save(); err != nil {
		s.doc = prev
		return fmt.Errorf("%w: %v", roster.ErrStoreFailure, err)
	}
	return nil
}

func (s *Store) Tournament(ctx context.Context) (roster.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTournament(s.doc), nil
}

func (s *Store) SetSeasonName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("season name is required")
	}
	return s.mutate(func(doc *roster.Tournament) error {
		doc.Meta.SeasonName = name
		return nil
	})
}

func (s *Store) AddTeam(ctx context.Context, name string) (roster.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return roster.Team{}, fmt.Errorf("team name is required")
	}

	teamID, err := s.ids.NewID()
	if err != nil {
		return roster.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	team := roster.Team{ID: teamID, Name: name, Players: []roster.Player{}}
	err = s.mutate(func(doc *roster.Tournament) error {
		if len(doc.Teams) >= roster.MaxTeams {
			return fmt.Errorf("tournament already holds %d teams, maximum is %d", len(doc.Teams), roster.MaxTeams)
		}
		doc.Teams = append(doc.Teams, team)
		return nil
	})
	if err != nil {
		return roster.Team{}, err
	}
	return team, nil
}

func (s *Store) UpdateTeam(ctx context.Context, teamID string, update roster.TeamUpdate) (roster.Team, error) {
	var updated roster.Team
	err := s.mutate(func(doc *roster.Tournament) error {
		idx := teamIndex(doc, teamID)
		if idx < 0 {
			return roster.ErrNotFound
		}
		if update.Name != nil {
			name := strings.TrimSpace(*update.Name)
			if name == "" {
				return fmt.Errorf("team name is required")
			}
			doc.Teams[idx].Name = name
		}
		if update.SetMyTeam {
			doc.Meta.MyTeamID = teamID
		}
		updated = cloneTeam(doc.Teams[idx])
		return nil
	})
	if err != nil {
		return roster.Team{}, err
	}
	return updated, nil
}

func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	return s.mutate(func(doc *roster.Tournament) error {
		idx := teamIndex(doc, teamID)
		if idx < 0 {
			return roster.ErrNotFound
		}
		doc.Teams = append(doc.Teams[:idx], doc.Teams[idx+1:]...)
		if doc.Meta.MyTeamID == teamID {
			doc.Meta.MyTeamID = ""
		}
		return nil
	})
}

func (s *Store) GetTeam(ctx context.Context, teamID string) (roster.Team, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.doc.TeamByID(teamID)
	if !ok {
		return roster.Team{}, false, nil
	}
	return cloneTeam(team), true, nil
}

func (s *Store) AddPlayer(ctx context.Context, teamID string, input roster.NewPlayer) (roster.Player, error) {
	playerID, err := s.ids.NewID()
	if err != nil {
		return roster.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	role := input.Role
	if role == "" {
		role = roster.RoleFill
	}
	player := roster.Player{
		ID:           playerID,
		GameName:     strings.TrimSpace(input.GameName),
		TagLine:      strings.TrimSpace(input.TagLine),
		Role:         role,
		IsSubstitute: input.IsSubstitute,
	}
	if err := player.Validate(); err != nil {
		return roster.Player{}, err
	}

	err = s.mutate(func(doc *roster.Tournament) error {
		idx := teamIndex(doc, teamID)
		if idx < 0 {
			return roster.ErrNotFound
		}
		doc.Teams[idx].Players = append(doc.Teams[idx].Players, player)
		return nil
	})
	if err != nil {
		return roster.Player{}, err
	}
	return player, nil
}

func (s *Store) ClearTeamPlayers(ctx context.Context, teamID string) error {
	return s.mutate(func(doc *roster.Tournament) error {
		idx := teamIndex(doc, teamID)
		if idx < 0 {
			return roster.ErrNotFound
		}
		doc.Teams[idx].Players = []roster.Player{}
		return nil
	})
}

func (s *Store) UpdatePlayer(ctx context.Context, playerID string, update roster.PlayerUpdate) (roster.Player, error) {
	var updated roster.Player
	err := s.mutate(func(doc *roster.Tournament) error {
		p := playerRef(doc, playerID)
		if p == nil {
			return roster.ErrNotFound
		}
		if update.GameName != nil {
			p.GameName = strings.TrimSpace(*update.GameName)
		}
		if update.TagLine != nil {
			p.TagLine = strings.TrimSpace(*update.TagLine)
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
		if err := p.Validate(); err != nil {
			return err
		}
		updated = clonePlayer(*p)
		return nil
	})
	if err != nil {
		return roster.Player{}, err
	}
	return updated, nil
}

func (s *Store) DeletePlayer(ctx context.Context, playerID string) error {
	return s.mutate(func(doc *roster.Tournament) error {
		for ti := range doc.Teams {
			for pi := range doc.Teams[ti].Players {
				if doc.Teams[ti].Players[pi].ID == playerID {
					players := doc.Teams[ti].Players
					doc.Teams[ti].Players = append(players[:pi], players[pi+1:]...)
					return nil
				}
			}
		}
		return roster.ErrNotFound
	})
}

func (s *Store) GetPlayer(ctx context.Context, playerID string) (roster.Team, roster.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, player, ok := s.doc.PlayerByID(playerID)
	if !ok {
		return roster.Team{}, roster.Player{}, false, nil
	}
	return cloneTeam(team), clonePlayer(player), true, nil
}

func (s *Store) SetPlayerStats(ctx context.Context, playerID string, update roster.StatsUpdate) error {
	return s.mutate(func(doc *roster.Tournament) error {
		p := playerRef(doc, playerID)
		if p == nil {
			return roster.ErrNotFound
		}
		if update.Rank != nil {
			if update.Rank.ResolvedName != "" {
				p.GameName = update.Rank.ResolvedName
			}
			if update.Rank.ResolvedTag != "" {
				p.TagLine = update.Rank.ResolvedTag
			}
		}
		p.Stats = update.Merge(p.Stats)
		return nil
	})
}

func teamIndex(doc *roster.Tournament, teamID string) int {
	for i := range doc.Teams {
		if doc.Teams[i].ID == teamID {
			return i
		}
	}
	return -1
}

func playerRef(doc *roster.Tournament, playerID string) *roster.Player {
	for ti := range doc.Teams {
		for pi := range doc.Teams[ti].Players {
			if doc.Teams[ti].Players[pi].ID == playerID {
				return &doc.Teams[ti].Players[pi]
			}
		}
	}
	return nil
}

func cloneTournament(doc roster.Tournament) roster.Tournament {
	out := doc
	out.Teams = make([]roster.Team, len(doc.Teams))
	for i, team := range doc.Teams {
		out.Teams[i] = cloneTeam(team)
	}
	return out
}

func cloneTeam(team roster.Team) roster.Team {
	out := team
	out.Players = make([]roster.Player, len(team.Players))
	for i, p := range team.Players {
		out.Players[i] = clonePlayer(p)
	}
	return out
}

func clonePlayer(p roster.Player) roster.Player {
	out := p
	if p.Stats != nil {
		stats := *p.Stats
		stats.Champions = append([]roster.ChampionStat(nil), p.Stats.Champions...)
		stats.Masteries = append([]roster.Mastery(nil), p.Stats.Masteries...)
		stats.SeasonHistory = append([]roster.SeasonRecord(nil), p.Stats.SeasonHistory...)
		out.Stats = &stats
	}
	return out
}
