package scouting

import (
	"math"
	"sort"

	"github.com/wardvision/scout/internal/domain/roster"
)

// Ban suggestion reasons, strongest first.
const (
	ReasonSignature = "signature"
	ReasonOverlap   = "overlap"
	ReasonComfort   = "comfort"
)

// AdvisorConfig stores draft advisor tuning parameters.
type AdvisorConfig struct {
	// TopPoolSize is how many of a player's most-played champions count as
	// their active pool.
	TopPoolSize int
	// MaxBans caps the ban list length. Zero means no cap.
	MaxBans int
	// MaxPicksPerRole caps pick suggestions per role. Zero means no cap.
	MaxPicksPerRole int
	// ComfortMinGames is the minimum games for an unflagged champion to
	// count as a comfort pick.
	ComfortMinGames int
	// MasteryMinPoints gates the mastery bonus; low-point masteries say
	// nothing about current form.
	MasteryMinPoints int
	SignatureWeight  float64
	OverlapWeight    float64
	ComfortWeight    float64
	// MasteryWeight scales a log10(points) bonus for champions the
	// player also has high mastery on.
	MasteryWeight float64
}

func DefaultAdvisorConfig() AdvisorConfig {
	return AdvisorConfig{
		TopPoolSize:      5,
		MaxBans:          10,
		MaxPicksPerRole:  3,
		ComfortMinGames:  15,
		MasteryMinPoints: 10000,
		SignatureWeight:  100,
		OverlapWeight:    40,
		ComfortWeight:    10,
		MasteryWeight:    5,
	}
}

// BanSuggestion is a champion worth banning against the opponent team.
type BanSuggestion struct {
	Champion string   `json:"champion"`
	Reason   string   `json:"reason"`
	Players  []string `json:"players"`
	Games    int      `json:"games"`
	Score    float64  `json:"score"`
}

// PickSuggestion is a my-team champion the opponent has no answer for.
type PickSuggestion struct {
	Champion string  `json:"champion"`
	Player   string  `json:"player"`
	Role     string  `json:"role"`
	Games    int     `json:"games"`
	Winrate  float64 `json:"winrate"`
}

type banCandidate struct {
	champion string
	players  []string
	games    int
	score    float64
	reason   string
}

// reasonRank orders ban reasons strongest first. Weights tune ordering
// inside a tier, never across tiers.
func reasonRank(reason string) int {
	switch reason {
	case ReasonSignature:
		return 0
	case ReasonOverlap:
		return 1
	default:
		return 2
	}
}

// BanSuggestions ranks opponent champions worth banning. Signature picks
// (a flagged one-trick or main for a single enemy) rank above champions
// shared across several enemies' pools, which rank above plain comfort
// picks. Ties break by aggregate games.
func BanSuggestions(cfg AdvisorConfig, flags FlagConfig, opponent roster.Team) []BanSuggestion {
	type holder struct {
		players []string
		games   int
		flagged []string
		bonus   float64
	}
	byChampion := make(map[string]*holder)

	for _, p := range opponent.Players {
		if p.Stats == nil {
			continue
		}
		flag := EvaluatePool(flags, p.Stats.Champions)
		masteryPoints := make(map[string]int, len(p.Stats.Masteries))
		for _, m := range p.Stats.Masteries {
			masteryPoints[m.ChampionName] = m.Points
		}
		for _, c := range topPool(cfg, p.Stats.Champions) {
			h := byChampion[c.ChampionName]
			if h == nil {
				h = &holder{}
				byChampion[c.ChampionName] = h
			}
			h.players = append(h.players, p.GameName)
			h.games += c.Games
			if flag.Flag != "" && flag.Champion == c.ChampionName {
				h.flagged = append(h.flagged, p.GameName)
			}
			if points := masteryPoints[c.ChampionName]; points >= cfg.MasteryMinPoints && cfg.MasteryMinPoints > 0 {
				h.bonus += math.Log10(float64(points)) * cfg.MasteryWeight
			}
		}
	}

	candidates := make([]banCandidate, 0, len(byChampion))
	for name, h := range byChampion {
		cand := banCandidate{champion: name, players: h.players, games: h.games}
		switch {
		case len(h.flagged) == 1 && len(h.players) == 1:
			cand.reason = ReasonSignature
			cand.score = cfg.SignatureWeight + float64(h.games)
		case len(h.players) >= 2:
			cand.reason = ReasonOverlap
			cand.score = cfg.OverlapWeight*float64(len(h.players)) + float64(h.games)
		case h.games >= cfg.ComfortMinGames:
			cand.reason = ReasonComfort
			cand.score = cfg.ComfortWeight + float64(h.games)
		default:
			continue
		}
		cand.score += h.bonus
		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if ri, rj := reasonRank(candidates[i].reason), reasonRank(candidates[j].reason); ri != rj {
			return ri < rj
		}
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].games != candidates[j].games {
			return candidates[i].games > candidates[j].games
		}
		return candidates[i].champion < candidates[j].champion
	})

	if cfg.MaxBans > 0 && len(candidates) > cfg.MaxBans {
		candidates = candidates[:cfg.MaxBans]
	}

	out := make([]BanSuggestion, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, BanSuggestion{
			Champion: c.champion,
			Reason:   c.reason,
			Players:  c.players,
			Games:    c.games,
			Score:    c.score,
		})
	}
	return out
}

// PickSuggestions lists my-team champions absent from every opponent
// player's active pool, ranked by the owner's winrate on them.
func PickSuggestions(cfg AdvisorConfig, myTeam, opponent roster.Team) []PickSuggestion {
	contested := make(map[string]struct{})
	for _, p := range opponent.Players {
		if p.Stats == nil {
			continue
		}
		for _, c := range topPool(cfg, p.Stats.Champions) {
			contested[c.ChampionName] = struct{}{}
		}
	}

	byRole := make(map[string][]PickSuggestion)
	for _, p := range myTeam.Players {
		if p.Stats == nil {
			continue
		}
		for _, c := range topPool(cfg, p.Stats.Champions) {
			if _, taken := contested[c.ChampionName]; taken {
				continue
			}
			role := string(p.Role)
			byRole[role] = append(byRole[role], PickSuggestion{
				Champion: c.ChampionName,
				Player:   p.GameName,
				Role:     role,
				Games:    c.Games,
				Winrate:  c.Winrate,
			})
		}
	}

	order := make([]string, 0, len(roster.RoleOrder)+1)
	for _, role := range roster.RoleOrder {
		order = append(order, string(role))
	}
	order = append(order, string(roster.RoleFill))

	var out []PickSuggestion
	for _, role := range order {
		picks := byRole[role]
		sort.SliceStable(picks, func(i, j int) bool {
			if picks[i].Winrate != picks[j].Winrate {
				return picks[i].Winrate > picks[j].Winrate
			}
			return picks[i].Games > picks[j].Games
		})
		if cfg.MaxPicksPerRole > 0 && len(picks) > cfg.MaxPicksPerRole {
			picks = picks[:cfg.MaxPicksPerRole]
		}
		out = append(out, picks...)
	}
	return out
}

func topPool(cfg AdvisorConfig, champions []roster.ChampionStat) []roster.ChampionStat {
	pool := make([]roster.ChampionStat, len(champions))
	copy(pool, champions)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Games > pool[j].Games
	})
	if cfg.TopPoolSize > 0 && len(pool) > cfg.TopPoolSize {
		pool = pool[:cfg.TopPoolSize]
	}
	return pool
}
