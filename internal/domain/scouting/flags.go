package scouting

import (
	"sort"

	"github.com/wardvision/scout/internal/domain/roster"
)

// Pool flag values attached to a player's champion pool.
const (
	FlagOneTrick = "one_trick"
	FlagMain     = "main"
)

// FlagConfig stores the thresholds used to classify a champion pool.
type FlagConfig struct {
	// OneTrickMinGames is the minimum games on the top champion for the
	// one_trick flag.
	OneTrickMinGames int
	// OneTrickShare is the minimum share of total pool games the top
	// champion must hold for the one_trick flag.
	OneTrickShare float64
	// MainMinGames is the minimum games on the top champion for the main
	// flag.
	MainMinGames int
	// MainBaseRatio is the top-to-second games ratio required at exactly
	// MainMinGames games. The requirement relaxes by MainRatioStep for each
	// game above that, floored at MainMinRatio.
	MainBaseRatio float64
	MainRatioStep float64
	MainMinRatio  float64
}

func DefaultFlagConfig() FlagConfig {
	return FlagConfig{
		OneTrickMinGames: 20,
		OneTrickShare:    0.6,
		MainMinGames:     10,
		MainBaseRatio:    2.0,
		MainRatioStep:    0.0125,
		MainMinRatio:     1.5,
	}
}

// PoolFlag describes how concentrated a player's champion pool is.
// A zero Flag means the pool is too shallow or too spread to classify.
type PoolFlag struct {
	Flag     string  `json:"flag"`
	Champion string  `json:"champion"`
	Games    int     `json:"games"`
	Share    float64 `json:"share"`
}

// EvaluatePool classifies a champion pool as one_trick, main, or neither.
// A one_trick is a player whose top champion dominates the whole pool; a
// main has a clear favorite relative to their second pick. A pool whose
// two most-played champions are tied is never flagged.
func EvaluatePool(cfg FlagConfig, champions []roster.ChampionStat) PoolFlag {
	if len(champions) == 0 {
		return PoolFlag{}
	}

	pool := make([]roster.ChampionStat, len(champions))
	copy(pool, champions)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Games > pool[j].Games
	})

	top := pool[0]
	if top.Games <= 0 {
		return PoolFlag{}
	}

	total := 0
	for _, c := range pool {
		total += c.Games
	}

	second := 0
	if len(pool) > 1 {
		second = pool[1].Games
	}
	if second == top.Games {
		return PoolFlag{}
	}

	share := float64(top.Games) / float64(total)

	if top.Games >= cfg.OneTrickMinGames && share >= cfg.OneTrickShare {
		return PoolFlag{
			Flag:     FlagOneTrick,
			Champion: top.ChampionName,
			Games:    top.Games,
			Share:    share,
		}
	}

	if top.Games >= cfg.MainMinGames {
		required := cfg.MainBaseRatio - float64(top.Games-cfg.MainMinGames)*cfg.MainRatioStep
		if required < cfg.MainMinRatio {
			required = cfg.MainMinRatio
		}
		ratio := float64(top.Games)
		if second > 0 {
			ratio = float64(top.Games) / float64(second)
		}
		if ratio >= required {
			return PoolFlag{
				Flag:     FlagMain,
				Champion: top.ChampionName,
				Games:    top.Games,
				Share:    share,
			}
		}
	}

	return PoolFlag{}
}
