package usecase

import (
	"context"
	"fmt"

	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/domain/scouting"
)

// AnalysisService produces draft prep for a match against one opponent
// team. Everything is recomputed per request from stored stats; there
// is nothing to cache or invalidate.
type AnalysisService struct {
	store   roster.Store
	flags   scouting.FlagConfig
	advisor scouting.AdvisorConfig
}

func NewAnalysisService(store roster.Store, flags scouting.FlagConfig, advisor scouting.AdvisorConfig) *AnalysisService {
	return &AnalysisService{store: store, flags: flags, advisor: advisor}
}

// PlayerFlag is a flagged opponent player with the champion that earned
// the flag.
type PlayerFlag struct {
	Player string            `json:"player"`
	Role   string            `json:"role"`
	Pool   scouting.PoolFlag `json:"pool"`
}

// TeamAnalysis is the full scouting report for one opponent.
type TeamAnalysis struct {
	MyTeam   string                    `json:"my_team"`
	Opponent string                    `json:"opponent"`
	Bans     []scouting.BanSuggestion  `json:"bans"`
	Picks    []scouting.PickSuggestion `json:"picks"`
	Flags    []PlayerFlag              `json:"flags"`
}

// Analyze builds the report for the named opponent. A my-team must be
// set first: pick suggestions are meaningless without knowing whose
// champion pools to draw from.
func (s *AnalysisService) Analyze(ctx context.Context, opponentID string) (TeamAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "AnalysisService.Analyze")
	defer span.End()

	doc, err := s.store.Tournament(ctx)
	if err != nil {
		return TeamAnalysis{}, fmt.Errorf("load tournament: %w", err)
	}

	if doc.Meta.MyTeamID == "" {
		return TeamAnalysis{}, fmt.Errorf("%w: no team marked as yours yet", ErrInvalidInput)
	}
	myTeam, ok := doc.TeamByID(doc.Meta.MyTeamID)
	if !ok {
		return TeamAnalysis{}, fmt.Errorf("%w: my team=%s", ErrNotFound, doc.Meta.MyTeamID)
	}

	opponent, ok := doc.TeamByID(opponentID)
	if !ok {
		return TeamAnalysis{}, fmt.Errorf("%w: team=%s", ErrNotFound, opponentID)
	}
	if opponent.ID == myTeam.ID {
		return TeamAnalysis{}, fmt.Errorf("%w: cannot scout your own team", ErrInvalidInput)
	}

	report := TeamAnalysis{
		MyTeam:   myTeam.Name,
		Opponent: opponent.Name,
		Bans:     scouting.BanSuggestions(s.advisor, s.flags, opponent),
		Picks:    scouting.PickSuggestions(s.advisor, myTeam, opponent),
		Flags:    []PlayerFlag{},
	}

	for _, p := range opponent.Players {
		if p.Stats == nil {
			continue
		}
		flag := scouting.EvaluatePool(s.flags, p.Stats.Champions)
		if flag.Flag == "" {
			continue
		}
		report.Flags = append(report.Flags, PlayerFlag{
			Player: p.GameName,
			Role:   string(p.Role),
			Pool:   flag,
		})
	}

	return report, nil
}
