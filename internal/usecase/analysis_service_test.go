package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/domain/scouting"
)

func newAnalysisFixture(t *testing.T) (*AnalysisService, *stubStore, roster.Team, roster.Team) {
	t.Helper()
	ctx := context.Background()

	store := newStubStore()
	mine, err := store.AddTeam(ctx, "Us")
	require.NoError(t, err)
	_, err = store.UpdateTeam(ctx, mine.ID, roster.TeamUpdate{SetMyTeam: true})
	require.NoError(t, err)

	myMid, err := store.AddPlayer(ctx, mine.ID, roster.NewPlayer{GameName: "MyMid", Role: roster.RoleMid})
	require.NoError(t, err)
	_, err = store.UpdatePlayer(ctx, myMid.ID, roster.PlayerUpdate{
		ManualStats: &roster.PlayerStats{
			Champions: []roster.ChampionStat{
				{ChampionName: "Orianna", Games: 30, Winrate: 58},
			},
		},
	})
	require.NoError(t, err)

	enemy, err := store.AddTeam(ctx, "Them")
	require.NoError(t, err)
	otp, err := store.AddPlayer(ctx, enemy.ID, roster.NewPlayer{GameName: "EnemyMid", Role: roster.RoleMid})
	require.NoError(t, err)
	_, err = store.UpdatePlayer(ctx, otp.ID, roster.PlayerUpdate{
		ManualStats: &roster.PlayerStats{
			Champions: []roster.ChampionStat{
				{ChampionName: "Ahri", Games: 60},
				{ChampionName: "Lux", Games: 5},
			},
		},
	})
	require.NoError(t, err)

	svc := NewAnalysisService(store, scouting.DefaultFlagConfig(), scouting.DefaultAdvisorConfig())
	return svc, store, mine, enemy
}

func TestAnalysisService_FullReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _, enemy := newAnalysisFixture(t)

	report, err := svc.Analyze(ctx, enemy.ID)
	require.NoError(t, err)
	require.Equal(t, "Us", report.MyTeam)
	require.Equal(t, "Them", report.Opponent)

	require.NotEmpty(t, report.Bans)
	require.Equal(t, "Ahri", report.Bans[0].Champion)
	require.Equal(t, scouting.ReasonSignature, report.Bans[0].Reason)

	require.Len(t, report.Picks, 1)
	require.Equal(t, "Orianna", report.Picks[0].Champion)

	require.Len(t, report.Flags, 1)
	require.Equal(t, "EnemyMid", report.Flags[0].Player)
	require.Equal(t, scouting.FlagOneTrick, report.Flags[0].Pool.Flag)
}

func TestAnalysisService_RequiresMyTeam(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newStubStore()
	enemy, err := store.AddTeam(ctx, "Them")
	require.NoError(t, err)

	svc := NewAnalysisService(store, scouting.DefaultFlagConfig(), scouting.DefaultAdvisorConfig())
	_, err = svc.Analyze(ctx, enemy.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalysisService_RejectsScoutingSelf(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, mine, _ := newAnalysisFixture(t)

	_, err := svc.Analyze(ctx, mine.ID)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalysisService_OpponentNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _, _ := newAnalysisFixture(t)

	_, err := svc.Analyze(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
