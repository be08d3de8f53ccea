package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/wardvision/scout/internal/domain/roster"
)

type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (g *sequentialIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id%04d", g.n), nil
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tournament.json")
	store, err := New(path, &sequentialIDs{})
	require.NoError(t, err)
	return store, path
}

func TestStore_StartsEmptyAndPersists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, path := newTestStore(t)

	team, err := store.AddTeam(ctx, "Cloud Nine")
	require.NoError(t, err)
	require.NotEmpty(t, team.ID)

	_, err = store.AddPlayer(ctx, team.ID, roster.NewPlayer{
		GameName: "Blaber",
		TagLine:  "NA1",
		Role:     roster.RoleJungle,
	})
	require.NoError(t, err)

	reloaded, err := New(path, &sequentialIDs{})
	require.NoError(t, err)

	doc, err := reloaded.Tournament(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Teams, 1)
	require.Equal(t, "Cloud Nine", doc.Teams[0].Name)
	require.Len(t, doc.Teams[0].Players, 1)
	require.Equal(t, "Blaber", doc.Teams[0].Players[0].GameName)
}

func TestStore_RejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tournament.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path, &sequentialIDs{})
	require.Error(t, err)
}

func TestStore_TeamCap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	for i := 0; i < roster.MaxTeams; i++ {
		_, err := store.AddTeam(ctx, fmt.Sprintf("Team %d", i))
		require.NoError(t, err)
	}

	_, err := store.AddTeam(ctx, "One Too Many")
	require.Error(t, err)

	doc, err := store.Tournament(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Teams, roster.MaxTeams)
}

func TestStore_MyTeamFollowsDeletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	team, err := store.AddTeam(ctx, "Mine")
	require.NoError(t, err)

	_, err = store.UpdateTeam(ctx, team.ID, roster.TeamUpdate{SetMyTeam: true})
	require.NoError(t, err)

	doc, err := store.Tournament(ctx)
	require.NoError(t, err)
	require.Equal(t, team.ID, doc.Meta.MyTeamID)

	require.NoError(t, store.DeleteTeam(ctx, team.ID))

	doc, err = store.Tournament(ctx)
	require.NoError(t, err)
	require.Empty(t, doc.Meta.MyTeamID)
}

func TestStore_NotFoundMutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	_, err := store.UpdateTeam(ctx, "missing", roster.TeamUpdate{})
	require.ErrorIs(t, err, roster.ErrNotFound)

	err = store.DeletePlayer(ctx, "missing")
	require.ErrorIs(t, err, roster.ErrNotFound)

	err = store.SetPlayerStats(ctx, "missing", roster.StatsUpdate{})
	require.ErrorIs(t, err, roster.ErrNotFound)
}

func TestStore_SetPlayerStatsMergesAndResolvesIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	team, err := store.AddTeam(ctx, "Enemy")
	require.NoError(t, err)
	player, err := store.AddPlayer(ctx, team.ID, roster.NewPlayer{
		GameName: "hide on bush",
		TagLine:  "KR",
		Role:     roster.RoleMid,
	})
	require.NoError(t, err)

	div := 1
	err = store.SetPlayerStats(ctx, player.ID, roster.StatsUpdate{
		Rank: &roster.RankUpdate{
			Tier:         "CHALLENGER",
			Division:     &div,
			LP:           1204,
			ResolvedName: "Hide on bush",
			ResolvedTag:  "KR1",
		},
		RetrievedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	err = store.SetPlayerStats(ctx, player.ID, roster.StatsUpdate{
		Champions: &roster.ChampionsUpdate{
			SeasonGames: 40,
			SeasonWins:  25,
			Champions:   []roster.ChampionStat{{ChampionName: "Azir", Games: 18}},
		},
	})
	require.NoError(t, err)

	_, got, ok, err := store.GetPlayer(ctx, player.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Hide on bush", got.GameName)
	require.Equal(t, "KR1", got.TagLine)
	require.NotNil(t, got.Stats)
	require.Equal(t, "CHALLENGER", got.Stats.Tier)
	require.Equal(t, 40, got.Stats.SeasonGames)
	require.Len(t, got.Stats.Champions, 1)
}

func TestStore_ManualStatsOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	team, err := store.AddTeam(ctx, "Enemy")
	require.NoError(t, err)
	player, err := store.AddPlayer(ctx, team.ID, roster.NewPlayer{GameName: "Smurf", Role: roster.RoleTop})
	require.NoError(t, err)

	_, err = store.UpdatePlayer(ctx, player.ID, roster.PlayerUpdate{
		ManualStats: &roster.PlayerStats{Tier: "DIAMOND", SeasonGames: 120},
	})
	require.NoError(t, err)

	_, got, ok, err := store.GetPlayer(ctx, player.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Stats.ManualOverride)
	require.Equal(t, "DIAMOND", got.Stats.Tier)
}

func TestStore_ConcurrentPlayerWritesDoNotClobber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _ := newTestStore(t)

	team, err := store.AddTeam(ctx, "Enemy")
	require.NoError(t, err)

	ids := make([]string, 5)
	for i := range ids {
		p, err := store.AddPlayer(ctx, team.ID, roster.NewPlayer{
			GameName: fmt.Sprintf("Player%d", i),
			Role:     roster.RoleFill,
		})
		require.NoError(t, err)
		ids[i] = p.ID
	}

	var wg sync.WaitGroup
	for i, playerID := range ids {
		wg.Add(1)
		go func(i int, playerID string) {
			defer wg.Done()
			_ = store.SetPlayerStats(ctx, playerID, roster.StatsUpdate{
				Champions: &roster.ChampionsUpdate{SeasonGames: i + 1},
			})
		}(i, playerID)
	}
	wg.Wait()

	doc, err := store.Tournament(ctx)
	require.NoError(t, err)
	for i, playerID := range ids {
		_, p, ok := doc.PlayerByID(playerID)
		require.True(t, ok)
		require.NotNil(t, p.Stats, "player %d lost its write", i)
		require.Equal(t, i+1, p.Stats.SeasonGames)
	}
}

func TestStore_SavedDocumentIsIndentedJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, path := newTestStore(t)
	_, err := store.AddTeam(ctx, "Pretty")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n  ")

	var doc roster.Tournament
	require.NoError(t, sonic.Unmarshal(raw, &doc))
	require.Len(t, doc.Teams, 1)
}
