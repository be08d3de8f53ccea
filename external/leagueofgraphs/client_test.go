package leagueofgraphs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", url)
	}
	return []byte(body), nil
}

const summonerFixture = `<html><body>
<div class="txt">
  <span class="tagDescription">Ranked Solo/Duo: This player reached <b>Diamond II</b> during <i>Season 13</i>. At the end of the season, this player was <b>Diamond IV</b>. Ranked Flex: This player reached Platinum I during Season 13. At the end of the season, this player was Platinum II.</span>
</div>
<div class="txt">
  <span class="tagDescription">Ranked Solo/Duo: This player reached <b>Master</b> during <i>Season 14</i>. At the end of the season, this player was <b>Diamond I</b>.</span>
</div>
<div class="txt">
  <span class="tagDescription">Ranked Flex: This player reached Gold I during Season 12. At the end of the season, this player was Gold II.</span>
</div>
</body></html>`

func newTestClient(pages map[string]string) *Client {
	return NewClient(Config{Fetcher: &fakeFetcher{pages: pages}})
}

func TestFetchHistory_SoloQueueOnly(t *testing.T) {
	t.Parallel()

	client := newTestClient(map[string]string{
		"https://www.leagueofgraphs.com/summoner/na/Doublelift-NA1": summonerFixture,
	})

	history, err := client.FetchHistory(context.Background(), "Doublelift", "NA1")
	require.NoError(t, err)

	require.Len(t, history.SeasonHistory, 2, "flex-only block must be skipped")
	require.Equal(t, "Season 13", history.SeasonHistory[0].Season)
	require.Equal(t, "Diamond II", history.SeasonHistory[0].PeakRank)
	require.Equal(t, "Diamond IV", history.SeasonHistory[0].EndRank)

	require.NotNil(t, history.PeakTier)
	require.Equal(t, "Master", *history.PeakTier, "all-time peak is the best peak across seasons")

	require.NotNil(t, history.PreviousSeasonTier)
	require.Equal(t, "Diamond I", *history.PreviousSeasonTier, "previous season is the most recent end rank")
}

func TestFetchHistory_SeasonNumbersCompareNumerically(t *testing.T) {
	t.Parallel()

	const fixture = `<html><body>
<div class="txt">
  <span class="tagDescription">Ranked Solo/Duo: This player reached Gold I during Season 9. At the end of the season, this player was Gold II.</span>
</div>
<div class="txt">
  <span class="tagDescription">Ranked Solo/Duo: This player reached Platinum III during Season 14. At the end of the season, this player was Platinum IV.</span>
</div>
</body></html>`

	client := newTestClient(map[string]string{
		"https://www.leagueofgraphs.com/summoner/na/Veteran-NA1": fixture,
	})

	history, err := client.FetchHistory(context.Background(), "Veteran", "NA1")
	require.NoError(t, err)

	require.NotNil(t, history.PreviousSeasonTier)
	require.Equal(t, "Platinum IV", *history.PreviousSeasonTier)
}

func TestSeasonLess_SplitSuffixes(t *testing.T) {
	t.Parallel()

	require.True(t, seasonLess("Season 9", "Season 14"))
	require.False(t, seasonLess("Season 14", "Season 9"))
	require.True(t, seasonLess("Season 14", "Season 14 (S2)"))
	require.False(t, seasonLess("Season 14 (S2)", "Season 14"))
}

func TestFetchHistory_NoRankedHistory(t *testing.T) {
	t.Parallel()

	client := newTestClient(map[string]string{
		"https://www.leagueofgraphs.com/summoner/na/FreshAccount-NA1": "<html><body>nothing</body></html>",
	})

	history, err := client.FetchHistory(context.Background(), "FreshAccount", "NA1")
	require.NoError(t, err)
	require.Empty(t, history.SeasonHistory)
	require.Nil(t, history.PeakTier)
	require.Nil(t, history.PreviousSeasonTier)
}

func TestRankSortKey_Ordering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		better string
		worse  string
	}{
		{"Challenger", "Grandmaster"},
		{"Master", "Diamond I"},
		{"Diamond II", "Diamond IV"},
		{"Emerald I", "Platinum I"},
		{"Gold IV", "Silver I"},
	}
	for _, tc := range cases {
		b, w := rankSortKey(tc.better), rankSortKey(tc.worse)
		less := b[0] < w[0] || (b[0] == w[0] && b[1] < w[1])
		require.True(t, less, "%s should outrank %s", tc.better, tc.worse)
	}
}
