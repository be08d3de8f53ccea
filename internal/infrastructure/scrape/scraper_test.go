package scrape

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardvision/scout/external/leagueofgraphs"
	"github.com/wardvision/scout/external/opgg"
)

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	posts []string
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", url)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) Post(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, url)
	return nil, nil
}

const multisearchPage = `{\"data\":[{\"id\":1,\"game_name\":\"Doublelift\",\"tagline\":\"NA1\",\"internal_name\":\"doublelift\",\"solo_tier_info\":{\"tier\":\"GRANDMASTER\",\"division\":1,\"lp\":620}}]}`

const championsPage = `{\"game_type\":\"RANKED\",\"play\":50,\"win\":30,\"lose\":20,\"my_champion_stats\":[{\"champion_id\":22,\"name\":\"Ashe\",\"play\":28,\"win\":18,\"lose\":10,\"win_rate\":64.3,\"kda\":{\"kda\":4.1,\"avg_kill\":6.0,\"avg_death\":2.5,\"avg_assist\":8.0}}]}`

const historyPage = `<span class="tagDescription">Ranked Solo/Duo: This player reached Challenger during Season 14. At the end of the season, this player was Grandmaster.</span>`

func newTestScraper(pages map[string]string, renewal bool) (*Scraper, *fakeFetcher) {
	fetcher := &fakeFetcher{pages: pages}
	return New(Config{
		Opgg:           opgg.NewClient(opgg.Config{Fetcher: fetcher}),
		History:        leagueofgraphs.NewClient(leagueofgraphs.Config{Fetcher: fetcher}),
		TriggerRenewal: renewal,
	}), fetcher
}

func fullFixtures() map[string]string {
	return map[string]string{
		"https://op.gg/lol/multisearch/na?summoners=doublelift%23NA1": multisearchPage,
		"https://op.gg/lol/summoners/na/Doublelift-NA1/champions":     championsPage,
		"https://www.leagueofgraphs.com/summoner/na/Doublelift-NA1":   historyPage,
	}
}

func TestScrape_FullProfile(t *testing.T) {
	t.Parallel()

	scraper, fetcher := newTestScraper(fullFixtures(), true)

	update, err := scraper.Scrape(context.Background(), "doublelift", "NA1")
	require.NoError(t, err)
	require.Empty(t, update.ScrapeError)

	require.NotNil(t, update.Rank)
	require.Equal(t, "GRANDMASTER", update.Rank.Tier)
	require.Equal(t, 620, update.Rank.LP)
	require.Equal(t, "Doublelift", update.Rank.ResolvedName)

	require.NotNil(t, update.Champions)
	require.Equal(t, 50, update.Champions.SeasonGames)
	require.Len(t, update.Champions.Champions, 1)
	require.Equal(t, "Ashe", update.Champions.Champions[0].ChampionName)

	require.NotNil(t, update.History)
	require.NotNil(t, update.History.PeakTier)
	require.Equal(t, "Challenger", *update.History.PeakTier)

	// Champions and history pages must be fetched under the resolved
	// capitalization, not the user's spelling.
	require.Equal(t, "https://op.gg/lol/summoners/na/Doublelift-NA1", update.OpggURL)

	// Renewal fired once, against op.gg's internal name.
	require.Len(t, fetcher.posts, 1)
}

func TestScrape_PartialFailureIsNotAnError(t *testing.T) {
	t.Parallel()

	pages := fullFixtures()
	delete(pages, "https://www.leagueofgraphs.com/summoner/na/Doublelift-NA1")
	scraper, _ := newTestScraper(pages, false)

	update, err := scraper.Scrape(context.Background(), "doublelift", "NA1")
	require.NoError(t, err)
	require.Contains(t, update.ScrapeError, "season history failed")
	require.NotNil(t, update.Rank)
	require.NotNil(t, update.Champions)
	require.Nil(t, update.History)
}

func TestScrape_TotalFailureIsAnError(t *testing.T) {
	t.Parallel()

	scraper, _ := newTestScraper(map[string]string{}, false)

	update, err := scraper.Scrape(context.Background(), "ghost", "NA1")
	require.Error(t, err)
	require.True(t, update.Empty())
	require.NotEmpty(t, update.ScrapeError)
}
