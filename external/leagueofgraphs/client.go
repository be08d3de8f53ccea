// Package leagueofgraphs scrapes past-season ranks from
// leagueofgraphs.com. Unlike op.gg it reports the peak rank a player
// actually reached during a season, not just where they ended, which is
// what you want when sizing up a smurf.
package leagueofgraphs

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/wardvision/scout/internal/domain/roster"
)

const (
	defaultBaseURL = "https://www.leagueofgraphs.com"
	defaultRegion  = "na"
)

// seasonEntryRegex pulls one season line out of a tag description, e.g.
// "This player reached Diamond II during Season 13. At the end of the
// season, this player was Diamond IV."
var seasonEntryRegex = regexp.MustCompile(`This player reached ([\w\s]+?) during (Season [\w\s()]+?)\.\s*At the end of the season, this player was ([\w\s]+?)\.`)

var tierOrder = map[string]int{
	"challenger":  0,
	"grandmaster": 1,
	"master":      2,
	"diamond":     3,
	"emerald":     4,
	"platinum":    5,
	"gold":        6,
	"silver":      7,
	"bronze":      8,
	"iron":        9,
}

var divisionOrder = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4}

// History is parsed past-season data for one player.
type History struct {
	// PreviousSeasonTier is the end rank of the most recent completed
	// season, nil when the player has no ranked history.
	PreviousSeasonTier *string
	// PeakTier is the best rank reached across all seasons.
	PeakTier      *string
	SeasonHistory []roster.SeasonRecord
}

// Fetcher is the page getter the client scrapes through.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Config struct {
	BaseURL string
	Region  string
	Fetcher Fetcher
}

type Client struct {
	baseURL string
	region  string
	fetcher Fetcher
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
		fetcher: cfg.Fetcher,
	}
}

// FetchHistory scrapes the summoner page and extracts Solo/Duo season
// records. Flex entries share the same tag blocks and are dropped.
func (c *Client) FetchHistory(ctx context.Context, gameName, tagLine string) (History, error) {
	var history History

	slug := gameName + "-" + tagLine
	pageURL := c.baseURL + "/summoner/" + c.region + "/" + url.PathEscape(slug)
	body, err := c.fetcher.Get(ctx, pageURL)
	if err != nil {
		return history, errors.Wrap(err, "leagueofgraphs summoner page")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return history, errors.Wrap(err, "leagueofgraphs: parse page")
	}

	doc.Find(".tagDescription").Each(func(_ int, sel *goquery.Selection) {
		text := normalizeSpace(sel.Text())

		// A block can describe both queues; Solo/Duo comes first.
		soloPart := strings.Split(text, "Ranked Flex")[0]
		if !strings.Contains(soloPart, "Ranked Solo/Duo") {
			return
		}

		m := seasonEntryRegex.FindStringSubmatch(soloPart)
		if m == nil {
			return
		}
		history.SeasonHistory = append(history.SeasonHistory, roster.SeasonRecord{
			Season:   strings.TrimSpace(m[2]),
			PeakRank: strings.TrimSpace(m[1]),
			EndRank:  strings.TrimSpace(m[3]),
		})
	})

	if len(history.SeasonHistory) == 0 {
		return history, nil
	}

	if peak := bestRank(history.SeasonHistory); peak != "" {
		history.PeakTier = &peak
	}

	// Season labels compare by their number first, then lexically so
	// split suffixes like "Season 14 (S2)" still win over "Season 14".
	// A plain string compare would put "Season 9" above "Season 14".
	mostRecent := history.SeasonHistory[0]
	for _, record := range history.SeasonHistory[1:] {
		if seasonLess(mostRecent.Season, record.Season) {
			mostRecent = record
		}
	}
	if mostRecent.EndRank != "" {
		end := mostRecent.EndRank
		history.PreviousSeasonTier = &end
	}

	return history, nil
}

var seasonNumberRegex = regexp.MustCompile(`\d+`)

func seasonLess(a, b string) bool {
	na, nb := seasonNumber(a), seasonNumber(b)
	if na != nb {
		return na < nb
	}
	return a < b
}

func seasonNumber(season string) int {
	m := seasonNumberRegex.FindString(season)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func bestRank(records []roster.SeasonRecord) string {
	best := ""
	bestKey := [2]int{999, 5}
	for _, record := range records {
		if record.PeakRank == "" {
			continue
		}
		key := rankSortKey(record.PeakRank)
		if key[0] < bestKey[0] || (key[0] == bestKey[0] && key[1] < bestKey[1]) {
			bestKey = key
			best = record.PeakRank
		}
	}
	return best
}

// rankSortKey orders "Diamond II" style ranks, lower is better.
func rankSortKey(rank string) [2]int {
	parts := strings.Fields(rank)
	if len(parts) == 0 {
		return [2]int{999, 5}
	}

	tier, ok := tierOrder[strings.ToLower(parts[0])]
	if !ok {
		tier = 999
	}
	division := 5
	if len(parts) > 1 {
		if d, ok := divisionOrder[parts[1]]; ok {
			division = d
		}
	}
	return [2]int{tier, division}
}

func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
