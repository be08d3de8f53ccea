// Package opgg scrapes player data from op.gg. The site renders
// through React Server Components, so the interesting JSON arrives
// double-escaped inside script payloads rather than as clean markup;
// the parsers here work on the unescaped text with regexes and a
// balanced-bracket scan instead of a DOM walk.
package opgg

import (
	"context"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/wardvision/scout/external/fetch"
	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/platform/logging"
)

const (
	defaultBaseURL = "https://op.gg"
	defaultRegion  = "na"
)

var (
	summonerIdentityRegex = regexp.MustCompile(`"game_name"\s*:\s*"([^"]+)"\s*,\s*"tagline"\s*:\s*"([^"]+)"`)
	soloTierRegex         = regexp.MustCompile(`"solo_tier_info"\s*:\s*\{\s*"tier"\s*:\s*"(\w+)"\s*,\s*"division"\s*:\s*(\d+)\s*,\s*"lp"\s*:\s*(\d+)`)
	internalNameRegex     = regexp.MustCompile(`"internal_name"\s*:\s*"([^"]+)"`)
	rankedTotalsRegex     = regexp.MustCompile(`"game_type"\s*:\s*"RANKED"[^}]*?"play"\s*:\s*(\d+)\s*,\s*"win"\s*:\s*(\d+)\s*,\s*"lose"\s*:\s*(\d+)`)
)

// TierInfo is the outcome of a multisearch lookup. ResolvedName and
// ResolvedTag carry op.gg's canonical spelling of the riot ID;
// InternalName is op.gg's own summoner slug, used for renewal.
type TierInfo struct {
	Tier         string
	Division     *int
	LP           int
	ResolvedName string
	ResolvedTag  string
	InternalName string
}

// ChampionStats is the ranked champion breakdown from the champions
// page, including season totals.
type ChampionStats struct {
	SeasonGames   int
	SeasonWins    int
	SeasonLosses  int
	SeasonWinrate float64
	Champions     []roster.ChampionStat
}

type Config struct {
	BaseURL string
	Region  string
	Fetcher fetch.Fetcher
	Logger  *logging.Logger
}

type Client struct {
	baseURL string
	region  string
	fetcher fetch.Fetcher
	logger  *logging.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
		fetcher: cfg.Fetcher,
		logger:  logger,
	}
}

// ProfileURL is the public summoner page for a resolved riot ID.
func (c *Client) ProfileURL(gameName, tagLine string) string {
	slug := gameName + "-" + tagLine
	return c.baseURL + "/lol/summoners/" + c.region + "/" + url.PathEscape(slug)
}

// FetchTier looks the player up on the multisearch page and returns
// current solo-queue standing plus the canonical identity. Searching
// name#tag first avoids ambiguous matches on common names; when that
// returns nothing (stale tag in the roster) it falls back to a
// name-only search.
func (c *Client) FetchTier(ctx context.Context, gameName, tagLine string) (TierInfo, error) {
	info := TierInfo{Tier: roster.TierUnranked}

	term := gameName
	if tagLine != "" {
		term = gameName + "#" + tagLine
	}
	body, err := c.fetcher.Get(ctx, c.multisearchURL(term))
	if err != nil {
		return info, errors.Wrap(err, "opgg multisearch")
	}

	clean := unescapeRSC(string(body))
	dataIdx := strings.Index(clean, `"data":[{"id"`)

	if dataIdx < 0 && tagLine != "" {
		body, err = c.fetcher.Get(ctx, c.multisearchURL(gameName))
		if err == nil {
			clean = unescapeRSC(string(body))
			dataIdx = strings.Index(clean, `"data":[{"id"`)
		}
	}
	if dataIdx < 0 {
		return info, nil
	}

	target := strings.ToLower(gameName)
	section := clean[dataIdx:]
	for _, loc := range summonerIdentityRegex.FindAllStringSubmatchIndex(section, -1) {
		foundName := section[loc[2]:loc[3]]
		foundTag := section[loc[4]:loc[5]]
		if strings.ToLower(foundName) != target {
			continue
		}

		info.ResolvedName = foundName
		info.ResolvedTag = foundTag

		// Rank and internal name sit shortly after the identity pair in
		// the same summoner object.
		after := section[loc[1]:]
		if len(after) > 1000 {
			after = after[:1000]
		}
		if m := soloTierRegex.FindStringSubmatch(after); m != nil {
			info.Tier = m[1]
			if div, err := strconv.Atoi(m[2]); err == nil {
				info.Division = &div
			}
			info.LP, _ = strconv.Atoi(m[3])
		}
		if m := internalNameRegex.FindStringSubmatch(after); m != nil {
			info.InternalName = m[1]
		}
		break
	}

	return info, nil
}

// FetchChampions scrapes the ranked champion table from the summoner's
// champions page.
func (c *Client) FetchChampions(ctx context.Context, gameName, tagLine string) (ChampionStats, error) {
	var stats ChampionStats

	body, err := c.fetcher.Get(ctx, c.ProfileURL(gameName, tagLine)+"/champions")
	if err != nil {
		return stats, errors.Wrap(err, "opgg champions page")
	}
	html := string(body)

	idx := strings.Index(html, "my_champion_stats")
	if idx < 0 {
		return stats, nil
	}

	// Season totals live just ahead of the champion array.
	headStart := idx - 500
	if headStart < 0 {
		headStart = 0
	}
	header := unescapeRSC(html[headStart:idx])
	if m := rankedTotalsRegex.FindStringSubmatch(header); m != nil {
		stats.SeasonGames, _ = strconv.Atoi(m[1])
		stats.SeasonWins, _ = strconv.Atoi(m[2])
		stats.SeasonLosses, _ = strconv.Atoi(m[3])
		if stats.SeasonGames > 0 {
			stats.SeasonWinrate = round1(float64(stats.SeasonWins) / float64(stats.SeasonGames) * 100)
		}
	}

	arrText, ok := extractChampionArray(html, idx)
	if !ok {
		return stats, nil
	}

	var raw []championEntry
	if err := sonic.Unmarshal([]byte(arrText), &raw); err != nil {
		return stats, errors.Wrap(err, "opgg: decode champion stats")
	}

	for _, entry := range raw {
		stat, ok := entry.toChampionStat()
		if !ok {
			continue
		}
		stats.Champions = append(stats.Champions, stat)
	}

	// Most-played first; the downstream pool analysis relies on it.
	sort.SliceStable(stats.Champions, func(i, j int) bool {
		return stats.Champions[i].Games > stats.Champions[j].Games
	})

	return stats, nil
}

// TriggerRenewal asks op.gg to refresh its own data for the summoner.
// Best effort: callers treat failure as a log line, never an error in
// the scrape result.
func (c *Client) TriggerRenewal(ctx context.Context, internalName string) {
	if internalName == "" {
		return
	}
	url := c.baseURL + "/api/v1.0/internal/bypass/summoners/" + c.region + "/" + url.PathEscape(internalName) + "/renewal"
	if _, err := c.fetcher.Post(ctx, url); err != nil {
		c.logger.WarnContext(ctx, "opgg renewal request failed", "summoner", internalName, "error", err)
	}
}

func (c *Client) multisearchURL(term string) string {
	return c.baseURL + "/lol/multisearch/" + c.region + "?summoners=" + url.QueryEscape(term)
}

// championEntry mirrors one element of the my_champion_stats array.
// The kda field shifts shape between payload revisions, so it decodes
// leniently.
type championEntry struct {
	ChampionID int      `json:"champion_id"`
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Key        string   `json:"key"`
	ImageURL   string   `json:"image_url"`
	Play       *int     `json:"play"`
	Win        int      `json:"win"`
	Lose       int      `json:"lose"`
	WinRate    float64  `json:"win_rate"`
	KDA        kdaField `json:"kda"`
}

type kdaField struct {
	Ratio      float64
	AvgKills   float64
	AvgDeaths  float64
	AvgAssists float64
}

func (f *kdaField) UnmarshalJSON(data []byte) error {
	var obj struct {
		KDA       float64 `json:"kda"`
		AvgKill   float64 `json:"avg_kill"`
		AvgDeath  float64 `json:"avg_death"`
		AvgAssist float64 `json:"avg_assist"`
	}
	if err := sonic.Unmarshal(data, &obj); err == nil {
		f.Ratio = obj.KDA
		f.AvgKills = obj.AvgKill
		f.AvgDeaths = obj.AvgDeath
		f.AvgAssists = obj.AvgAssist
		return nil
	}

	var ratio float64
	if err := sonic.Unmarshal(data, &ratio); err == nil {
		f.Ratio = ratio
		return nil
	}

	// null or an unknown shape: leave zeroes.
	return nil
}

func (e championEntry) toChampionStat() (roster.ChampionStat, bool) {
	if e.Play == nil {
		return roster.ChampionStat{}, false
	}

	championID := e.ChampionID
	if championID == 0 {
		championID = e.ID
	}
	// champion_id 0 is the "all champions" aggregate row.
	if championID == 0 {
		return roster.ChampionStat{}, false
	}

	games := *e.Play
	winrate := e.WinRate
	if winrate == 0 && games > 0 {
		winrate = float64(e.Win) / float64(games) * 100
	}

	key := e.Key
	if key == "" && e.ImageURL != "" {
		parts := strings.Split(e.ImageURL, "/")
		key = strings.TrimSuffix(parts[len(parts)-1], ".png")
	}
	name := e.Name
	if name == "" {
		name = key
	}
	if name == "" {
		name = "Champion " + strconv.Itoa(championID)
	}
	if key == "" {
		key = e.Name
	}

	return roster.ChampionStat{
		ChampionID:   championID,
		ChampionName: name,
		ChampionKey:  key,
		Games:        games,
		Wins:         e.Win,
		Losses:       e.Lose,
		Winrate:      round1(winrate),
		KDA:          round2(e.KDA.Ratio),
		AvgKills:     round1(e.KDA.AvgKills),
		AvgDeaths:    round1(e.KDA.AvgDeaths),
		AvgAssists:   round1(e.KDA.AvgAssists),
	}, true
}

// extractChampionArray pulls the raw my_champion_stats JSON array out
// of the page. The payload is double-escaped, so brackets never occur
// inside string literals and a depth count over the raw text is safe.
func extractChampionArray(html string, nearIdx int) (string, bool) {
	from := nearIdx - 50
	if from < 0 {
		from = 0
	}
	marker := strings.Index(html[from:], `my_champion_stats\":[`)
	if marker < 0 {
		marker = strings.Index(html[from:], `"my_champion_stats":[`)
	}
	if marker < 0 {
		return "", false
	}

	arrStart := from + marker + strings.Index(html[from+marker:], "[")
	depth := 0
	end := -1
	limit := arrStart + 500000
	if limit > len(html) {
		limit = len(html)
	}
	for i := arrStart; i < limit; i++ {
		switch html[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return "", false
	}

	return strings.ReplaceAll(html[arrStart:end], `\"`, `"`), true
}

// unescapeRSC flattens one level of RSC payload escaping.
func unescapeRSC(text string) string {
	text = strings.ReplaceAll(text, `\"`, `"`)
	return strings.ReplaceAll(text, `\\/`, "/")
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
