// Package scrape assembles the per-site clients into one profile
// scraper and parses the riot IDs users paste in.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/wardvision/scout/external/leagueofgraphs"
	"github.com/wardvision/scout/external/opgg"
	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/platform/logging"
)

// Scraper pulls one player's full profile from all sources. The tier
// lookup runs first because it resolves the canonical name and tag the
// other pages are keyed by; history and champions then run in parallel
// since they hit different sites.
type Scraper struct {
	opgg    *opgg.Client
	history *leagueofgraphs.Client
	logger  *logging.Logger
	renewal bool
}

type Config struct {
	Opgg    *opgg.Client
	History *leagueofgraphs.Client
	Logger  *logging.Logger
	// TriggerRenewal asks op.gg to refresh its own data before scraping.
	TriggerRenewal bool
}

func New(cfg Config) *Scraper {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scraper{
		opgg:    cfg.Opgg,
		history: cfg.History,
		logger:  logger,
		renewal: cfg.TriggerRenewal,
	}
}

// Scrape gathers a player's stats. Partial source failures land in the
// update's ScrapeError field; the error return is reserved for a total
// failure where no source produced anything.
func (s *Scraper) Scrape(ctx context.Context, gameName, tagLine string) (roster.StatsUpdate, error) {
	update := roster.StatsUpdate{RetrievedAt: time.Now().UTC()}
	var failures []string

	resolvedName, resolvedTag := gameName, tagLine

	tier, err := s.opgg.FetchTier(ctx, gameName, tagLine)
	if err != nil {
		failures = append(failures, fmt.Sprintf("tier fetch failed: %v", err))
	} else {
		update.Rank = &roster.RankUpdate{
			Tier:         tier.Tier,
			Division:     tier.Division,
			LP:           tier.LP,
			ResolvedName: tier.ResolvedName,
			ResolvedTag:  tier.ResolvedTag,
		}
		if tier.ResolvedName != "" {
			resolvedName = tier.ResolvedName
		}
		if tier.ResolvedTag != "" {
			resolvedTag = tier.ResolvedTag
		}
		if s.renewal {
			s.opgg.TriggerRenewal(ctx, tier.InternalName)
		}
	}

	update.OpggURL = s.opgg.ProfileURL(resolvedName, resolvedTag)

	var (
		champs    opgg.ChampionStats
		champsErr error
		past      leagueofgraphs.History
		pastErr   error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		champs, champsErr = s.opgg.FetchChampions(ctx, resolvedName, resolvedTag)
	})
	wg.Go(func() {
		past, pastErr = s.history.FetchHistory(ctx, resolvedName, resolvedTag)
	})
	wg.Wait()

	if champsErr != nil {
		failures = append(failures, fmt.Sprintf("champions fetch failed: %v", champsErr))
	} else {
		update.Champions = &roster.ChampionsUpdate{
			SeasonGames:   champs.SeasonGames,
			SeasonWins:    champs.SeasonWins,
			SeasonLosses:  champs.SeasonLosses,
			SeasonWinrate: champs.SeasonWinrate,
			Champions:     champs.Champions,
		}
	}

	if pastErr != nil {
		failures = append(failures, fmt.Sprintf("season history failed: %v", pastErr))
	} else {
		update.History = &roster.HistoryUpdate{
			PreviousSeasonTier: past.PreviousSeasonTier,
			PeakTier:           past.PeakTier,
			SeasonHistory:      past.SeasonHistory,
		}
	}

	update.ScrapeError = strings.Join(failures, "; ")

	if update.Empty() {
		return update, errors.Newf("scrape %s#%s: %s", gameName, tagLine, update.ScrapeError)
	}
	if update.ScrapeError != "" {
		s.logger.WarnContext(ctx, "partial scrape",
			"player", gameName+"#"+tagLine, "error", update.ScrapeError)
	}

	return update, nil
}
