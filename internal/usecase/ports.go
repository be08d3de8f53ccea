package usecase

import (
	"context"

	"github.com/wardvision/scout/internal/domain/roster"
)

// ProfileScraper pulls one player's stats from the outside world. The
// error return means a total failure; partial failures arrive inside
// the update's ScrapeError field.
type ProfileScraper interface {
	Scrape(ctx context.Context, gameName, tagLine string) (roster.StatsUpdate, error)
}
