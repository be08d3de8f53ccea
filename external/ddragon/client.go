// Package ddragon resolves champion icon URLs against Riot's Data
// Dragon CDN.
package ddragon

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/wardvision/scout/internal/platform/cache"
)

const (
	defaultBaseURL  = "https://ddragon.leagueoflegends.com"
	versionCacheKey = "ddragon:version"
	versionCacheTTL = 24 * time.Hour

	// fallbackVersion keeps icon URLs working when the version endpoint
	// is down. Stale icons beat broken ones.
	fallbackVersion = "14.24.1"
)

// Fetcher is the page getter the client resolves versions through.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Config struct {
	BaseURL string
	Fetcher Fetcher
	// CacheTTL overrides how long a resolved version is reused.
	CacheTTL time.Duration
}

type Client struct {
	baseURL string
	fetcher Fetcher
	cache   *cache.Store
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = versionCacheTTL
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		fetcher: cfg.Fetcher,
		cache:   cache.NewStore(ttl),
	}
}

// Version returns the latest Data Dragon version, cached for a day.
func (c *Client) Version(ctx context.Context) string {
	value, err := c.cache.GetOrLoad(ctx, versionCacheKey, func(ctx context.Context) (any, error) {
		body, err := c.fetcher.Get(ctx, c.baseURL+"/api/versions.json")
		if err != nil {
			return nil, errors.Wrap(err, "ddragon versions")
		}
		var versions []string
		if err := sonic.Unmarshal(body, &versions); err != nil {
			return nil, errors.Wrap(err, "ddragon: decode versions")
		}
		if len(versions) == 0 {
			return nil, errors.New("ddragon: empty version list")
		}
		return versions[0], nil
	})
	if err != nil {
		return fallbackVersion
	}
	return value.(string)
}

// ChampionIconURL builds the CDN icon URL for a champion key like
// "Ahri" or "MonkeyKing".
func (c *Client) ChampionIconURL(ctx context.Context, championKey string) string {
	key := "Unknown"
	if championKey != "" {
		key = strings.ToUpper(championKey[:1]) + championKey[1:]
	}
	return c.baseURL + "/cdn/" + c.Version(ctx) + "/img/champion/" + key + ".png"
}
