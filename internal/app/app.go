package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wardvision/scout/external/ddragon"
	"github.com/wardvision/scout/external/fetch"
	"github.com/wardvision/scout/external/leagueofgraphs"
	"github.com/wardvision/scout/external/opgg"
	"github.com/wardvision/scout/internal/config"
	"github.com/wardvision/scout/internal/domain/scouting"
	"github.com/wardvision/scout/internal/infrastructure/repository/jsonfile"
	"github.com/wardvision/scout/internal/infrastructure/repository/memory"
	"github.com/wardvision/scout/internal/infrastructure/scrape"
	"github.com/wardvision/scout/internal/interfaces/httpapi"
	idgen "github.com/wardvision/scout/internal/platform/id"
	"github.com/wardvision/scout/internal/platform/logging"
	"github.com/wardvision/scout/internal/platform/resilience"
	"github.com/wardvision/scout/internal/usecase"
)

// App bundles the HTTP server with the background refresh machinery so
// shutdown can drain in-flight batches before the process exits.
type App struct {
	Server  *http.Server
	refresh *usecase.RefreshService
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := jsonfile.New(cfg.DataFile, idgen.NewRandomGenerator())
	if err != nil {
		return nil, fmt.Errorf("open tournament store: %w", err)
	}

	fetcher := fetch.NewClient(fetch.Config{
		RequestTimeout:    cfg.ScrapeRequestTimeout,
		RequestsPerSecond: cfg.ScrapeRequestsPerSecond,
		Burst:             cfg.ScrapeBurst,
		MaxAttempts:       cfg.ScrapeMaxAttempts,
		RetryBaseDelay:    cfg.ScrapeRetryBaseDelay,
		UserAgent:         cfg.ScrapeUserAgent,
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScrapeCircuitEnabled,
			FailureThreshold: cfg.ScrapeCircuitFailureCount,
			OpenTimeout:      cfg.ScrapeCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScrapeCircuitHalfOpenMaxReq,
		},
	})

	scraper := scrape.New(scrape.Config{
		Opgg: opgg.NewClient(opgg.Config{
			BaseURL: cfg.OpggBaseURL,
			Region:  cfg.OpggRegion,
			Fetcher: fetcher,
			Logger:  logger,
		}),
		History: leagueofgraphs.NewClient(leagueofgraphs.Config{
			BaseURL: cfg.LeagueOfGraphsBaseURL,
			Region:  cfg.OpggRegion,
			Fetcher: fetcher,
		}),
		Logger:         logger,
		TriggerRenewal: cfg.RenewalEnabled,
	})

	rosterService := usecase.NewRosterService(store)
	refreshService := usecase.NewRefreshService(usecase.RefreshServiceConfig{
		Store:         store,
		Tracker:       memory.NewRefreshJobTracker(),
		Scraper:       scraper,
		Logger:        logger,
		Workers:       cfg.RefreshWorkers,
		ScrapeTimeout: cfg.ScrapeTimeout,
	})
	analysisService := usecase.NewAnalysisService(store,
		scouting.FlagConfig{
			OneTrickMinGames: cfg.FlagOneTrickMinGames,
			OneTrickShare:    cfg.FlagOneTrickShare,
			MainMinGames:     cfg.FlagMainMinGames,
			MainBaseRatio:    cfg.FlagMainBaseRatio,
			MainRatioStep:    cfg.FlagMainRatioStep,
			MainMinRatio:     cfg.FlagMainMinRatio,
		},
		scouting.AdvisorConfig{
			TopPoolSize:      cfg.AdvisorTopPoolSize,
			MaxBans:          cfg.AdvisorMaxBans,
			MaxPicksPerRole:  cfg.AdvisorMaxPicksPerRole,
			ComfortMinGames:  cfg.AdvisorComfortMinGames,
			MasteryMinPoints: cfg.AdvisorMasteryMinPoints,
			SignatureWeight:  cfg.AdvisorSignatureWeight,
			OverlapWeight:    cfg.AdvisorOverlapWeight,
			ComfortWeight:    cfg.AdvisorComfortWeight,
			MasteryWeight:    cfg.AdvisorMasteryWeight,
		},
	)

	ddragonClient := ddragon.NewClient(ddragon.Config{
		Fetcher:  fetcher,
		CacheTTL: cfg.DDragonCacheTTL,
	})

	handler := httpapi.NewHandler(rosterService, refreshService, analysisService, ddragonClient, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, refresh: refreshService}, nil
}

// Shutdown stops accepting requests, then waits for running refresh
// batches to finish so their results reach the store.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	a.refresh.Shutdown()
	return nil
}
