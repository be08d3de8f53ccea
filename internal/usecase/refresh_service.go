package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/wardvision/scout/internal/domain/refreshjob"
	"github.com/wardvision/scout/internal/domain/roster"
	"github.com/wardvision/scout/internal/platform/logging"
)

const (
	refreshStatusStarted        = "started"
	refreshStatusAlreadyRunning = "already_running"

	defaultRefreshWorkers = 3
	defaultScrapeTimeout  = 90 * time.Second
)

// RefreshService runs the scrape pipeline: a synchronous single-player
// refresh and an asynchronous whole-team batch tracked through the job
// tracker.
type RefreshService struct {
	store   roster.Store
	tracker refreshjob.Tracker
	scraper ProfileScraper
	logger  *logging.Logger

	// workers caps concurrent scrapes in a batch. Low on purpose: the
	// scraped sites throttle aggressively.
	workers       int
	scrapeTimeout time.Duration

	// wg tracks background batches so Shutdown can drain them.
	wg sync.WaitGroup
}

type RefreshServiceConfig struct {
	Store         roster.Store
	Tracker       refreshjob.Tracker
	Scraper       ProfileScraper
	Logger        *logging.Logger
	Workers       int
	ScrapeTimeout time.Duration
}

func NewRefreshService(cfg RefreshServiceConfig) *RefreshService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	scrapeTimeout := cfg.ScrapeTimeout
	if scrapeTimeout <= 0 {
		scrapeTimeout = defaultScrapeTimeout
	}

	return &RefreshService{
		store:         cfg.Store,
		tracker:       cfg.Tracker,
		scraper:       cfg.Scraper,
		logger:        logger,
		workers:       workers,
		scrapeTimeout: scrapeTimeout,
	}
}

// StartResult is the outcome of a team refresh request.
type StartResult struct {
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// StartTeamRefresh kicks off a background batch for every player on the
// team. Calling it again while a batch runs is a no-op reporting
// already_running; the caller polls JobStatus for progress.
func (s *RefreshService) StartTeamRefresh(ctx context.Context, teamID string) (StartResult, error) {
	ctx, span := startUsecaseSpan(ctx, "RefreshService.StartTeamRefresh")
	defer span.End()

	team, ok, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return StartResult{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return StartResult{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if len(team.Players) == 0 {
		return StartResult{}, fmt.Errorf("%w: team %s has no players", ErrInvalidInput, team.Name)
	}

	job, started, err := s.tracker.Begin(ctx, teamID, len(team.Players))
	if err != nil {
		return StartResult{}, fmt.Errorf("begin refresh job: %w", err)
	}
	if !started {
		return StartResult{Status: refreshStatusAlreadyRunning, Total: job.Total}, nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The batch outlives the HTTP request that started it.
		s.runBatch(context.Background(), teamID, team.Players)
	}()

	return StartResult{Status: refreshStatusStarted, Total: len(team.Players)}, nil
}

// JobStatus reports the team's current or last batch.
func (s *RefreshService) JobStatus(ctx context.Context, teamID string) (refreshjob.Job, error) {
	ctx, span := startUsecaseSpan(ctx, "RefreshService.JobStatus")
	defer span.End()

	job, err := s.tracker.Snapshot(ctx, teamID)
	if err != nil {
		return refreshjob.Job{}, fmt.Errorf("job snapshot: %w", err)
	}
	return job, nil
}

// RefreshPlayer scrapes one player synchronously and stores the result.
func (s *RefreshService) RefreshPlayer(ctx context.Context, playerID string) (roster.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "RefreshService.RefreshPlayer")
	defer span.End()

	_, player, ok, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return roster.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return roster.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, s.scrapeTimeout)
	defer cancel()

	update, err := s.scraper.Scrape(scrapeCtx, player.GameName, player.TagLine)
	if err != nil {
		return roster.Player{}, fmt.Errorf("%w: scrape %s: %v", ErrDependencyUnavailable, player.RiotID(), err)
	}

	if err := s.store.SetPlayerStats(ctx, playerID, update); err != nil {
		return roster.Player{}, mapStoreError(err, "player", playerID)
	}

	_, refreshed, ok, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return roster.Player{}, fmt.Errorf("reload player after refresh: %w", err)
	}
	if !ok {
		return roster.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return refreshed, nil
}

// Shutdown waits for in-flight batches to finish.
func (s *RefreshService) Shutdown() {
	s.wg.Wait()
}

func (s *RefreshService) runBatch(ctx context.Context, teamID string, players []roster.Player) {
	defer func() {
		if err := s.tracker.Complete(ctx, teamID); err != nil {
			s.logger.ErrorContext(ctx, "complete refresh job", "team_id", teamID, "error", err)
		}
	}()

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		s.logger.ErrorContext(ctx, "create refresh worker pool", "team_id", teamID, "error", err)
		return
	}
	defer pool.Release()

	// A failed document write means later writes will likely fail too;
	// the rest of the batch stops and the unattempted players simply get
	// no result entry.
	var storeDown atomic.Bool

	var workers sync.WaitGroup
	for _, p := range players {
		p := p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if storeDown.Load() {
				return
			}
			s.refreshBatchPlayer(ctx, teamID, p, &storeDown)
		}); err != nil {
			workers.Done()
			s.logger.ErrorContext(ctx, "submit refresh task", "team_id", teamID, "error", err)
		}
	}
	workers.Wait()
}

func (s *RefreshService) refreshBatchPlayer(ctx context.Context, teamID string, player roster.Player, storeDown *atomic.Bool) {
	if err := s.tracker.RecordStart(ctx, teamID, player.GameName); err != nil {
		s.logger.WarnContext(ctx, "record refresh start", "team_id", teamID, "error", err)
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, s.scrapeTimeout)
	defer cancel()

	result := refreshjob.Result{Player: player.GameName}

	update, err := s.scraper.Scrape(scrapeCtx, player.GameName, player.TagLine)
	if err != nil {
		result.Error = err.Error()
	} else if err := s.store.SetPlayerStats(ctx, player.ID, update); err != nil {
		result.Error = err.Error()
		if errors.Is(err, roster.ErrStoreFailure) {
			storeDown.Store(true)
			s.logger.ErrorContext(ctx, "refresh store write failed, aborting batch",
				"team_id", teamID, "player", player.GameName, "error", err)
		}
	} else {
		result.Success = true
	}

	if err := s.tracker.RecordResult(ctx, teamID, result); err != nil {
		s.logger.WarnContext(ctx, "record refresh result", "team_id", teamID, "error", err)
	}
}
