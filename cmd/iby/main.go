package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/restocktime/nfl-ncaa-analytics/internal/api/proxy"
	"github.com/restocktime/nfl-ncaa-analytics/internal/api/rest"
	"github.com/restocktime/nfl-ncaa-analytics/internal/api/websocket"
	"github.com/restocktime/nfl-ncaa-analytics/internal/backfill"
	"github.com/restocktime/nfl-ncaa-analytics/internal/cache"
	"github.com/restocktime/nfl-ncaa-analytics/internal/config"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/espn"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/rankings"
	"github.com/restocktime/nfl-ncaa-analytics/internal/ingest/sleeper"
	"github.com/restocktime/nfl-ncaa-analytics/internal/injury"
	"github.com/restocktime/nfl-ncaa-analytics/internal/metrics"
	"github.com/restocktime/nfl-ncaa-analytics/internal/notify"
	"github.com/restocktime/nfl-ncaa-analytics/internal/picks"
	"github.com/restocktime/nfl-ncaa-analytics/internal/publisher"
	"github.com/restocktime/nfl-ncaa-analytics/internal/roster"
	"github.com/restocktime/nfl-ncaa-analytics/internal/scheduler"
	"github.com/restocktime/nfl-ncaa-analytics/internal/service"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store"
	"github.com/restocktime/nfl-ncaa-analytics/internal/store/repository"
)

const (
	serviceName    = "iby-nfl-analytics"
	serviceVersion = "1.0.0"
)

func main() {
	// Optional .env for local development; env vars win in production.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting", "service", serviceName, "version", serviceVersion)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.NewDatabase(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := db.SeedData(); err != nil {
		logger.Warn("seed data failed, continuing", "error", err)
	}
	logger.Info("database ready")

	redisCache := connectRedis(cfg.Redis.URL, logger)
	defer redisCache.Close()

	streamPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	recorder := metrics.NewRecorder()
	scoreboard := cache.NewScoreboardCache()

	espnIngester := espn.NewIngesterWithBaseURL(db, cfg.Upstreams.ESPNBaseURL)
	liveIngester := ingest.NewLiveIngester(espnIngester, scoreboard, streamPublisher, recorder, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seasonIDs := resolveSeasonIDs(ctx, db, cfg, logger)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Slack.WebhookURL != "" {
		notifier = notify.NewSlackNotifier(cfg.Slack.WebhookURL, logger)
	}

	orchestrator := scheduler.NewOrchestrator(liveIngester, recorder, notifier, &scheduler.Config{
		LivePollInterval:     cfg.Polling.LiveInterval,
		MaxRetries:           3,
		RetryDelay:           5 * time.Second,
		MaxConsecutiveErrors: 5,
		ThrottledInterval:    5 * time.Minute,
		Sports:               cfg.Polling.Sports,
		SeasonIDs:            seasonIDs,
	}, logger)
	go orchestrator.Start(ctx)
	logger.Info("live polling started", "sports", cfg.Polling.Sports, "interval", cfg.Polling.LiveInterval)

	// Repositories and domain services.
	gameRepo := repository.NewGameRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	pickRepo := repository.NewPickRepository(db)
	injuryRepo := repository.NewInjuryRepository(db)

	gameService := service.NewGameService(gameRepo, teamRepo, scoreboard, logger)
	playerService := service.NewPlayerService(playerRepo, teamRepo, logger)
	picksService := service.NewPicksService(gameRepo, teamRepo, rankingRepo, pickRepo, streamPublisher, recorder, logger)
	injuryService := injury.NewService(injuryRepo, logger)
	goldmineService := service.NewGoldmineService(gameRepo, teamRepo, playerRepo, injuryService,
		picks.NewScanner(cfg.Picks.GoldmineEdgeThreshold), recorder, logger)

	sleeperClient := sleeper.New(cfg.Upstreams.SleeperBaseURL)
	rosterService := roster.NewService(redisCache, sleeperClient, logger)

	jobs := startJobs(ctx, jobDeps{
		cfg:          cfg,
		espn:         espnIngester,
		teams:        teamRepo,
		rankingsRepo: rankingRepo,
		picks:        picksService,
		goldmine:     goldmineService,
		notifier:     notifier,
		seasonIDs:    seasonIDs,
		logger:       logger,
	})
	if jobs != nil {
		defer jobs.Stop()
	}

	backfillService := backfill.NewService(db, cfg.Upstreams.ESPNBaseURL, logger)
	backfillService.Start()
	logger.Info("backfill service started")

	restServer := rest.NewServer(cfg.HTTP.APIPort, rest.Deps{
		DB:            db,
		GameService:   gameService,
		PlayerService: playerService,
		PicksService:  picksService,
		Goldmine:      goldmineService,
		InjuryService: injuryService,
		RosterService: rosterService,
		Sleeper:       sleeperClient,
		Backfill:      backfillService,
		Recorder:      recorder,
		Logger:        logger,
	})
	go func() {
		if err := restServer.Start(); err != nil {
			logger.Error("rest server stopped", "error", err)
		}
	}()
	logger.Info("rest api listening", "port", cfg.HTTP.APIPort)

	wsServer := websocket.NewServer(redisCache.Client(), cfg.Polling.Sports, recorder, logger)
	go func() {
		if err := wsServer.Start(ctx, cfg.HTTP.WSPort); err != nil {
			logger.Error("websocket server stopped", "error", err)
		}
	}()
	logger.Info("websocket listening", "port", cfg.HTTP.WSPort)

	proxyServer := proxy.NewServer(logger, proxy.WithHeaderInjector(apiKeyInjector(cfg)))
	go func() {
		if err := proxyServer.Start(cfg.HTTP.ProxyPort); err != nil {
			logger.Error("cors proxy stopped", "error", err)
		}
	}()
	logger.Info("cors proxy listening", "port", cfg.HTTP.ProxyPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := backfillService.Shutdown(shutdownCtx); err != nil {
		logger.Warn("backfill shutdown error", "error", err)
	}
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("rest shutdown error", "error", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("websocket shutdown error", "error", err)
	}
	if err := proxyServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("proxy shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// connectRedis retries until Redis accepts connections. Container
// orchestration often brings the service up before its dependencies.
func connectRedis(redisURL string, logger *slog.Logger) *cache.RedisCache {
	const maxRetries = 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		redisCache, err := cache.NewRedisCache(redisURL)
		if err == nil {
			logger.Info("connected to redis")
			return redisCache
		}
		if i == maxRetries-1 {
			logger.Error("failed to connect to redis", "attempts", maxRetries, "error", err)
			os.Exit(1)
		}
		logger.Warn("redis connection failed, retrying", "attempt", i+1, "error", err)
		time.Sleep(retryDelay)
	}
	return nil
}

// resolveSeasonIDs maps each configured sport to its regular season row.
func resolveSeasonIDs(ctx context.Context, db *store.Database, cfg *config.Config, logger *slog.Logger) map[string]int {
	seasonRepo := repository.NewSeasonRepository(db)

	ids := make(map[string]int, len(cfg.Polling.Sports))
	for _, sport := range cfg.Polling.Sports {
		season, err := seasonRepo.GetRegularSeason(ctx, sport, cfg.Polling.SeasonYear)
		if err != nil {
			logger.Error("failed to resolve season", "sport", sport, "year", cfg.Polling.SeasonYear, "error", err)
			os.Exit(1)
		}
		ids[sport] = season.SeasonID
	}
	return ids
}

type jobDeps struct {
	cfg          *config.Config
	espn         *espn.Ingester
	teams        *repository.TeamRepository
	rankingsRepo *repository.RankingRepository
	picks        *service.PicksService
	goldmine     *service.GoldmineService
	notifier     notify.Notifier
	seasonIDs    map[string]int
	logger       *slog.Logger
}

// startJobs wires the periodic maintenance tasks onto the cron scheduler.
func startJobs(ctx context.Context, deps jobDeps) *scheduler.Jobs {
	logger := deps.logger

	refreshRosters := func() {
		for _, sport := range deps.cfg.Polling.Sports {
			teams, err := deps.teams.GetAll(ctx, sport)
			if err != nil {
				logger.Warn("roster refresh skipped, team list unavailable", "sport", sport, "error", err)
				continue
			}
			for _, team := range teams {
				if _, err := deps.espn.IngestRoster(ctx, sport, team.TeamID, deps.seasonIDs[sport]); err != nil {
					logger.Warn("roster ingest failed", "team", team.Abbreviation, "error", err)
				}
			}
		}
	}

	tasks := scheduler.JobTasks{
		DailyIngestion: func() {
			for _, sport := range deps.cfg.Polling.Sports {
				if _, err := deps.espn.IngestTeams(ctx, sport); err != nil {
					logger.Warn("team ingest failed", "sport", sport, "error", err)
				}
				if _, err := deps.espn.IngestTodaysGames(ctx, sport, deps.seasonIDs[sport]); err != nil {
					logger.Warn("daily game ingest failed", "sport", sport, "error", err)
				}
			}
			refreshRosters()
		},
		InjuryRefresh: refreshRosters,
		RankingsScrape: func() {
			client, err := rankings.NewClient(deps.cfg.Upstreams.RankingsURL, logger)
			if err != nil {
				logger.Warn("rankings client unavailable", "error", err)
				return
			}
			ingester := rankings.NewIngester(client, deps.rankingsRepo, logger)
			if _, err := ingester.IngestSnapshot(ctx); err != nil {
				logger.Warn("rankings scrape failed", "error", err)
			}
		},
		GoldmineScan: func() {
			today := time.Now().UTC().Truncate(24 * time.Hour)
			for _, sport := range deps.cfg.Polling.Sports {
				if _, err := deps.picks.GeneratePicksForDate(ctx, sport, today); err != nil {
					logger.Warn("pick generation failed", "sport", sport, "error", err)
				}
			}
			props, err := deps.goldmine.ScanDate(ctx, store.SportNFL, today)
			if err != nil {
				logger.Warn("goldmine scan failed", "error", err)
				return
			}
			if err := deps.notifier.GoldmineAlert(ctx, props); err != nil {
				logger.Warn("goldmine alert failed", "error", err)
			}
		},
	}

	jobs, err := scheduler.NewJobs(tasks, logger)
	if err != nil {
		logger.Error("failed to create job scheduler", "error", err)
		return nil
	}
	if err := jobs.Start(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		return nil
	}
	return jobs
}

// apiKeyInjector attaches per-provider credentials to proxied requests.
func apiKeyInjector(cfg *config.Config) proxy.HeaderInjector {
	return func(host string) map[string]string {
		if host == "v1.american-football.api-sports.io" && cfg.Upstreams.APISportsKey != "" {
			return map[string]string{
				"x-rapidapi-key":  cfg.Upstreams.APISportsKey,
				"x-rapidapi-host": "v1.american-football.api-sports.io",
			}
		}
		return nil
	}
}
