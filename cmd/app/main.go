package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-uid-keeper/internal/application"
	"telegram-uid-keeper/internal/config"
	"telegram-uid-keeper/internal/domain/ports/adapter"
	fb "telegram-uid-keeper/internal/infra/adapters/facebook"
	tele "telegram-uid-keeper/internal/infra/adapters/telegram"
	"telegram-uid-keeper/internal/infra/db/sqlite"
	"telegram-uid-keeper/internal/infra/logging"
	"telegram-uid-keeper/internal/infra/metrics"
	red "telegram-uid-keeper/internal/infra/redis"
	"telegram-uid-keeper/internal/infra/web"
	"telegram-uid-keeper/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop telegram)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- SQLite ----
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("sqlite open failed")
	}
	recordRepo := sqlite.NewRecordRepo(db)
	settingsRepo := sqlite.NewSettingsRepo(db)

	// ---- Redis (optional, rate limiting only) ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		log.Warn().Msg("redis.url not set, rate limiting disabled")
	}

	// ---- Facebook Graph ----
	graph, err := fb.NewGraphClient(&cfg.Facebook)
	if err != nil {
		log.Fatal().Err(err).Msg("graph client init failed")
	}

	// ---- Use cases ----
	recordUC := usecase.NewRecordUseCase(recordRepo, log)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, log)
	lookupUC := usecase.NewLookupUseCase(graph, log)
	statsUC := usecase.NewStatsUseCase(recordRepo, log)

	facade := application.NewBotFacade(recordUC, settingsUC, lookupUC, statsUC, cfg.Bot.AdminIDs, log)

	// ---- Telegram ----
	// Dev mode swaps in the noop adapter so the app runs offline without a
	// valid bot token; there is nothing to poll in that case.
	var bot adapter.TelegramBotAdapter
	var stopPolling func()
	if cfg.Runtime.Dev {
		bot = tele.NewNoopBotAdapter(log)
		log.Info().Msg("telegram adapter is noop, polling disabled")
	} else {
		realBot, err := tele.NewRealBotAdapter(&cfg.Bot, facade, rateLimiter, log)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram init failed")
		}
		if strings.ToLower(cfg.Bot.Mode) != "polling" {
			log.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented, falling back to polling")
		}
		bot = realBot
		stopPolling = realBot.StopPolling
		go func() {
			if err := realBot.StartPolling(ctx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// Tell the admins the bot is up.
	for _, id := range cfg.Bot.AdminIDs {
		if err := bot.SendMessage(ctx, id, "UID keeper is up."); err != nil {
			log.Warn().Err(err).Int64("chat_id", id).Msg("startup notice failed")
		}
	}

	// ---- Admin HTTP API ----
	adminSrv := web.NewServer(recordUC, statsUC, cfg.Admin.APIKey, log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminSrv.Router(),
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("admin api error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")

	if stopPolling != nil {
		stopPolling()
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin api shutdown failed")
	}
}
