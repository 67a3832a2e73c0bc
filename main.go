package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-checkin/internal/adminapi"
	"github.com/BatmanBruc/bat-bot-checkin/internal/checkin"
	"github.com/BatmanBruc/bat-bot-checkin/internal/config"
	"github.com/BatmanBruc/bat-bot-checkin/internal/handlers"
	"github.com/BatmanBruc/bat-bot-checkin/internal/logging"
	"github.com/BatmanBruc/bat-bot-checkin/internal/middleware"
	"github.com/BatmanBruc/bat-bot-checkin/store"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid checkin timezone", zap.Error(err))
	}

	var ledger types.LedgerStore
	if cfg.PostgresDSN != "" {
		ledger, err = store.NewPostgresLedger(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		logger.Info("using postgres ledger")
	} else {
		ledger, err = store.NewBoltLedger(cfg.BoltPath)
		if err != nil {
			logger.Fatal("failed to open bolt ledger", zap.String("path", cfg.BoltPath), zap.Error(err))
		}
		logger.Info("using bolt ledger", zap.String("path", cfg.BoltPath))
	}
	defer ledger.Close()

	var dedup types.DedupStore
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "checkin_bot")
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		dedup = store.NewRedisDedupStore(rdb, cfg.DedupTTLHours)
		logger.Info("update dedup enabled", zap.String("redis", cfg.RedisAddr))
	}

	service := checkin.NewService(ledger, loc, logger)
	reporter := checkin.NewReporter(ledger, cfg.AdminIDs, logger)
	h := handlers.NewHandlers(service, reporter, logger)
	mw := middleware.New(dedup, logger)

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	handlerChain := mw.DedupMiddleware(
		mw.IdentifyMiddleware(
			h.MainHandler,
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)

	if cfg.AdminAPIAddr != "" {
		api := adminapi.New(cfg.AdminAPIAddr, cfg.AdminAPIToken, reporter, logger)
		go func() {
			if err := api.Run(ctx); err != nil {
				logger.Error("admin api stopped", zap.Error(err))
			}
		}()
		logger.Info("admin api listening", zap.String("addr", cfg.AdminAPIAddr))
	}

	logger.Info("checkin bot started",
		zap.String("timezone", cfg.CheckinTimezone),
		zap.Int("admins", len(cfg.AdminIDs)),
	)
	b.Start(ctx)
}
