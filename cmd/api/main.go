package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "p2p-loan-escrow/internal/adapter/http"
	idemp "p2p-loan-escrow/internal/adapter/middleware"
	"p2p-loan-escrow/internal/adapter/repository/mysql"
	"p2p-loan-escrow/internal/auth"
	"p2p-loan-escrow/internal/config"
	"p2p-loan-escrow/internal/infrastructure/cache"
	"p2p-loan-escrow/internal/infrastructure/db"
	"p2p-loan-escrow/internal/observability"
	"p2p-loan-escrow/internal/usecase/account"
	"p2p-loan-escrow/internal/usecase/loan"
	"p2p-loan-escrow/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	log, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatal("open redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	defer rdb.Close()

	var events rabbitmq.Publisher = &rabbitmq.EventProducerFallback{Log: log}
	if cfg.AMQPURL != "" {
		p, err := rabbitmq.NewEventProducer(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			log.Warn("amqp unavailable, loan events will only be logged", zap.Error(err))
		} else {
			events = p
		}
	}
	defer events.Close()

	loanRepo := mysql.NewLoanRepository(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)
	loans := loan.NewUsecase(loanRepo, mysql.NewGormUoW(gdb),
		loan.WithPublisher(events),
		loan.WithLogger(log.Named("loan")),
	)
	accounts := account.NewUsecase(ledgerRepo, log.Named("account"))
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	health := httpadp.NewHandler(map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	httpadp.Register(e, health,
		httpadp.NewLoanHandler(loans),
		httpadp.NewAccountHandler(accounts, tokens),
		idemp.Authenticate(tokens, log.Named("auth")),
		idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log.Named("idempotency")),
	)

	addr := ":" + cfg.AppPort
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
