package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/teamcrm/internal/activity"
	"github.com/xela07ax/teamcrm/internal/crm/handler"
	"github.com/xela07ax/teamcrm/internal/crm/server"
	"github.com/xela07ax/teamcrm/internal/crm/service"
	"github.com/xela07ax/teamcrm/internal/infra"
	"github.com/xela07ax/teamcrm/internal/infra/auth"
	"github.com/xela07ax/teamcrm/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Ключевой материал для RS256
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("invalid public key", zap.Error(err))
	}
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("invalid private key", zap.Error(err))
	}

	// Контекст для управления жизненным циклом фоновых горутин
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Инфраструктура и ресурсы
	store, err := postgres.NewStore(appCtx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to init postgres pool", zap.Error(err))
	}
	defer store.Close()

	pingCtx, pingCancel := context.WithTimeout(appCtx, 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	pingCancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 3. Control Plane: кэш деактивированных учеток
	revoked := auth.NewRevokeList(rdb, logger)
	if err := revoked.Init(appCtx); err != nil {
		// Redis недоступен — стартуем без кэша, БД остается источником истины
		logger.Warn("revoke list init failed, starting cold", zap.Error(err))
	}
	if ids, err := store.ListDeactivatedUserIDs(appCtx); err != nil {
		logger.Warn("deactivated users warmup skipped", zap.Error(err))
	} else if err := revoked.Warmup(appCtx, ids); err != nil {
		logger.Warn("deactivated users warmup failed", zap.Error(err))
	}
	go revoked.StartListener(appCtx)

	// 4. Журнал активности: Postgres-синк за предохранителем + живая лента
	activityRepo := postgres.NewActivityRepo(store)
	recorder := activity.NewRecorder(
		activity.NewGuardedSink(activityRepo),
		activity.NewFeed(rdb, logger),
		logger,
		activity.Options{
			BufferSize:    cfg.Activity.BufferSize,
			BatchSize:     cfg.Activity.BatchSize,
			FlushInterval: cfg.Activity.FlushInterval,
		},
	)
	recorder.Start()

	// 5. Сервисы и обработчики (Dependency Injection)
	authService := service.NewAuthService(store, recorder, privateKey, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost, logger)
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Contact:  handler.NewContactHandler(service.NewContactService(store, recorder, logger)),
		Company:  handler.NewCompanyHandler(service.NewCompanyService(store, recorder, logger)),
		Case:     handler.NewCaseHandler(service.NewCaseService(store, recorder, logger)),
		Task:     handler.NewTaskHandler(service.NewTaskService(store, recorder, logger)),
		Meeting:  handler.NewMeetingHandler(service.NewMeetingService(store, recorder, logger)),
		Document: handler.NewDocumentHandler(service.NewDocumentService(store, recorder, logger)),
		User:     handler.NewUserHandler(service.NewUserService(store, recorder, rdb, cfg.Auth.BcryptCost, logger)),
		Activity: handler.NewActivityHandler(service.NewActivityService(activityRepo, logger)),
	}

	// 6. Метрики и HTTP-сервер
	reg := prometheus.NewRegistry()
	metrics := server.NewMetrics(reg, recorder.BufferFill)

	api := server.NewServer(cfg, logger, auth.NewBaseValidator(publicKey), revoked, reg, metrics, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("CRM API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("CRM API stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Журнал останавливаем последним: дописываем хвост очереди
	recorder.Stop()
	logger.Info("CRM API exited properly")
}
