package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createSessionHandler "github.com/m04kA/SMC-SessionService/internal/api/handlers/create_session"
	issueHashHandler "github.com/m04kA/SMC-SessionService/internal/api/handlers/issue_hash"
	paymentNotifyHandler "github.com/m04kA/SMC-SessionService/internal/api/handlers/payment_notify"
	paymentStatusHandler "github.com/m04kA/SMC-SessionService/internal/api/handlers/payment_status"
	"github.com/m04kA/SMC-SessionService/internal/api/middleware"
	"github.com/m04kA/SMC-SessionService/internal/config"
	availabilityRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/availability"
	paymentRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/payment"
	pendingBookingRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/pendingbooking"
	sessionRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/session"
	therapistRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/therapist"
	webhookLogRepo "github.com/m04kA/SMC-SessionService/internal/infra/storage/webhooklog"
	"github.com/m04kA/SMC-SessionService/internal/integrations/daily"
	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
	availabilityService "github.com/m04kA/SMC-SessionService/internal/service/availability"
	paymentsService "github.com/m04kA/SMC-SessionService/internal/service/payments"
	"github.com/m04kA/SMC-SessionService/internal/service/records"
	createSessionUC "github.com/m04kA/SMC-SessionService/internal/usecase/create_session"
	processNotificationUC "github.com/m04kA/SMC-SessionService/internal/usecase/process_notification"
	"github.com/m04kA/SMC-SessionService/pkg/logger"
	"github.com/m04kA/SMC-SessionService/pkg/metrics"
	"github.com/m04kA/SMC-SessionService/pkg/mq"
	"github.com/m04kA/SMC-SessionService/pkg/txmanager"
)

type eventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SessionService...")

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone %q: %v", cfg.Scheduling.Timezone, err)
	}

	// Метрики (nil коллектор безопасен, когда выключены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	txMgr := txmanager.New(db)

	// Публикация событий
	var publisher eventPublisher = mq.NopPublisher{}
	if cfg.Events.Enabled {
		p, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		publisher = p
		log.Info("Publishing events to exchange %s", cfg.Events.Exchange)
	}
	defer publisher.Close()

	// Интеграции
	authenticator := payhere.NewAuthenticator(cfg.PayHere.MerchantID, cfg.PayHere.MerchantSecret)
	if !authenticator.Configured() {
		log.Warn("PayHere merchant secret is not set, notifications will be rejected")
	}
	payhereClient := payhere.NewClient(
		cfg.PayHere.BaseURL,
		cfg.PayHere.AppID,
		cfg.PayHere.AppSecret,
		time.Duration(cfg.PayHere.Timeout)*time.Second,
		log,
	)
	dailyClient := daily.NewClient(
		cfg.Daily.BaseURL,
		cfg.Daily.APIKey,
		time.Duration(cfg.Daily.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PayHere=%s, Daily=%s)", cfg.PayHere.BaseURL, cfg.Daily.BaseURL)

	// Репозитории
	therapistRepository := therapistRepo.NewRepository(db)
	pendingBookingRepository := pendingBookingRepo.NewRepository(db)
	webhookLogRepository := webhookLogRepo.NewRepository(db)
	sessionRepository := sessionRepo.NewRepository(db)
	paymentRepository := paymentRepo.NewRepository(db)
	availabilityRepository := availabilityRepo.NewRepository(db)

	// Сервисы
	recordWriter := records.NewWriter(sessionRepository, paymentRepository, txMgr, log)
	availabilityUpdater := availabilityService.NewUpdater(availabilityRepository, txMgr, location, metricsCollector, log)
	paymentsSvc := paymentsService.NewService(authenticator, payhereClient, log)

	// Use cases
	processNotificationUseCase := processNotificationUC.NewUseCase(
		authenticator,
		webhookLogRepository,
		pendingBookingRepository,
		dailyClient,
		recordWriter,
		availabilityUpdater,
		publisher,
		txMgr,
		metricsCollector,
		cfg.Daily.RoomTTLHours,
		log,
	)
	createSessionUseCase := createSessionUC.NewUseCase(
		therapistRepository,
		pendingBookingRepository,
		dailyClient,
		recordWriter,
		availabilityUpdater,
		publisher,
		txMgr,
		metricsCollector,
		cfg.Daily.RoomTTLHours,
		log,
	)

	// Handlers
	paymentNotify := paymentNotifyHandler.NewHandler(processNotificationUseCase, log)
	createSession := createSessionHandler.NewHandler(createSessionUseCase, log)
	issueHash := issueHashHandler.NewHandler(paymentsSvc, log)
	paymentStatus := paymentStatusHandler.NewHandler(paymentsSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second))

	// Callback шлюза, аутентификация по подписи
	api.HandleFunc("/payments/notify", paymentNotify.Handle).Methods(http.MethodPost)

	// Требуют X-User-ID
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/payments/hash", issueHash.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/status", paymentStatus.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
