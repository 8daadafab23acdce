package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/itvlab/lab-scheduler/internal/api/handlers"
	clearBookingsHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/clear_bookings"
	createBookingsHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/create_bookings"
	downloadDBHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/download_db"
	generatePDFHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/generate_pdf"
	getBookingStatusHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/get_booking_status"
	getBookingsHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/get_bookings"
	getRoomsHandler "github.com/itvlab/lab-scheduler/internal/api/handlers/get_rooms"
	"github.com/itvlab/lab-scheduler/internal/api/middleware"
	"github.com/itvlab/lab-scheduler/internal/bookingwindow"
	"github.com/itvlab/lab-scheduler/internal/config"
	"github.com/itvlab/lab-scheduler/internal/infra/pdf"
	bookingRepo "github.com/itvlab/lab-scheduler/internal/infra/storage/booking"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/database"
	roomRepo "github.com/itvlab/lab-scheduler/internal/infra/storage/room"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/schema"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/snapshot"
	"github.com/itvlab/lab-scheduler/internal/integrations/eventbus"
	"github.com/itvlab/lab-scheduler/internal/integrations/mailer"
	"github.com/itvlab/lab-scheduler/internal/integrations/notifier"
	bookingsService "github.com/itvlab/lab-scheduler/internal/service/bookings"
	roomsService "github.com/itvlab/lab-scheduler/internal/service/rooms"
	createBookingsUC "github.com/itvlab/lab-scheduler/internal/usecase/create_bookings"
	getBookingStatusUC "github.com/itvlab/lab-scheduler/internal/usecase/get_booking_status"
	"github.com/itvlab/lab-scheduler/pkg/dbmetrics"
	"github.com/itvlab/lab-scheduler/pkg/logger"
	"github.com/itvlab/lab-scheduler/pkg/metrics"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
	"github.com/itvlab/lab-scheduler/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	var logOpts []logger.Option
	if cfg.Logs.Format == "json" {
		logOpts = append(logOpts, logger.WithJSON())
	}
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logOpts...)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting lab-scheduler...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	rawDB, dialect, err := database.Open(startupCtx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer rawDB.Close()
	log.Info("Connected to %s database", dialect)

	var db *dbmetrics.DB
	if cfg.Metrics.Enabled {
		db = dbmetrics.WrapWithDefault(rawDB, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		db = dbmetrics.Wrap(rawDB, nil, cfg.Metrics.ServiceName)
	}

	var txOpts []txmanager.Option
	if dialect == psqlbuilder.SQLite {
		txOpts = append(txOpts, txmanager.WithoutIsolationLevels(), txmanager.WithReadsOutsideTransaction())
	}
	txMgr := txmanager.NewTransactionManager(db, txOpts...)

	// Схема и справочник комнат
	applied, err := schema.NewMigrator(db, txMgr, dialect).Migrate(startupCtx)
	if err != nil {
		log.Fatal("Failed to migrate schema: %v", err)
	}
	log.Info("Schema is up to date (%d migrations applied)", applied)

	bookingRepository := bookingRepo.NewRepository(db, dialect)
	roomRepository := roomRepo.NewRepository(db, dialect)

	roomSvc := roomsService.NewService(roomRepository, txMgr, log)
	if _, err := roomSvc.Seed(startupCtx, cfg.Rooms.Names); err != nil {
		log.Fatal("Failed to seed rooms: %v", err)
	}

	// Окно бронирования
	rules, err := cfg.Booking.WindowRules()
	if err != nil {
		log.Fatal("Invalid booking window rules: %v", err)
	}
	calculator := bookingwindow.NewCalculator(rules)

	// Каналы уведомлений
	var sinks []notifier.Sink
	if cfg.SMTP.Enabled() {
		sinks = append(sinks, mailer.NewMailer(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  time.Duration(cfg.SMTP.Timeout) * time.Second,
		}, log))
		log.Info("SMTP notifications enabled (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if cfg.EventBus.Enabled() {
		publisher, err := eventbus.Dial(cfg.EventBus.URL, cfg.EventBus.Exchange, cfg.EventBus.RoutingKey, log)
		if err != nil {
			log.Fatal("Failed to connect to event bus: %v", err)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
		log.Info("Event bus publishing enabled (exchange=%s)", cfg.EventBus.Exchange)
	}
	if len(sinks) == 0 {
		log.Warn("No notification sinks configured, confirmations will not be sent")
	}
	fanOut := notifier.NewFanOut(log, sinks...)

	// Инициализируем сервисы и use cases
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		roomRepository,
		snapshot.New(db, dialect),
		txMgr,
		log,
	)

	createBookingsUseCase := createBookingsUC.NewUseCase(
		bookingRepository,
		roomRepository,
		calculator,
		fanOut,
		txMgr,
		metricsCollector,
		log,
	)
	getBookingStatusUseCase := getBookingStatusUC.NewUseCase(calculator, log)

	// Инициализируем handlers
	createBookings := createBookingsHandler.NewHandler(createBookingsUseCase, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	getRooms := getRoomsHandler.NewHandler(roomSvc, log)
	getBookingStatus := getBookingStatusHandler.NewHandler(getBookingStatusUseCase, log)
	generatePDF := generatePDFHandler.NewHandler(bookingSvc, pdf.NewRenderer(""), log)
	clearBookings := clearBookingsHandler.NewHandler(bookingSvc, log)
	downloadDB := downloadDBHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/rooms", getRooms.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBookings.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-status", getBookingStatus.Handle).Methods(http.MethodGet)
	api.HandleFunc("/generate-pdf", generatePDF.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (общий секрет + ограничение частоты)
	// ============================================================

	adminAuth := middleware.NewAdminAuth(cfg.Admin.Secret, cfg.Admin.SecretHash, log)
	limiter := middleware.NewRateLimiter(cfg.Admin.RateLimit, cfg.Admin.RateBurst)
	if !adminAuth.Enabled() {
		log.Warn("Admin secret is not configured, admin routes will answer 403")
	}

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(limiter.Middleware, adminAuth.Middleware)
	admin.HandleFunc("/clear-bookings", clearBookings.Handle).Methods(http.MethodPost)

	r.Handle("/download-db",
		limiter.Middleware(adminAuth.Middleware(http.HandlerFunc(downloadDB.Handle)))).Methods(http.MethodGet)

	// CORS для фронтенда
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderAdminSecret, middleware.HeaderRequestID},
		ExposedHeaders: []string{"Content-Disposition", middleware.HeaderRequestID},
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
