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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkAvailabilityHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/create_booking"
	createStationHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/create_station"
	deleteStationHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/delete_station"
	endSessionHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/end_session"
	getAvailableSlotsHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/get_available_slots"
	getStationsHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/get_stations"
	sessionBillingHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/session_billing"
	startSessionHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/start_session"
	updateStationHandler "github.com/m04kA/GLC-StationService/internal/api/handlers/update_station"
	"github.com/m04kA/GLC-StationService/internal/api/middleware"
	"github.com/m04kA/GLC-StationService/internal/config"
	"github.com/m04kA/GLC-StationService/internal/infra/migrator"
	bookingRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	loungecfgRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/loungecfg"
	sessionRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/session"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
	notifyClient "github.com/m04kA/GLC-StationService/internal/integrations/notifyservice"
	billingService "github.com/m04kA/GLC-StationService/internal/service/billing"
	bookingsService "github.com/m04kA/GLC-StationService/internal/service/bookings"
	stationsService "github.com/m04kA/GLC-StationService/internal/service/stations"
	checkAvailabilityUC "github.com/m04kA/GLC-StationService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/GLC-StationService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/GLC-StationService/internal/usecase/get_available_slots"
	"github.com/m04kA/GLC-StationService/pkg/dbmetrics"
	"github.com/m04kA/GLC-StationService/pkg/logger"
	"github.com/m04kA/GLC-StationService/pkg/metrics"
	"github.com/m04kA/GLC-StationService/pkg/simpletxmanager"
	"github.com/m04kA/GLC-StationService/pkg/ttlcache"
	"github.com/m04kA/GLC-StationService/pkg/txmanager"
)

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

	log.Info("Starting GLC-StationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции схемы
	mg, err := migrator.New(db)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := mg.Run(context.Background()); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	if version, err := mg.Version(context.Background()); err == nil {
		log.Info("Database schema is up to date (version=%d)", version)
	}

	// Инициализируем клиент уведомлений
	notifier := notifyClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Notify client initialized (url=%s, timeout=%ds)",
		cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		stationRepository   *stationRepo.Repository
		sessionRepository   *sessionRepo.Repository
		bookingRepository   *bookingRepo.Repository
		customerRepository  *customerRepo.Repository
		loungecfgRepository *loungecfgRepo.Repository
	)

	// Интерфейс transaction manager (используется сервисами и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		stationRepository = stationRepo.NewRepository(wrappedDB)
		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		loungecfgRepository = loungecfgRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		stationRepository = stationRepo.NewRepository(db)
		sessionRepository = sessionRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		loungecfgRepository = loungecfgRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	stationsSvc := stationsService.NewService(
		stationRepository,
		sessionRepository,
		customerRepository,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)
	billingSvc := billingService.NewService(
		sessionRepository,
		stationRepository,
		customerRepository,
		log,
	)

	// Инициализируем use cases
	availabilityCache := ttlcache.New[checkAvailabilityUC.Response](checkAvailabilityUC.CacheTTL)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		[]checkAvailabilityUC.AvailabilityProvider{
			checkAvailabilityUC.NewServerSideProvider(bookingRepository),
			checkAvailabilityUC.NewClientSideProvider(bookingRepository, sessionRepository),
		},
		stationRepository,
		availabilityCache,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		sessionRepository,
		stationRepository,
		loungecfgRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		stationRepository,
		customerRepository,
		checkAvailabilityUseCase,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)

	// Запускаем фоновые наблюдатели: биллинг-монитор открытых сессий
	// (экспорт в Prometheus) и переходы статусов бронирований по времени
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()

	if cfg.Metrics.Enabled {
		monitor := billingService.NewMonitor(
			sessionRepository,
			stationRepository,
			customerRepository,
			metricsCollector,
			log,
		)
		go monitor.Run(monitorCtx)
	}

	lifecycle := bookingsService.NewLifecycle(bookingRepository, stationRepository, log)
	go lifecycle.Run(monitorCtx)

	// Инициализируем handlers
	getStations := getStationsHandler.NewHandler(stationsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	startSession := startSessionHandler.NewHandler(stationsSvc, log)
	endSession := endSessionHandler.NewHandler(stationsSvc, log)
	sessionBilling := sessionBillingHandler.NewHandler(billingSvc, log)
	createStation := createStationHandler.NewHandler(stationsSvc, log)
	updateStation := updateStationHandler.NewHandler(stationsSvc, log)
	deleteStation := deleteStationHandler.NewHandler(stationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Список станций с занятостью
	api.HandleFunc("/stations", getStations.Handle).Methods(http.MethodGet)

	// Слоты станции на дату
	api.HandleFunc("/stations/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Проверка доступности станций в окне времени
	api.HandleFunc("/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// --- Сессии станций ---
	protected.HandleFunc("/stations/{stationId}/sessions", startSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stations/{stationId}/sessions/end", endSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stations/{stationId}/billing", sessionBilling.Handle).Methods(http.MethodGet)

	// --- Каталог станций (для администраторов лаунжа) ---
	protected.HandleFunc("/stations", createStation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stations/{stationId}", updateStation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/stations/{stationId}", deleteStation.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Останавливаем биллинг-монитор и сбор метрик connection pool
	stopMonitor()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
