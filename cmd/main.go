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
	"github.com/redis/go-redis/v9"

	abandonSessionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/abandon_session"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_patient_appointments"
	getScheduleConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule_config"
	getSessionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_session"
	markAppointmentOutcomeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/mark_appointment_outcome"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	selectDateHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/select_date"
	selectSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/select_slot"
	sessionBackHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/session_back"
	startSessionHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/start_session"
	submitPatientFormHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/submit_patient_form"
	updateScheduleConfigHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_schedule_config"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/session"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	patientDirectoryClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/patientdirectory"
	paymentGatewayClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/paymentgateway"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	workflowService "github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
	confirmBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
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

	// Подключаемся к Redis (хранилище сессий бронирования)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	sessionStore := session.NewStore(redisClient, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	log.Info("Session store initialized (ttl=%dm)", cfg.Session.TTLMinutes)

	// Инициализируем интеграционных клиентов
	patientClient := patientDirectoryClient.NewClient(
		cfg.PatientDirectory.URL,
		time.Duration(cfg.PatientDirectory.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PatientDirectory=%s timeout=%ds)",
		cfg.PatientDirectory.URL, cfg.PatientDirectory.Timeout)

	// Платежный шлюз и уведомления опциональны: при выключенной интеграции
	// use case получает nil и пропускает соответствующий шаг
	var paymentClient *paymentGatewayClient.Client
	if cfg.Payment.Enabled {
		paymentClient = paymentGatewayClient.NewClient(cfg.Payment.StripeKey, cfg.Payment.Currency, log)
		log.Info("Payment gateway enabled (currency=%s)", cfg.Payment.Currency)
	} else {
		log.Info("Payment gateway disabled")
	}

	var notificationPublisher *notifications.Publisher
	if cfg.Notifications.Enabled {
		notificationPublisher = notifications.NewPublisher(cfg.Notifications.Brokers, cfg.Notifications.Topic, log)
		defer notificationPublisher.Close()
		log.Info("Notification publisher enabled (topic=%s)", cfg.Notifications.Topic)
	} else {
		log.Info("Notification publisher disabled")
	}

	// Инициализируем репозитории и сервисы (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Общий интерфейс двух менеджеров транзакций: с метриками и без.
	// Выбор реализации делается ниже вместе с репозиториями
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	workflowSvc := workflowService.NewService(
		sessionStore,
		scheduleRepository,
		appointmentRepository,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		scheduleRepository,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleRepository,
		appointmentRepository,
		&getAvailableSlotsUC.RealTimeProvider{},
		log,
	)

	// nil-интерфейсы для выключенных интеграций передаем явно
	var paymentGateway confirmBookingUC.PaymentGateway
	if paymentClient != nil {
		paymentGateway = paymentClient
	}
	var notifier confirmBookingUC.NotificationPublisher
	if notificationPublisher != nil {
		notifier = notificationPublisher
	}

	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		sessionStore,
		appointmentRepository,
		scheduleRepository,
		patientClient,
		paymentGateway,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(scheduleSvc, log)
	updateScheduleConfig := updateScheduleConfigHandler.NewHandler(scheduleSvc, log)
	startSession := startSessionHandler.NewHandler(workflowSvc, log)
	getSession := getSessionHandler.NewHandler(workflowSvc, log)
	selectDate := selectDateHandler.NewHandler(workflowSvc, log)
	selectSlot := selectSlotHandler.NewHandler(workflowSvc, log)
	submitPatientForm := submitPatientFormHandler.NewHandler(workflowSvc, log)
	sessionBack := sessionBackHandler.NewHandler(workflowSvc, log)
	abandonSession := abandonSessionHandler.NewHandler(workflowSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(appointmentsSvc, log)
	markAppointmentOutcome := markAppointmentOutcomeHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

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

	// Слоты дня с флагами доступности
	api.HandleFunc("/providers/{providerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация расписания специалиста
	api.HandleFunc("/providers/{providerId}/schedule-config",
		getScheduleConfig.Handle).Methods(http.MethodGet)

	// --- Сессия бронирования (анонимная, до подтверждения) ---
	api.HandleFunc("/booking-sessions",
		startSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-sessions/{sessionId}",
		getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/booking-sessions/{sessionId}",
		abandonSession.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/booking-sessions/{sessionId}/date",
		selectDate.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-sessions/{sessionId}/slot",
		selectSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-sessions/{sessionId}/patient-form",
		submitPatientForm.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-sessions/{sessionId}/back",
		sessionBack.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-sessions/{sessionId}/confirm",
		confirmBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// История записей пациента
	protected.HandleFunc("/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Перенос записи
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// Фиксация исхода приёма специалистом (completed / no_show)
	protected.HandleFunc("/appointments/{appointmentId}/status", markAppointmentOutcome.Handle).Methods(http.MethodPatch)

	// --- Управление расписанием (для специалистов) ---
	protected.HandleFunc("/providers/{providerId}/schedule-config", updateScheduleConfig.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
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
