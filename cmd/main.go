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

	acceptAppointmentHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/accept_appointment"
	assignTechniciansHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/assign_technicians"
	cancelBookingHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/cancel_booking"
	checkDateAvailabilityHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/check_date_availability"
	completeAppointmentHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/complete_appointment"
	createBookingHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/create_booking"
	getAvailableDatesHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/get_available_dates"
	getBookingHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/get_booking"
	listAppointmentsHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/list_appointments"
	listTechniciansHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/list_technicians"
	rejectAppointmentHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/reject_appointment"
	rescheduleAppointmentHandler "github.com/bookaircon/ACS-SchedulingService/internal/api/handlers/reschedule_appointment"
	"github.com/bookaircon/ACS-SchedulingService/internal/api/middleware"
	"github.com/bookaircon/ACS-SchedulingService/internal/config"
	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	capacityRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/capacity"
	customerRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/customer"
	technicianRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/technician"
	appointmentsService "github.com/bookaircon/ACS-SchedulingService/internal/service/appointments"
	techniciansService "github.com/bookaircon/ACS-SchedulingService/internal/service/technicians"
	checkDateAvailabilityUC "github.com/bookaircon/ACS-SchedulingService/internal/usecase/check_date_availability"
	createBookingUC "github.com/bookaircon/ACS-SchedulingService/internal/usecase/create_booking"
	getAvailableDatesUC "github.com/bookaircon/ACS-SchedulingService/internal/usecase/get_available_dates"
	rescheduleServiceUC "github.com/bookaircon/ACS-SchedulingService/internal/usecase/reschedule_service"
	"github.com/bookaircon/ACS-SchedulingService/pkg/dbmetrics"
	"github.com/bookaircon/ACS-SchedulingService/pkg/logger"
	"github.com/bookaircon/ACS-SchedulingService/pkg/metrics"
	"github.com/bookaircon/ACS-SchedulingService/pkg/simpletxmanager"
	"github.com/bookaircon/ACS-SchedulingService/pkg/txmanager"
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

	log.Info("Starting ACS-SchedulingService...")
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

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		capacityRepository    *capacityRepo.Repository
		customerRepository    *customerRepo.Repository
		technicianRepository  *technicianRepo.Repository
	)

	// Интерфейс transaction manager, общий для usecases и сервисов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		capacityRepository = capacityRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		technicianRepository = technicianRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		capacityRepository = capacityRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		technicianRepository = technicianRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		capacityRepository,
		technicianRepository,
		txMgr,
		log,
	)
	technicianSvc := techniciansService.NewService(technicianRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		capacityRepository,
		customerRepository,
		txMgr,
		cfg.Booking.MaxBookingsPerDay,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(
		capacityRepository,
		cfg.Booking.MaxBookingsPerDay,
		cfg.Booking.AvailableDatesHorizonDays,
		cfg.Booking.MaxAvailabilityRangeDays,
		log,
	)
	checkDateAvailabilityUseCase := checkDateAvailabilityUC.NewUseCase(
		capacityRepository,
		cfg.Booking.MaxBookingsPerDay,
		log,
	)
	rescheduleServiceUseCase := rescheduleServiceUC.NewUseCase(
		appointmentRepository,
		capacityRepository,
		txMgr,
		cfg.Booking.MaxBookingsPerDay,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	checkDateAvailability := checkDateAvailabilityHandler.NewHandler(checkDateAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(appointmentSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	acceptAppointment := acceptAppointmentHandler.NewHandler(appointmentSvc, log)
	rejectAppointment := rejectAppointmentHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleServiceUseCase, log)
	assignTechnicians := assignTechniciansHandler.NewHandler(appointmentSvc, log)
	listTechnicians := listTechniciansHandler.NewHandler(technicianSvc, log)

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
	// PUBLIC ROUTES (форма бронирования, без аутентификации)
	// ============================================================

	// Даты со свободными слотами
	api.HandleFunc("/bookings/available-dates", getAvailableDates.Handle).Methods(http.MethodGet)

	// Батч-проверка доступности выбранных дат
	api.HandleFunc("/bookings/check-date-availability", checkDateAvailability.Handle).Methods(http.MethodPost)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Маршруты конкретного бронирования требуют X-Customer-Phone:
	// запись доступна только клиенту, создавшему её
	owned := api.PathPrefix("/bookings/{bookingId:[0-9]+}").Subrouter()
	owned.Use(middleware.CustomerAuth)

	// Получение бронирования по ID
	owned.HandleFunc("", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования клиентом
	owned.HandleFunc("/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-ID header)
	// ============================================================

	admin := api.PathPrefix("/appointments").Subrouter()
	admin.Use(middleware.Auth)

	// Список записей с фильтрацией (календарь, отчеты)
	admin.HandleFunc("", listAppointments.Handle).Methods(http.MethodGet)

	// Справочник техников
	admin.HandleFunc("/technicians", listTechnicians.Handle).Methods(http.MethodGet)

	// Подтверждение записи (опционально с назначением техников)
	admin.HandleFunc("/{appointmentId:[0-9]+}/accept", acceptAppointment.Handle).Methods(http.MethodPost)

	// Завершение выполненной записи
	admin.HandleFunc("/{appointmentId:[0-9]+}/complete", completeAppointment.Handle).Methods(http.MethodPost)

	// Перенос услуги на другую дату
	admin.HandleFunc("/{appointmentId:[0-9]+}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)

	// Назначение техников
	admin.HandleFunc("/{appointmentId:[0-9]+}/assign-technicians", assignTechnicians.Handle).Methods(http.MethodPost)

	// Отклонение записи
	admin.HandleFunc("/{appointmentId:[0-9]+}", rejectAppointment.Handle).Methods(http.MethodDelete)

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

	log.Info("Server exited")
}
