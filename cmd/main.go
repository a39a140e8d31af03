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

	addPartUsageHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/add_part_usage"
	cancelAppointmentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/complete_appointment"
	confirmAppointmentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/create_appointment"
	createCheckoutHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/create_checkout"
	customerConfirmPaidHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/customer_confirm_paid"
	deleteSlotHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/delete_slot"
	ensureInvoiceHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/ensure_invoice"
	getAccountAppointmentsHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/get_account_appointments"
	getAppointmentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/get_appointment"
	getInvoiceHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/get_invoice"
	getWorkOrderHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/get_workorder"
	removePartUsageHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/remove_part_usage"
	sendInvoiceHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/send_invoice"
	updateInvoicePaymentHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/update_invoice_payment"
	updateWorkOrderHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/update_workorder"
	vnpayIPNHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/vnpay_ipn"
	vnpayReturnHandler "github.com/m04kA/SMC-MaintenanceService/internal/api/handlers/vnpay_return"
	"github.com/m04kA/SMC-MaintenanceService/internal/api/middleware"
	"github.com/m04kA/SMC-MaintenanceService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/appointment"
	invoiceRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/invoice"
	partsRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/parts"
	paymentRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/payment"
	slotRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/slot"
	workorderRepo "github.com/m04kA/SMC-MaintenanceService/internal/infra/storage/workorder"
	accountServiceClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/accountservice"
	catalogServiceClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/catalogservice"
	vehicleServiceClient "github.com/m04kA/SMC-MaintenanceService/internal/integrations/vehicleservice"
	"github.com/m04kA/SMC-MaintenanceService/internal/integrations/vnpay"
	appointmentsService "github.com/m04kA/SMC-MaintenanceService/internal/service/appointments"
	invoicesService "github.com/m04kA/SMC-MaintenanceService/internal/service/invoices"
	slotsService "github.com/m04kA/SMC-MaintenanceService/internal/service/slots"
	workordersService "github.com/m04kA/SMC-MaintenanceService/internal/service/workorders"
	confirmAppointmentUC "github.com/m04kA/SMC-MaintenanceService/internal/usecase/confirm_appointment"
	createAppointmentUC "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_appointment"
	createCheckoutUC "github.com/m04kA/SMC-MaintenanceService/internal/usecase/create_checkout"
	paymentCallbackUC "github.com/m04kA/SMC-MaintenanceService/internal/usecase/payment_callback"
	"github.com/m04kA/SMC-MaintenanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceService/pkg/logger"
	"github.com/m04kA/SMC-MaintenanceService/pkg/metrics"
	"github.com/m04kA/SMC-MaintenanceService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-MaintenanceService/pkg/txmanager"
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

	log.Info("Starting SMC-MaintenanceService...")
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

	// Инициализируем интеграционных клиентов
	accountClient := accountServiceClient.NewClient(
		cfg.AccountService.URL,
		time.Duration(cfg.AccountService.Timeout)*time.Second,
		log,
	)
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	vehicleClient := vehicleServiceClient.NewClient(
		cfg.VehicleService.URL,
		time.Duration(cfg.VehicleService.Timeout)*time.Second,
		log,
	)
	gatewayClient := vnpay.NewClient(vnpay.Config{
		TmnCode:       cfg.VNPay.TmnCode,
		HashSecret:    cfg.VNPay.HashSecret,
		PayURL:        cfg.VNPay.PayURL,
		ReturnURL:     cfg.VNPay.ReturnURL,
		ExpireMinutes: cfg.VNPay.ExpireMinutes,
	}, log)
	log.Info("Integration clients initialized (AccountService=%s, CatalogService=%s, VehicleService=%s, VNPay=%s)",
		cfg.AccountService.URL, cfg.CatalogService.URL, cfg.VehicleService.URL, cfg.VNPay.PayURL)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository        *slotRepo.Repository
		appointmentRepository *appointmentRepo.Repository
		workorderRepository   *workorderRepo.Repository
		partsRepository       *partsRepo.Repository
		invoiceRepository     *invoiceRepo.Repository
		paymentRepository     *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		workorderRepository = workorderRepo.NewRepository(wrappedDB)
		partsRepository = partsRepo.NewRepository(wrappedDB)
		invoiceRepository = invoiceRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		workorderRepository = workorderRepo.NewRepository(db)
		partsRepository = partsRepo.NewRepository(db)
		invoiceRepository = invoiceRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	staffPicker := slotsService.NewFirstActiveStaffPicker(accountClient)
	slotsSvc := slotsService.NewService(
		slotRepository,
		appointmentRepository,
		accountClient,
		staffPicker,
		txMgr,
		log,
		cfg.Slots.DefaultCapacity,
		cfg.Slots.DefaultDurationMinutes,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		accountClient,
		log,
	)
	workordersSvc := workordersService.NewService(
		workorderRepository,
		partsRepository,
		accountClient,
		txMgr,
		log,
		*cfg.WorkOrders.MaxActiveWorkOrders,
	)
	invoicesSvc := invoicesService.NewService(
		invoiceRepository,
		appointmentRepository,
		workorderRepository,
		accountClient,
		catalogClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		slotsSvc,
		accountClient,
		vehicleClient,
		catalogClient,
		txMgr,
		log,
	)
	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		appointmentRepository,
		workorderRepository,
		accountClient,
		catalogClient,
		txMgr,
		log,
		*cfg.WorkOrders.MaxActiveWorkOrders,
	)
	createCheckoutUseCase := createCheckoutUC.NewUseCase(
		paymentRepository,
		invoiceRepository,
		appointmentRepository,
		accountClient,
		gatewayClient,
		txMgr,
		log,
	)
	paymentCallbackUseCase := paymentCallbackUC.NewUseCase(
		paymentRepository,
		invoiceRepository,
		gatewayClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAccountAppointments := getAccountAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotsSvc, log)
	getWorkOrder := getWorkOrderHandler.NewHandler(workordersSvc, log)
	updateWorkOrder := updateWorkOrderHandler.NewHandler(workordersSvc, log)
	addPartUsage := addPartUsageHandler.NewHandler(workordersSvc, log)
	removePartUsage := removePartUsageHandler.NewHandler(workordersSvc, log)
	ensureInvoice := ensureInvoiceHandler.NewHandler(invoicesSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(invoicesSvc, log)
	sendInvoice := sendInvoiceHandler.NewHandler(invoicesSvc, log)
	updateInvoicePayment := updateInvoicePaymentHandler.NewHandler(invoicesSvc, log)
	customerConfirmPaid := customerConfirmPaidHandler.NewHandler(invoicesSvc, log)
	createCheckout := createCheckoutHandler.NewHandler(createCheckoutUseCase, log)
	vnpayReturn := vnpayReturnHandler.NewHandler(
		paymentCallbackUseCase,
		cfg.VNPay.SuccessRedirectURL,
		cfg.VNPay.FailRedirectURL,
		log,
	)
	vnpayIPN := vnpayIPNHandler.NewHandler(paymentCallbackUseCase, log)

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

	// Callback'и платежного шлюза: аутентификация - подпись запроса
	api.HandleFunc("/payments/vnpay-return", vnpayReturn.Handle).Methods(http.MethodGet)
	api.HandleFunc("/payments/vnpay-ipn", vnpayIPN.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на обслуживание ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Подтверждение записи (сотрудник; с механиком - создает заказ-наряд)
	protected.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи (сотрудник)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// История записей аккаунта
	protected.HandleFunc("/accounts/{accountId}/appointments", getAccountAppointments.Handle).Methods(http.MethodGet)

	// --- Слоты ---
	// Удаление слота (сотрудник)
	protected.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Заказ-наряды ---
	// Получение заказ-наряда
	protected.HandleFunc("/workorders/{workOrderId}", getWorkOrder.Handle).Methods(http.MethodGet)

	// Обновление заказ-наряда (статус, диагноз, механик, стоимость)
	protected.HandleFunc("/workorders/{workOrderId}", updateWorkOrder.Handle).Methods(http.MethodPatch)

	// Списание запчасти в заказ-наряд
	protected.HandleFunc("/workorders/{workOrderId}/parts", addPartUsage.Handle).Methods(http.MethodPost)

	// Отмена списания запчасти
	protected.HandleFunc("/workorders/{workOrderId}/parts/{usageId}", removePartUsage.Handle).Methods(http.MethodDelete)

	// --- Счета ---
	// Выставление счета по записи (сотрудник, идемпотентно)
	protected.HandleFunc("/appointments/{appointmentId}/invoice", ensureInvoice.Handle).Methods(http.MethodPost)

	// Получение счета
	protected.HandleFunc("/invoices/{invoiceId}", getInvoice.Handle).Methods(http.MethodGet)

	// Отправка счета клиенту (сотрудник)
	protected.HandleFunc("/invoices/{invoiceId}/send", sendInvoice.Handle).Methods(http.MethodPost)

	// Ручное изменение статуса оплаты (сотрудник)
	protected.HandleFunc("/invoices/{invoiceId}/payment", updateInvoicePayment.Handle).Methods(http.MethodPatch)

	// Подтверждение оплаты клиентом
	protected.HandleFunc("/invoices/{invoiceId}/customer-paid", customerConfirmPaid.Handle).Methods(http.MethodPost)

	// --- Платежи ---
	// Создание платежной сессии VNPay
	protected.HandleFunc("/invoices/{invoiceId}/checkout", createCheckout.Handle).Methods(http.MethodPost)

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
