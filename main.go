// File: reserva/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reserva/config"
	"reserva/cron"
	"reserva/database"
	bookingRepo "reserva/database/repository/booking"
	catalogRepo "reserva/database/repository/catalog"
	customerRepo "reserva/database/repository/customer"
	idemRepo "reserva/database/repository/idempotency"
	providerRepo "reserva/database/repository/provider"
	queueRepo "reserva/database/repository/queue"
	reservationRepo "reserva/database/repository/reservation"
	slotRepo "reserva/database/repository/slot"
	"reserva/handlers"
	"reserva/routes"
	"reserva/services/catalog"
	"reserva/services/notification"
	"reserva/services/reservation"
	"reserva/services/tasks"
	"reserva/utils"
	"reserva/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	location, err := time.LoadLocation(config.AppConfig.ShopTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid shop timezone %q: %v", config.AppConfig.ShopTimezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	customers := customerRepo.NewMongoCustomerRepo()
	providers := providerRepo.NewMongoProviderRepo()
	services := catalogRepo.NewMongoCatalogRepo()
	queue := queueRepo.NewMongoQueueRepo()
	idem := idemRepo.NewMongoIdempotencyRepo()
	txnRepo := reservationRepo.NewMongoReservationTxnRepo()

	// services.
	serviceCatalog := catalog.NewCachedServiceCatalog(services, 5*time.Minute)
	metrics := utils.NewMetrics("reserva")
	gateway := whatsapp.NewClient(logger)

	notificationService := &notification.DefaultNotificationService{
		Gateway:        gateway,
		Queue:          queue,
		Idem:           idem,
		Bookings:       bookings,
		Customers:      customers,
		Providers:      providers,
		Catalog:        serviceCatalog,
		Metrics:        metrics,
		Logger:         logger,
		ShopName:       config.AppConfig.ShopName,
		CancelLinkBase: config.AppConfig.CancelLinkBase,
		PromoImageURL:  config.AppConfig.PromoImageURL,
		SendDelay:      time.Duration(config.AppConfig.SweepSendDelayMs) * time.Millisecond,
	}

	taskClient := tasks.NewClient()

	coordinator := &reservation.DefaultCoordinator{
		TxnRepo:   txnRepo,
		Bookings:  bookings,
		Slots:     slots,
		Customers: customers,
		Providers: providers,
		Catalog:   serviceCatalog,
		Notifier:  notificationService,
		Reminders: taskClient,
		Cache:     utils.GetCacheClient(),
		Location:  location,
		Logger:    logger,
	}

	// handlers.
	handlers.Coordinator = coordinator
	handlers.Notifier = notificationService
	handlers.QueueRepo = queue
	handlers.TaskClient = taskClient
	handlers.Catalog = serviceCatalog
	handlers.Providers = providers
	handlers.Customers = customers

	// background workers.
	worker := cron.InitNotificationWorker(notificationService, logger)
	scheduler, err := cron.StartSchedulers(notificationService, location, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to start schedulers: %v", err)
	}

	// The asynq broker lives in its own Redis DB; probe it with a
	// dedicated client so the health snapshot reflects the worker's view.
	queueRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	health := utils.NewHealthMonitor(
		database.MongoClient,
		utils.GetCacheClient(),
		queueRedis,
		time.Duration(config.AppConfig.HealthIntervalSec)*time.Second,
	)
	health.Start()
	handlers.Health = health

	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	scheduler.Stop()
	worker.Shutdown()
	if err := taskClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
