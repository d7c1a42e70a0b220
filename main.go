package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/notification"
	"salonbook/services/payment"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	// storage.
	var stores repository.Stores
	var mongoClient *mongo.Client
	switch cfg.StorageDriver {
	case "memory":
		stores, _ = repository.NewMemoryStores(true)
		logger.Warn("Using in-memory storage; data is lost on restart")
	default:
		if err := database.InitDB(logger); err != nil {
			logger.Fatal("main: database unavailable", zap.Error(err))
		}
		mongoClient = database.MongoClient
		stores = repository.NewMongoStores(mongoClient, database.Database(), logger)
	}

	// locks.
	var redisClients []*redis.Client
	var locker booking.Locker = booking.NewLocalLocker()
	if cfg.LockBackend == "redis" {
		lockClient, err := utils.InitLockCache()
		if err != nil {
			logger.Fatal("main: redis lock backend unavailable", zap.Error(err))
		}
		redisClients = append(redisClients, lockClient)
		locker = utils.NewRedisLocker(lockClient, cfg.LockTTL, logger)
	}

	// observers.
	observers, closers := buildObservers(cfg, stores, logger)
	publisher := booking.NewEventPublisher(logger, observers...)

	bookingService := &booking.DefaultBookingService{
		Repo:      stores.Bookings,
		Chain:     booking.DefaultValidationChain(stores.Salon).Append(booking.ScheduleAvailable()),
		Publisher: publisher,
		Locker:    locker,
		Logger:    logger,
	}
	paymentFacade := &booking.PaymentFacade{
		Bookings:  stores.Bookings,
		Payments:  stores.Payments,
		Tx:        stores.Tx,
		Gateway:   buildGateway(cfg, logger),
		Publisher: publisher,
		Locker:    locker,
		Logger:    logger,
		Timeout:   cfg.PaymentTimeout,
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx, redisClients, mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	bookingHandler := handlers.NewBookingHandler(bookingService, paymentFacade, stores.Salon, logger)
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(bookingHandler))

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	for _, c := range closers {
		c()
	}
	if err := database.CloseDB(); err != nil {
		logger.Warn("main: database close failed", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

func buildGateway(cfg config.Config, logger *zap.Logger) payment.Gateway {
	if strings.EqualFold(cfg.PaymentGateway, "stripe") {
		if cfg.StripeKey == "" {
			logger.Fatal("main: PAYMENT_GATEWAY=stripe needs STRIPE_KEY")
		}
		return payment.NewStripeGateway(logger, cfg.StripeKey, cfg.PaymentCurrency)
	}
	return payment.NewSimulatedGateway(logger, 0)
}

// buildObservers subscribes the channels listed in NOTIFY_CHANNELS, in that
// order. The returned closers release their connections on shutdown.
func buildObservers(cfg config.Config, stores repository.Stores, logger *zap.Logger) ([]booking.Observer, []func()) {
	var observers []booking.Observer
	var closers []func()

	for _, ch := range cfg.Channels() {
		switch ch {
		case "email":
			observers = append(observers, notification.NewEmailObserver(stores.Salon, notification.LogMailer{Logger: logger}, logger))
		case "sms":
			client := asynq.NewClient(cron.QueueRedisOpt())
			worker := cron.InitSMSWorker(notification.LogSMSSender{Logger: logger}, logger)
			observers = append(observers, notification.NewSMSObserver(stores.Salon, client, logger))
			closers = append(closers, func() {
				worker.Shutdown()
				_ = client.Close()
			})
		case "broker":
			pub, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
			if err != nil {
				logger.Error("Broker channel disabled", zap.Error(err))
				continue
			}
			observers = append(observers, notification.NewBrokerObserver(pub, logger))
			closers = append(closers, func() { _ = pub.Close() })
		default:
			logger.Warn("Unknown notification channel", zap.String("channel", ch))
		}
	}
	return observers, closers
}
