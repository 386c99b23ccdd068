package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingbridge/config"
	"bookingbridge/handlers"
	"bookingbridge/middleware"
	"bookingbridge/routes"
	"bookingbridge/services/booking"
	"bookingbridge/services/payment"
	"bookingbridge/services/scheduling"
	"bookingbridge/services/tasks"
	"bookingbridge/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger, err := utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// services.
	gateway := payment.NewStripeGateway(payment.Config{
		SecretKey: cfg.StripeSecretKey,
		APIURL:    cfg.StripeAPIURL,
		Currency:  cfg.Currency,
		Timeout:   cfg.GatewayTimeout,
	}, logger.Named("payment"))

	attempts, err := scheduling.SelectAttempts(cfg.SchedulingAttempts)
	if err != nil {
		logger.Sugar().Fatalf("main: SCHEDULING_ATTEMPTS: %v", err)
	}
	schedulingClient := scheduling.NewClient(scheduling.ClientConfig{
		BaseURL: cfg.SchedulingBaseURL,
		APIKey:  cfg.SchedulingAPIKey,
		Timeout: cfg.SchedulingTimeout,
	}, logger.Named("scheduling"))
	prober := scheduling.NewProber(schedulingClient, attempts, scheduling.Target{
		InstanceIDs: []int64{cfg.SchedulingInstanceID},
		GroupID:     cfg.SchedulingGroupID,
		Currency:    cfg.Currency,
	}, logger.Named("scheduling"))

	fulfillment := &booking.DefaultFulfillmentService{
		Gateway:   gateway,
		Registrar: prober,
		Notifier:  &tasks.LogNotifier{Logger: logger.Named("followup")},
		Options: booking.Options{
			AutoRegisterJobs: cfg.AutoRegisterJobs,
			NightHoursStart:  cfg.NightHoursStart,
			NightHoursEnd:    cfg.NightHoursEnd,
		},
		Logger: logger.Named("booking"),
	}

	if cfg.RedisAddr != "" {
		cacheClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Warn("main: verification cache disabled", zap.Error(err))
		} else {
			defer cacheClient.Close()
			fulfillment.Cache = utils.NewVerificationCache(cacheClient, cfg.VerifyCacheTTL)
		}
	}
	if cfg.FollowUpQueueEnabled {
		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisQueueDB,
		})
		defer queue.Close()
		fulfillment.Notifier = &tasks.QueueNotifier{Client: queue, Logger: logger.Named("followup")}
	}

	bookingHandler := handlers.NewBookingHandler(fulfillment, cfg.PublicBaseURL)
	handlerBundle := handlers.NewHandlerBundle(bookingHandler)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, cfg.StaticDir)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 66 * time.Second,
		IdleTimeout:       65 * time.Second,
		WriteTimeout:      120 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
