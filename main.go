package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotbook/config"
	"slotbook/cron"
	"slotbook/database"
	"slotbook/database/repository"
	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/routes"
	"slotbook/services/booking"
	ai "slotbook/services/intelligence"
	"slotbook/services/tasks"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	loc := cfg.Location()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Storage.
	var (
		mongoClient *mongo.Client
		bookingRepo repository.BookingRepository
		catalogRepo repository.CatalogRepository
	)
	switch cfg.StorageDriver {
	case "mongo":
		client, err := database.InitDB(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		mongoClient = client
		sched := repository.NewMongoSchedulerRepo(client, cfg.DatabaseName)
		if err := sched.EnsureIndexes(ctx); err != nil {
			logger.Fatal("main: failed to create booking indexes", zap.Error(err))
		}
		catalog := repository.NewMongoCatalogRepo(client, cfg.DatabaseName)
		if err := catalog.EnsureSeed(ctx, repository.DefaultServices()); err != nil {
			logger.Fatal("main: failed to seed service catalog", zap.Error(err))
		}
		bookingRepo, catalogRepo = sched, catalog
	default:
		logger.Warn("main: using in-memory storage; bookings are lost on restart")
		bookingRepo = repository.NewMemorySchedulerRepo()
		catalogRepo = repository.NewMemoryCatalogRepo(repository.DefaultServices()...)
	}

	// Dialogue sessions.
	var (
		sessions     ai.SessionStore
		redisClients []*redis.Client
	)
	switch cfg.SessionStore {
	case "redis":
		client, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB)
		if err != nil {
			logger.Fatal("main: failed to connect to session Redis", zap.Error(err))
		}
		redisClients = append(redisClients, client)
		sessions = ai.NewRedisSessionStore(client, cfg.SessionTTL)
	default:
		mem := ai.NewMemorySessionStore(cfg.SessionTTL)
		interval := cfg.SessionSweepInterval
		if interval <= 0 {
			interval = cfg.SessionTTL / 2
		}
		mem.StartSweeper(ctx, interval)
		sessions = mem
	}

	// Booking reminders.
	var reminders booking.ReminderScheduler
	if cfg.RemindersEnabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisReminderQueueDB,
		}
		scheduler := tasks.NewAsynqReminderScheduler(redisOpt, cfg.ReminderLead, loc)
		defer scheduler.Close()
		reminders = scheduler

		worker := cron.NewReminderWorker(redisOpt, logger)
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("main: reminder worker stopped", zap.Error(err))
			}
		}()
	}

	bookingService := booking.NewBookingService(bookingRepo, reminders, logger, loc)

	// Language collaborators. Without a Gemini key the assistant runs on local rules.
	var (
		extractor  ai.IntentExtractor = ai.NewKeywordExtractor(catalogRepo)
		classifier ai.TopicClassifier = ai.KeywordClassifier{}
		phraser    ai.Phraser         = ai.TemplatePhraser{}
		faq        ai.FAQResponder    = ai.StaticFAQ{}
	)
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("main: failed to create Gemini client", zap.Error(err))
		}
		defer gemini.Close()
		extractor = ai.NewGeminiExtractor(gemini, catalogRepo, cfg.LLMTimeout)
		classifier = ai.NewGeminiClassifier(gemini, cfg.LLMTimeout)
		phraser = ai.NewGeminiPhraser(gemini, cfg.LLMTimeout)
		faq = &ai.FallbackFAQ{
			Primary:  ai.NewGeminiFAQ(gemini, cfg.LLMTimeout),
			Fallback: ai.StaticFAQ{},
			Logger:   logger,
		}
	} else {
		logger.Info("main: GEMINI_API_KEY not set, assistant uses keyword rules")
	}

	engine := &ai.Engine{
		Sessions:   sessions,
		Locker:     ai.NewKeyedLocker(),
		Bookings:   bookingService,
		Catalog:    catalogRepo,
		Extractor:  extractor,
		Classifier: classifier,
		Phraser:    phraser,
		FAQ:        faq,
		Logger:     logger,
		Location:   loc,
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, redisClients, mongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	assistantHandler := handlers.NewAssistantHandler(engine, faq, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, catalogRepo, logger)

	handlerBundle := &handlers.HandlerBundle{
		JWTSecret: []byte(cfg.JWTSecret),

		// Assistant endpoints.
		AssistantHandler: assistantHandler.HandleAssistant,
		FAQHandler:       assistantHandler.HandleFAQ,

		// Booking endpoints.
		ListServicesHandler:  bookingHandler.ListServices,
		AvailabilityHandler:  bookingHandler.Availability,
		BookHandler:          bookingHandler.Book,
		MyBookingsHandler:    bookingHandler.MyBookings,
		CancelBookingHandler: bookingHandler.CancelBooking,

		// Admin endpoints.
		AdminListBookingsHandler:  bookingHandler.AdminListBookings,
		AdminCancelBookingHandler: bookingHandler.CancelBooking,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	for _, c := range redisClients {
		_ = c.Close()
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: MongoDB disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
