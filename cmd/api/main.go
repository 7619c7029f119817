package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resumewise/resume-analyzer/internal/config"
	"resumewise/resume-analyzer/internal/handlers"
	"resumewise/resume-analyzer/internal/repositories"
	"resumewise/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	userRepo := repositories.NewUserRepository(db)
	kvRepo := repositories.NewKVRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	blobs, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}
	storageService := services.NewStorageService(blobs, docRepo)

	pdfParser := services.NewPDFParserService()
	converter := services.NewChromeConverter(pdfParser, cfg.Converter.ChromePath, cfg.Converter.Timeout)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, storageService)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant guidance, optional
	var guidance services.GuidanceService
	if cfg.Qdrant.Enabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		guidance = services.NewGuidanceService(geminiService, qdrantService, 3)
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("ℹ️  QDRANT_URL not set, ATS guidance disabled")
	}

	// Initialize events, optional
	events := services.NewNoopPublisher()
	if cfg.Events.Enabled() {
		events, err = services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to initialize RabbitMQ: %v", err)
		}
		log.Println("✅ RabbitMQ publisher initialized")
	}
	defer events.Close()

	validator, err := services.NewFeedbackValidator()
	if err != nil {
		log.Fatalf("❌ Failed to initialize feedback validator: %v", err)
	}

	// Initialize analyzer
	tracker := services.NewStatusTracker(time.Hour)
	analyzer := services.NewAnalyzerService(
		storageService,
		converter,
		kvRepo,
		geminiService,
		services.NewPromptBuilder(),
		validator,
		guidance,
		events,
		tracker,
	)
	log.Println("✅ Analyzer service initialized")

	// Initialize worker
	worker := services.NewWorker(
		analyzer,
		tracker,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.AnalysisTimeout,
	)
	worker.Start(ctx)

	// Initialize handlers
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	validate := handlers.NewValidator()

	authHandler := handlers.NewAuthHandler(authService, validate, cfg.Auth.TokenTTL, cfg.Server.Env == "production")
	uploadHandler := handlers.NewUploadHandler(worker, tracker, validate, cfg.Storage.MaxFileSize)
	resumeHandler := handlers.NewResumeHandler(services.NewResumeViewService(kvRepo, storageService))
	analysisHandler := handlers.NewAnalysisHandler(tracker)
	fileHandler := handlers.NewFileHandler(storageService, docRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ResumeWise API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		// two PDFs plus form fields
		BodyLimit:    int(2*cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/auth/sign-in", authHandler.HandleSignIn)
	api.Post("/auth/sign-out", authHandler.HandleSignOut)
	api.Get("/auth/me", authHandler.HandleMe)

	requireAuth := handlers.RequireAuth(authService)
	api.Get("/resumes", requireAuth, resumeHandler.HandleList)
	api.Get("/resume/:id", requireAuth, resumeHandler.HandleDetail)
	api.Post("/upload", requireAuth, uploadHandler.HandleUpload)
	api.Post("/upload/job-pdf", requireAuth, uploadHandler.HandleJobPDFUpload)
	api.Get("/analyses/:id", requireAuth, analysisHandler.HandleGetStatus)
	api.Get("/files/*", requireAuth, fileHandler.HandleGetFile)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ResumeWise API",
			"version": "1.0.0",
			"upload":  services.NewFileUploader(cfg.Storage.MaxFileSize, nil).Hint(),
			"endpoints": []string{
				"POST /api/v1/auth/sign-in",
				"POST /api/v1/auth/sign-out",
				"GET /api/v1/auth/me",
				"GET /api/v1/resumes",
				"POST /api/v1/upload",
				"POST /api/v1/upload/job-pdf",
				"GET /api/v1/resume/:id",
				"GET /api/v1/analyses/:id",
				"GET /api/v1/files/*",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig) (services.BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		return services.NewS3BlobStore(ctx, cfg)
	default:
		local := services.NewLocalBlobStore(cfg.UploadPath)
		if err := local.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return local, nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
