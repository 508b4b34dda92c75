package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"tabhome/internal/config"
	"tabhome/internal/database"
	"tabhome/internal/handlers"
	"tabhome/internal/logging"
	"tabhome/internal/middleware"
	"tabhome/internal/services"
	"tabhome/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting TabHome Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s)", cfg.Port, cfg.DatabasePath)

	// Initialize SQLite database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize storage and core services
	store := storage.New(db)

	migrations := services.NewMigrationService(store)
	migrations.Initialize()

	notifier := services.NewSettingsNotifier()
	metrics := services.InitMetrics()
	conversations := services.NewConversationService(store)
	configService := services.NewConfigService(store, notifier)
	weatherService := services.NewWeatherService(cfg.WeatherUpstreamURL, cfg.WeatherCacheTTL)

	// Apply the seed config on startup and re-apply on file changes
	if cfg.SeedFile != "" {
		applySeedConfig(cfg.SeedFile, configService)
		go startSeedFileWatcher(cfg.SeedFile, configService)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TabHome v1.0",
		ReadTimeout:  300 * time.Second, // streaming chat relays stay open for minutes
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  300 * time.Second,
		BodyLimit:    20 * 1024 * 1024, // conversation imports can carry full histories
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("tabhome")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Load rate limiting configuration
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Chat=%d/min, Weather=%d/min, WS=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.ChatMax,
		rateLimitConfig.WeatherMax,
		rateLimitConfig.WebSocketMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		// Default to localhost for development
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}

	// Fiber's CORS middleware does not allow AllowCredentials with
	// wildcard origins
	allowCredentials := allowedOrigins != "*"

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,x-api-key,x-api-url,x-model",
		AllowCredentials: allowCredentials,
	}))

	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", allowedOrigins)

	// Global API rate limiter
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	profileHandler := handlers.NewProfileHandler(store, notifier, metrics)
	stateHandler := handlers.NewStateHandler(store, metrics)
	conversationHandler := handlers.NewConversationHandler(conversations)
	configHandler := handlers.NewConfigHandler(configService, store)
	chatHandler := handlers.NewChatProxyHandler(cfg.ChatDefaultBaseURL, cfg.ChatDefaultModel, cfg.ChatUpstreamTimeout, metrics)
	weatherHandler := handlers.NewWeatherHandler(weatherService, metrics)
	geoHandler := handlers.NewGeoHandler()
	eventsHandler := handlers.NewEventsHandler(notifier, metrics)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	api.Get("/profile", profileHandler.Get)
	api.Put("/profile", profileHandler.Update)

	api.Get("/todos", stateHandler.GetTodos)
	api.Put("/todos", stateHandler.PutTodos)
	api.Get("/quick-links", stateHandler.GetQuickLinks)
	api.Put("/quick-links", stateHandler.PutQuickLinks)
	api.Get("/theme", stateHandler.GetTheme)
	api.Put("/theme", stateHandler.PutTheme)
	api.Get("/ai-configs", stateHandler.GetAIConfigs)
	api.Put("/ai-configs", stateHandler.PutAIConfigs)
	api.Get("/ai-configs/current", stateHandler.GetCurrentAIConfig)
	api.Put("/ai-configs/current", stateHandler.PutCurrentAIConfig)

	// "current" before ":id" so the pointer routes don't get captured as an id
	api.Get("/conversations/current", conversationHandler.GetCurrent)
	api.Put("/conversations/current", conversationHandler.SetCurrent)
	api.Delete("/conversations/current", conversationHandler.ClearCurrent)
	api.Get("/conversations", conversationHandler.List)
	api.Post("/conversations", conversationHandler.Create)
	api.Post("/conversations/import", conversationHandler.Import)
	api.Get("/conversations/:id", conversationHandler.Get)
	api.Delete("/conversations/:id", conversationHandler.Delete)
	api.Post("/conversations/:id/messages", conversationHandler.AddMessage)
	api.Put("/conversations/:id/last-message", conversationHandler.UpdateLastMessage)
	api.Post("/conversations/:id/pin", conversationHandler.TogglePin)
	api.Put("/conversations/:id/title", conversationHandler.UpdateTitle)
	api.Get("/conversations/:id/export", conversationHandler.Export)

	api.Get("/config/export", configHandler.Export)
	api.Post("/config/import", configHandler.Import)
	api.Post("/config/validate", configHandler.Validate)
	api.Post("/storage/clear", configHandler.Clear)

	api.Post("/ai-chat", middleware.ChatRateLimiter(rateLimitConfig), chatHandler.Handle)

	api.Get("/weather/city", stateHandler.GetWeatherCity)
	api.Put("/weather/city", stateHandler.PutWeatherCity)
	api.Get("/weather", middleware.WeatherRateLimiter(rateLimitConfig), weatherHandler.Handle)

	api.Get("/geo/provinces", geoHandler.Provinces)

	// WebSocket event feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	wsConfig := websocket.Config{
		Origins: strings.Split(allowedOrigins, ","),
	}

	app.Use("/ws/events", middleware.WebSocketRateLimiter(rateLimitConfig))
	app.Get("/ws/events", websocket.New(eventsHandler.Handle, wsConfig))

	// Start server
	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("🔗 Event feed: ws://localhost:%s/ws/events", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// applySeedConfig imports an exported config document from disk
func applySeedConfig(path string, configService *services.ConfigService) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️  Failed to read seed config %s: %v", path, err)
		return
	}

	if err := configService.Import(data); err != nil {
		log.Printf("❌ Failed to apply seed config %s: %v", path, err)
		return
	}

	log.Printf("✅ Seed config applied from %s", path)
}

// startSeedFileWatcher watches the seed config file and re-imports on changes
func startSeedFileWatcher(path string, configService *services.ConfigService) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Printf("⚠️  Failed to get absolute path for %s: %v", path, err)
		watcher.Close()
		return
	}

	// Watch the directory containing the file (more reliable than
	// watching the file directly)
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		watcher.Close()
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", path)

	// Debounce timer to avoid multiple imports for rapid file changes
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					log.Printf("🔄 Detected changes in %s, re-applying seed config...", path)
					applySeedConfig(path, configService)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
