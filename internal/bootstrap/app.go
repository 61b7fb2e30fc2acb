package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/clock"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"
	httpHandler "github.com/SantsL/PRYSMSClipsV0.1/internal/handler/http"
	wsHandler "github.com/SantsL/PRYSMSClipsV0.1/internal/handler/websocket"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/hub"
	gormpersistence "github.com/SantsL/PRYSMSClipsV0.1/internal/infra/persistence/gorm"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/infra/setup"
	redisstate "github.com/SantsL/PRYSMSClipsV0.1/internal/infra/state/redis"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/middleware"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/registry"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/service"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/tasks"
	"github.com/SantsL/PRYSMSClipsV0.1/internal/worker"
)

// App holds every long-lived component.
type App struct {
	Config         *Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	AsynqClient    *asynq.Client
	AsynqServer    *worker.WorkerServer
	Scheduler      *asynq.Scheduler
	Hub            *hub.Hub
	HttpServer     *http.Server
	redisClientOpt asynq.RedisClientOpt
}

// handlers groups what the router needs.
type handlers struct {
	auth    *httpHandler.AuthHandler
	bomb    *httpHandler.BombGameHandler
	loadout *httpHandler.LoadoutHandler
	clip    *httpHandler.ClipHandler
	ranking *httpHandler.RankingHandler
	ws      *wsHandler.WebSocketHandler
}

// NewApp wires the application from the environment.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := newLogger(cfg)
	log.Info("Configuration loaded successfully")

	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Infrastructure initialized successfully")

	// Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	lobbyRepo := gormpersistence.NewGormLobbyRoomRepository(db)
	catalogRepo := gormpersistence.NewGormCatalogRepository(db)
	loadoutRepo := gormpersistence.NewGormLoadoutRepository(db)
	roundRepo := gormpersistence.NewGormRoundRecordRepository(db)
	clipRepo := gormpersistence.NewGormClipRepository(db)
	gameRepo := gormpersistence.NewGormGameRepository(db)
	followRepo := gormpersistence.NewGormFollowRepository(db)
	stateRepo := redisstate.NewRedisStateRepository(redisClient, cfg.KeyPrefix)

	// Real-time core
	clk := clock.Real()
	hubInstance := hub.NewHub(cfg.RoomIdleTimeout,
		registry.New(domain.NamespaceBomb, clk),
		registry.New(domain.NamespaceLoadout, clk),
	)
	recorder := tasks.NewRoundEnqueuer(asynqClient)
	bombService := service.NewBombService(hubInstance, recorder, clk, service.RandomSequence, service.BombConfig{
		DefaultTimeLimit: cfg.BombTimeLimit,
		MaxTimeLimit:     cfg.BombMaxTimeLimit,
	})
	loadoutService := service.NewLoadoutService(hubInstance)
	hubInstance.AddReaper(bombService)
	hubInstance.AddReaper(loadoutService)
	hubInstance.SetDispatcher(wsHandler.NewRouter(hubInstance, bombService, loadoutService))
	log.Info("Hub initialized")

	// REST services
	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	lobbyService := service.NewLobbyService(lobbyRepo, hubInstance)
	catalogService := service.NewCatalogService(catalogRepo, loadoutRepo, userRepo)
	leaderboardService := service.NewLeaderboardService(stateRepo, roundRepo)
	clipService := service.NewClipService(clipRepo, gameRepo, userRepo)
	rankingService := service.NewRankingService(followRepo, gameRepo, userRepo)

	h := handlers{
		auth:    httpHandler.NewAuthHandler(authService),
		bomb:    httpHandler.NewBombGameHandler(lobbyService, leaderboardService, service.RandomSequence, cfg.BombTimeLimit),
		loadout: httpHandler.NewLoadoutHandler(catalogService),
		clip:    httpHandler.NewClipHandler(clipService),
		ranking: httpHandler.NewRankingHandler(rankingService),
		ws:      wsHandler.NewWebSocketHandler(hubInstance, cfg.CORSOrigin),
	}

	workerServer := worker.NewWorkerServer(
		redisClientOpt,
		worker.NewRoundRecordHandler(roundRepo, stateRepo),
		worker.NewRoomSweepHandler(hubInstance),
		log,
	)
	log.Info("Worker server initialized")

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := newRouter(cfg, log, stateRepo, h)

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		AsynqServer:    workerServer,
		Hub:            hubInstance,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}, nil
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // validated by LoadConfig
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	// Services log through the package-level logger; keep it in step.
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	log.Infof("Logger initialized (Level: %s, Format: %T)", level.String(), log.Formatter)
	return log
}

func newRouter(cfg *Config, log *logrus.Logger, state *redisstate.RedisStateRepository, h handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.CORSOrigin))
	router.Use(middleware.RateLimit(state, cfg.RateLimitMax, cfg.RateLimitWindow))

	requireAuth := middleware.Auth(cfg.JWTSecret)
	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.auth.Register)
		authRoutes.POST("/login", h.auth.Login)
		authRoutes.GET("/profile", requireAuth, h.auth.Profile)
	}

	bombRoutes := api.Group("/bomb_game")
	{
		bombRoutes.GET("/sequence", h.bomb.Sequence)
		bombRoutes.POST("/verify", h.bomb.Verify)
		bombRoutes.GET("/rooms", h.bomb.ListRooms)
		bombRoutes.POST("/rooms", requireAuth, h.bomb.CreateRoom)
		bombRoutes.POST("/rooms/:id/join", requireAuth, h.bomb.JoinRoom)
		bombRoutes.GET("/leaderboard", h.bomb.Leaderboard)
		bombRoutes.GET("/history", requireAuth, h.bomb.History)
	}

	loadoutRoutes := api.Group("/loadout")
	{
		loadoutRoutes.GET("/weapons", h.loadout.Weapons)
		loadoutRoutes.GET("/skins", h.loadout.Skins)
		loadoutRoutes.GET("/stickers", h.loadout.Stickers)
		loadoutRoutes.GET("/loadouts", h.loadout.Loadouts)
		loadoutRoutes.POST("/loadouts", requireAuth, h.loadout.CreateLoadout)
		loadoutRoutes.POST("/loadouts/:id/vote", requireAuth, h.loadout.Vote)
	}

	clipRoutes := api.Group("/clips")
	{
		clipRoutes.GET("", h.clip.List)
		clipRoutes.GET("/:id", h.clip.Get)
		clipRoutes.POST("", requireAuth, h.clip.Create)
		clipRoutes.POST("/:id/like", requireAuth, h.clip.Like)
	}

	rankingRoutes := api.Group("/ranking")
	{
		rankingRoutes.GET("", middleware.OptionalAuth(cfg.JWTSecret), h.ranking.Ranking)
		rankingRoutes.GET("/games", h.ranking.Games)
		rankingRoutes.POST("/follow/:user_id", requireAuth, h.ranking.Follow)
		rankingRoutes.POST("/unfollow/:user_id", requireAuth, h.ranking.Unfollow)
	}

	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), h.ws.HandleConnection)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	return router
}

// Start launches the worker, the scheduler and the HTTP server.
func (a *App) Start() {
	a.Log.Info("Starting application background routines...")

	go a.AsynqServer.Start()
	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{
		Logger:   a.Log.WithField("component", "scheduler"),
		LogLevel: asynq.WarnLevel,
	})

	schedule := a.Config.RoomSweepSchedule
	entryID, err := scheduler.Register(schedule, tasks.NewRoomSweepTask())
	if err != nil {
		a.Log.Errorf("Could not register periodic room sweep task: %v", err)
		return
	}
	a.Log.Infof("Periodic room sweep registered with schedule '%s' (EntryID: %s)", schedule, entryID)

	// Start does not wait for signals; Shutdown stops the scheduler.
	if err := scheduler.Start(); err != nil {
		a.Log.Errorf("Asynq scheduler failed to start: %v", err)
		return
	}
	a.Scheduler = scheduler
	a.Log.Info("Asynq scheduler started")
}

// Shutdown stops accepting traffic, then drains background work and closes
// connections.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	if a.Hub != nil {
		a.Hub.Shutdown()
	}
	if a.Scheduler != nil {
		a.Scheduler.Shutdown()
		a.Log.Info("Asynq scheduler stopped.")
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
	}
	a.Log.Info("Application shutdown complete.")
}

// CORSMiddleware allows the configured frontend origin, or localhost:3000
// when none is set.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs one line per request, leveled by status code.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		path := c.Request.URL.Path
		// The WebSocket token may travel in the query string.
		if c.Request.URL.RawQuery != "" && c.Query("token") == "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
			return
		}
		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
