package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"talkitout/internal/classifier"
	"talkitout/internal/config"
	"talkitout/internal/crypto"
	"talkitout/internal/handler"
	"talkitout/internal/llm_client"
	"talkitout/internal/message_processor"
	"talkitout/internal/middleware"
	"talkitout/internal/models"
	"talkitout/internal/repository"
	"talkitout/internal/responder"
	"talkitout/internal/risk"
	"talkitout/internal/service"
	"talkitout/internal/telegram_bot"
)

type Server struct {
	router    *gin.Engine
	db        *sqlx.DB
	cfg       *config.Config
	logger    *zap.Logger
	accessLog *logrus.Logger
	cipher    *crypto.TextCipher
	llm       *llm_client.Client
	bot       *telegram_bot.Bot
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger, accessLog *logrus.Logger, cipher *crypto.TextCipher, llm *llm_client.Client, bot *telegram_bot.Bot) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:    router,
		db:        db,
		cfg:       cfg,
		logger:    logger,
		accessLog: accessLog,
		cipher:    cipher,
		llm:       llm,
		bot:       bot,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestLogger(s.accessLog))

	// Repositories
	authRepo := repository.NewAuthRepository(s.db, s.logger)
	messageRepo := repository.NewMessageRepository(s.db, s.cipher, s.logger)
	flagRepo := repository.NewRiskFlagRepository(s.db, s.logger)
	moodRepo := repository.NewMoodRepository(s.db, s.logger)
	taskRepo := repository.NewTaskRepository(s.db, s.logger)
	pomodoroRepo := repository.NewPomodoroRepository(s.db, s.logger)

	// Chat pipeline
	msgClassifier := classifier.NewClassifier(s.llm, s.logger)
	replyGenerator := responder.NewResponder(s.llm, messageRepo, s.cfg.Chat.HistoryLimit, s.logger)
	var notifier message_processor.FlagNotifier
	if s.bot != nil {
		notifier = s.bot
	}
	processor := message_processor.NewProcessor(msgClassifier, replyGenerator, messageRepo, flagRepo, notifier, s.logger)
	detector := risk.NewOverrelianceDetector(messageRepo)

	// Handlers
	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	chatHandler := handler.NewChatHandler(processor, messageRepo, authRepo, s.logger)
	moodHandler := handler.NewMoodHandler(moodRepo, s.logger)
	taskHandler := handler.NewTaskHandler(taskRepo, s.logger)
	pomodoroHandler := handler.NewPomodoroHandler(pomodoroRepo, s.logger)
	flagHandler := handler.NewRiskFlagHandler(flagRepo, detector, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(flagRepo, s.logger)
	accountHandler := handler.NewAccountHandler(authRepo, messageRepo, flagRepo, moodRepo, taskRepo, pomodoroRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)

		chat := authRequired.Group("/chat")
		chat.POST("/messages",
			middleware.PerUserRateLimit(s.cfg.Chat.RatePerMinute, s.cfg.Chat.RateBurst),
			chatHandler.SendMessage)
		chat.GET("/messages", chatHandler.GetHistory)
		chat.DELETE("/messages", chatHandler.ClearHistory)

		authRequired.POST("/moods", moodHandler.CreateEntry)
		authRequired.GET("/moods", moodHandler.GetEntries)

		authRequired.POST("/tasks", taskHandler.CreateTask)
		authRequired.GET("/tasks", taskHandler.GetTasks)
		authRequired.PUT("/tasks/:id", taskHandler.UpdateTask)
		authRequired.DELETE("/tasks/:id", taskHandler.DeleteTask)

		authRequired.POST("/pomodoro/sessions", pomodoroHandler.CreateSession)
		authRequired.GET("/pomodoro/sessions", pomodoroHandler.GetSessions)
		authRequired.GET("/pomodoro/stats", pomodoroHandler.GetStats)

		authRequired.PUT("/account/pii-consent", accountHandler.UpdatePIIConsent)
		authRequired.DELETE("/account", accountHandler.DeleteAccount)

		// Counselor dashboard routes
		counselor := authRequired.Group("")
		counselor.Use(middleware.RequireRole(models.RoleCounselor))
		{
			counselor.GET("/flags", flagHandler.GetAllFlags)
			counselor.GET("/flags/:id", flagHandler.GetFlagByID)
			counselor.PUT("/flags/:id/status", flagHandler.UpdateFlagStatus)
			counselor.GET("/users/:id/overreliance", flagHandler.CheckOverreliance)
			counselor.GET("/analytics/dashboard", analyticsHandler.GetDashboard)
		}
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: s.router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Fatal("Server failed", zap.Error(err))
	}
}
