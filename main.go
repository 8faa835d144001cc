package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbuilder/config"
	"quizbuilder/handlers"
	"quizbuilder/middleware"
	"quizbuilder/routes"
	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger("quizbuilder", cfg.LogLevel)

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()
	if err := config.PingRedis(context.Background(), redisClient); err != nil {
		log.WithError(err).Warn("Redis unreachable; authenticated requests will fail until it recovers")
	}

	// Initialize services
	sessionService := services.NewSessionService(cfg.SessionSecret, cfg.SessionTTL, services.NewRedisRevocationStore(redisClient))
	authService := services.NewAuthService(db, sessionService, cfg.BcryptCost)
	quizService := services.NewQuizService(db)
	questionService := services.NewQuestionService(db, cfg.EnforceAnswerInOptions)

	// Initialize handlers
	cookie := handlers.CookieConfig{Secure: cfg.CookieSecure, MaxAge: sessionService.TTL()}
	authHandler := handlers.NewAuthHandler(authService, cookie, log)
	quizHandler := handlers.NewQuizHandler(quizService, log)
	questionHandler := handlers.NewQuestionHandler(questionService, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB, err := db.DB(); err == nil {
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "quizbuilder"))
	}
	metrics := middleware.NewMetrics(registry)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigin),
	)

	routes.SetupRoutes(
		router,
		authHandler,
		quizHandler,
		questionHandler,
		middleware.AuthMiddleware(sessionService, log),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
