package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/techify/backend/config"
	"github.com/techify/backend/internal/api/handlers"
	"github.com/techify/backend/internal/api/middleware"
	"github.com/techify/backend/internal/api/routes"
	"github.com/techify/backend/internal/cache"
	"github.com/techify/backend/internal/logger"
	"github.com/techify/backend/internal/providers/exec"
	"github.com/techify/backend/internal/providers/llm"
	"github.com/techify/backend/internal/realtime"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	var appCache cache.Cache = cache.Noop{}
	redisOn, err := config.InitRedis()
	if err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	if redisOn {
		appCache = cache.NewRedisCache(config.RedisClient)
		log.Info("Redis connected")
	} else {
		log.Warn("REDIS_ADDR not set; caching disabled")
	}

	db := config.MongoDatabase()
	roomRepo := mongorepo.NewRoomRepo(db)
	questionRepo := mongorepo.NewQuestionRepo(db)
	snippetRepo := mongorepo.NewSnippetRepo(db)

	// Realtime layer
	presence := realtime.NewPresence()
	hub := realtime.NewHub(presence, roomRepo, log)
	signaling := realtime.NewSignaling()

	// External execution service
	runner := exec.NewJDoodle(
		os.Getenv("JDOODLE_CLIENT_ID"),
		os.Getenv("JDOODLE_CLIENT_SECRET"),
	)

	// Generative AI is optional; without credentials the AI endpoints report
	// UNAVAILABLE instead of blocking startup.
	var aiProvider llm.Provider
	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		location := os.Getenv("GCP_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		gemini, err := llm.NewVertexGemini(context.Background(), projectID, location, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.WithError(err).Warn("Gemini init failed; AI endpoints disabled")
		} else {
			aiProvider = gemini
			defer gemini.Close()
		}
	} else {
		log.Warn("GCP_PROJECT_ID not set; AI endpoints disabled")
	}

	roomSvc := services.NewRoomService(roomRepo, appCache, log)
	execSvc := services.NewExecutionService(runner, roomRepo, snippetRepo, hub, log)
	aiSvc := services.NewAIService(aiProvider, roomRepo, log)
	questionSvc := services.NewQuestionService(questionRepo, appCache, log)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Room:      handlers.NewRoomHandler(roomSvc),
		Execution: handlers.NewExecutionHandler(execSvc, roomSvc),
		AI:        handlers.NewAIHandler(aiSvc),
		Question:  handlers.NewQuestionHandler(questionSvc),
		WS:        handlers.NewWSHandler(hub, signaling, log),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.WithField("port", port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
	_ = config.MongoClient.Disconnect(ctx)
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
}
