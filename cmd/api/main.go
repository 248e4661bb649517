package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/database/mongo"
	"learnhub/internal/database/redis"
	"learnhub/internal/event"
	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
	"learnhub/internal/queue"
	"learnhub/internal/repository"
	"learnhub/internal/service"
	"learnhub/internal/youtube"
	"learnhub/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if err := mongo.Init(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongo.Disconnect()
	redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redis.Close()

	var publisher *event.EventPublisher
	if cfg.RabbitURI != "" && cfg.EventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitURI, cfg.EventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	var jobQueue *queue.Publisher
	if cfg.RabbitURI != "" {
		var err error
		jobQueue, err = queue.NewPublisher(cfg.RabbitURI, cfg.JobQueue)
		if err != nil {
			log.Fatalf("Failed to open job queue: %v", err)
		}
		defer jobQueue.Close()
	} else {
		log.Fatal("RABBITMQ_URI is required for playlist imports")
	}

	db := mongo.Database

	courseRepo := repository.NewCourseRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	resultRepo := repository.NewResultRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	masteryRepo := repository.NewMasteryRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)

	masteryService := service.NewMasteryService(masteryRepo, redis.Client)
	progressService := service.NewProgressService(progressRepo, videoRepo, masteryService)
	videoService := service.NewVideoService(videoRepo)
	quizService := service.NewQuizService(quizRepo, resultRepo, videoRepo, masteryService)
	courseService := service.NewCourseService(courseRepo, videoRepo, quizRepo, resultRepo, progressRepo, jobRepo, publisher)
	analyticsService := service.NewAnalyticsService(progressRepo, resultRepo, videoRepo)
	recommendationService := service.NewRecommendationService(videoRepo, progressRepo, masteryService)
	importService := service.NewImportService(courseRepo, videoRepo, jobRepo, youtube.NewClient(cfg.YouTubeAPIKey), jobQueue, publisher)

	auth := middleware.NewAuth(cfg.JWTSecret, userRepo)
	authHandler := handlers.NewAuthHandler(userRepo)
	courseHandler := handlers.NewCourseHandler(courseService)
	videoHandler := handlers.NewVideoHandler(videoService, progressService)
	quizHandler := handlers.NewQuizHandler(quizService)
	learningHandler := handlers.NewLearningHandler(analyticsService, masteryService, recommendationService)
	adminHandler := handlers.NewAdminHandler(importService, courseService, jobRepo)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FEAddress},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		mongoOK := mongo.IsConnected()
		if !mongoOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "mongo": mongoOK})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", auth.RequireAuth())
	{
		api.POST("/auth/register", authHandler.Register)
		api.GET("/auth/me", authHandler.Me)

		api.GET("/courses", courseHandler.ListCourses)
		api.GET("/courses/:id", courseHandler.GetCourse)

		api.GET("/videos", videoHandler.ListVideos)
		api.GET("/videos/:id", videoHandler.GetVideo)
		api.POST("/videos/:id/progress", videoHandler.UpdateProgress)
		api.GET("/videos/:id/progress", videoHandler.GetProgress)

		api.GET("/quizzes/:video_id", quizHandler.GetQuizForVideo)
		api.POST("/quizzes/submit", quizHandler.SubmitQuiz)

		api.GET("/analytics/mastery", learningHandler.MasteryScores)
		api.GET("/analytics/overview", learningHandler.Overview)
		api.GET("/recommendations/next-video", learningHandler.NextVideo)

		admin := api.Group("/admin", auth.RequireAdmin())
		{
			admin.POST("/import-playlist", adminHandler.ImportPlaylist)
			admin.GET("/courses", adminHandler.ListCourses)
			admin.GET("/jobs", adminHandler.ListJobs)
			admin.DELETE("/courses/:id", courseHandler.DeleteCourse)
		}
	}

	if cfg.ConsulAddress != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Fatalf("Service discovery init failed: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Service registration failed: %v", err)
		}
		defer registry.Deregister()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		log.Printf("API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
